package commands

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/systmms/pqops/internal/config"
	pqerrors "github.com/systmms/pqops/internal/errors"
)

// NewRandomCommand creates the random command.
func NewRandomCommand(cfg *config.Config) *cobra.Command {
	var hexOut bool

	cmd := &cobra.Command{
		Use:   "random <bytes>",
		Short: "Generate cryptographically secure random bytes",
		Long: `Generate random bytes from the hardened entropy source.

The bytes are held in self-wiping memory until encoded. Output is base64
by default, hex with --hex.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return pqerrors.UserError{
					Message:    fmt.Sprintf("Invalid byte count '%s'", args[0]),
					Suggestion: "Pass a positive integer, e.g. 'pqops random 32'",
				}
			}

			rt, err := buildRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			buf, err := rt.engine.GenerateSecureRandom(n)
			if err != nil {
				return err
			}
			defer buf.Release()

			if hexOut {
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf.Bytes()))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), buf.ToBase64())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&hexOut, "hex", false, "Emit hex instead of base64")

	return cmd
}
