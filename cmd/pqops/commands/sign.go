package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/pqops/internal/config"
)

// NewSignCommand creates the sign command.
func NewSignCommand(cfg *config.Config) *cobra.Command {
	var (
		keyFile string
		message string
		file    string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message with a post-quantum private key",
		Long: `Sign a message with a Dilithium5 private key generated by 'pqops keygen sig'.

The message comes from --message or --file. The base64 signature goes to
stdout, or to --out when set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMessage(message, file)
			if err != nil {
				return err
			}

			rt, err := buildRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			key, err := readPrivateKey(rt, keyFile)
			if err != nil {
				return err
			}
			defer key.Release()

			sig, err := rt.engine.Sign(msg, key)
			if err != nil {
				return err
			}
			defer sig.Release()

			encoded := rt.prim.Base64Encode(sig.Bytes())
			if out != "" {
				if err := writeSecretFile(out, encoded); err != nil {
					return err
				}
				cfg.Logger.Info("Signature written to %s", out)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyFile, "key", "", "Private key file from 'pqops keygen sig'")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to sign")
	cmd.Flags().StringVar(&file, "file", "", "File whose contents to sign")
	cmd.Flags().StringVar(&out, "out", "", "Write the signature to this file instead of stdout")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
