package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/pqops/internal/config"
	"github.com/systmms/pqops/internal/engine"
	pqerrors "github.com/systmms/pqops/internal/errors"
	"github.com/systmms/pqops/internal/providers"
)

// NewKeygenCommand creates the keygen command.
func NewKeygenCommand(cfg *config.Config) *cobra.Command {
	var (
		pubOut string
		keyOut string
	)

	cmd := &cobra.Command{
		Use:   "keygen <sig|kem>",
		Short: "Generate a post-quantum key pair",
		Long: fmt.Sprintf(`Generate a post-quantum key pair in hardened memory.

  sig  %s signature key pair
  kem  %s key-encapsulation key pair

The private key is written base64-encoded to --key-out with mode 0600.
The public key goes to --pub-out, or to stdout when the flag is unset.`,
			providers.SignatureSchemeName, providers.KEMSchemeName),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind engine.KeyKind
			switch args[0] {
			case "sig":
				kind = engine.KindSignature
			case "kem":
				kind = engine.KindEncapsulation
			default:
				return pqerrors.UserError{
					Message:    fmt.Sprintf("Unknown key kind '%s'", args[0]),
					Suggestion: "Use 'sig' for signature keys or 'kem' for encapsulation keys",
				}
			}

			rt, err := buildRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			// A fresh process starts below the entropy quality bar.
			if err := rt.engine.WarmEntropy(cfg.Definition.Security.EntropyQuality); err != nil {
				return err
			}

			kp, err := rt.engine.GenerateKeyPair(kind)
			if err != nil {
				return err
			}
			defer kp.Release()

			if err := writeSecretFile(keyOut, kp.Private.ExportBase64()); err != nil {
				return err
			}
			cfg.Logger.Info("Private key written to %s", keyOut)

			if pubOut != "" {
				if err := writeSecretFile(pubOut, kp.Public.ToBase64()); err != nil {
					return err
				}
				cfg.Logger.Info("Public key written to %s", pubOut)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), kp.Public.ToBase64())
			}

			cfg.Logger.Info("Fingerprint: %s", kp.Public.Fingerprint())
			return nil
		},
	}

	cmd.Flags().StringVar(&pubOut, "pub-out", "", "Write the public key to this file instead of stdout")
	cmd.Flags().StringVar(&keyOut, "key-out", "", "File for the private key (mode 0600)")
	_ = cmd.MarkFlagRequired("key-out")

	return cmd
}
