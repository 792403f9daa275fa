package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/pqops/internal/config"
	pqerrors "github.com/systmms/pqops/internal/errors"
	"github.com/systmms/pqops/internal/secure"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(cfg *config.Config) *cobra.Command {
	var (
		pubFile string
		sigFile string
		message string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a post-quantum signature",
		Long: `Verify a Dilithium5 signature produced by 'pqops sign'.

Exits 0 when the signature is valid for the message and public key, and
non-zero when it is not. An invalid signature is a negative answer, not
a crash: the command reports INVALID and fails cleanly.`,
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

			pub, err := readPublicKey(rt, pubFile)
			if err != nil {
				return err
			}
			defer pub.Release()

			raw, err := readEncodedFile(rt, sigFile)
			if err != nil {
				return err
			}
			sig, err := secure.NewSignature(rt.prim, raw)
			if err != nil {
				return err
			}
			defer sig.Release()

			ok, err := rt.engine.Verify(msg, sig, pub)
			if err != nil {
				return err
			}
			if !ok {
				return pqerrors.UserError{
					Message:    "Signature INVALID",
					Suggestion: "The message, signature, and public key do not match",
				}
			}

			cfg.Logger.Info("Signature VALID (key %s)", pub.Fingerprint())
			return nil
		},
	}

	cmd.Flags().StringVar(&pubFile, "pub", "", "Public key file")
	cmd.Flags().StringVar(&sigFile, "signature", "", "Signature file from 'pqops sign'")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message that was signed")
	cmd.Flags().StringVar(&file, "file", "", "File whose contents were signed")
	_ = cmd.MarkFlagRequired("pub")
	_ = cmd.MarkFlagRequired("signature")

	return cmd
}
