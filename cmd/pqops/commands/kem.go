package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/pqops/internal/config"
	"github.com/systmms/pqops/internal/secure"
)

// NewKEMCommand creates the kem command group.
func NewKEMCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kem",
		Short: "Kyber1024 key encapsulation",
		Long: `Establish shared secrets with the Kyber1024 key-encapsulation mechanism.

'kem encap' derives a fresh shared secret against a peer's public key and
emits the ciphertext to send them. 'kem decap' recovers the same secret
from the ciphertext with the matching private key.`,
	}

	cmd.AddCommand(
		newKEMEncapCommand(cfg),
		newKEMDecapCommand(cfg),
	)

	return cmd
}

func newKEMEncapCommand(cfg *config.Config) *cobra.Command {
	var (
		pubFile   string
		ctOut     string
		secretOut string
	)

	cmd := &cobra.Command{
		Use:   "encap",
		Short: "Encapsulate a fresh shared secret to a public key",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			res, err := rt.engine.Encapsulate(pub)
			if err != nil {
				return err
			}
			defer res.Release()

			if err := writeSecretFile(ctOut, res.Ciphertext.ToBase64()); err != nil {
				return err
			}
			if err := writeSecretFile(secretOut, res.SharedSecret.ExportBase64()); err != nil {
				return err
			}

			cfg.Logger.Info("Ciphertext written to %s", ctOut)
			cfg.Logger.Info("Shared secret written to %s", secretOut)
			return nil
		},
	}

	cmd.Flags().StringVar(&pubFile, "pub", "", "Peer public key file")
	cmd.Flags().StringVar(&ctOut, "ct-out", "", "File for the ciphertext to send to the peer")
	cmd.Flags().StringVar(&secretOut, "secret-out", "", "File for the shared secret (mode 0600)")
	_ = cmd.MarkFlagRequired("pub")
	_ = cmd.MarkFlagRequired("ct-out")
	_ = cmd.MarkFlagRequired("secret-out")

	return cmd
}

func newKEMDecapCommand(cfg *config.Config) *cobra.Command {
	var (
		keyFile   string
		ctFile    string
		secretOut string
	)

	cmd := &cobra.Command{
		Use:   "decap",
		Short: "Recover a shared secret from a ciphertext",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			raw, err := readEncodedFile(rt, ctFile)
			if err != nil {
				return err
			}
			ct, err := secure.NewBuffer(rt.prim, raw)
			if err != nil {
				return err
			}
			defer ct.Release()

			ss, err := rt.engine.Decapsulate(ct, key)
			if err != nil {
				return err
			}
			defer ss.Release()

			if err := writeSecretFile(secretOut, ss.ExportBase64()); err != nil {
				return err
			}
			cfg.Logger.Info("Shared secret written to %s", secretOut)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyFile, "key", "", "Private key file from 'pqops keygen kem'")
	cmd.Flags().StringVar(&ctFile, "ct", "", "Ciphertext file from the peer")
	cmd.Flags().StringVar(&secretOut, "secret-out", "", "File for the shared secret (mode 0600)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("ct")
	_ = cmd.MarkFlagRequired("secret-out")

	return cmd
}
