package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systmms/pqops/internal/config"
	pqerrors "github.com/systmms/pqops/internal/errors"
	"github.com/systmms/pqops/internal/providers"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check crypto engine health and configuration",
		Long: `Verify that the crypto engine is fully operational.

This command checks:
- Configuration file validity
- Signature and KEM scheme availability
- Entropy source health and accumulated quality
- Security monitor state
- A full self-test: keygen, sign, verify, and random generation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger.Info("Checking pqops configuration...")
			rt, err := buildRuntime(cfg)
			if err != nil {
				cfg.Logger.Error("Configuration error: %v", err)
				return err
			}
			defer rt.close()
			cfg.Logger.Info("Configuration loaded successfully")

			// Warm the gate so the self-test is not failed by a cold start.
			quality := cfg.Definition.Security.EntropyQuality
			if err := rt.engine.WarmEntropy(quality); err != nil {
				cfg.Logger.Error("Entropy source error: %v", err)
				return err
			}

			healthy := rt.engine.HealthCheck()
			consumed, gateHealthy := rt.engine.EntropyStatus()
			mon := rt.engine.Monitor()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CHECK\tVALUE\tSTATUS")
			fmt.Fprintf(w, "signature scheme\t%s\t%s\n",
				providers.SignatureSchemeName, statusMark(rt.engine.SignatureContext() != nil))
			fmt.Fprintf(w, "kem scheme\t%s\t%s\n",
				providers.KEMSchemeName, statusMark(rt.engine.KEMContext() != nil))
			fmt.Fprintf(w, "entropy quality\t%d/%d bytes\t%s\n",
				consumed, quality, statusMark(gateHealthy))
			fmt.Fprintf(w, "security level\tmaintained=%t\t%s\n",
				mon.LevelMaintained(), statusMark(mon.LevelMaintained()))
			fmt.Fprintf(w, "side channels\tsuspected=%t\t%s\n",
				mon.SideChannelSuspected(), statusMark(!mon.SideChannelSuspected()))
			fmt.Fprintf(w, "self-test\tkeygen+sign+verify+random\t%s\n", statusMark(healthy))
			w.Flush()

			if !healthy {
				return pqerrors.UserError{
					Message:    "Crypto engine is not healthy",
					Suggestion: "Inspect the failure log and the table above for the failing check",
				}
			}
			cfg.Logger.Info("All checks passed")
			return nil
		},
	}

	return cmd
}

func statusMark(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}
