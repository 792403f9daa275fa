package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/systmms/pqops/internal/config"
	"github.com/systmms/pqops/internal/engine"
	pqerrors "github.com/systmms/pqops/internal/errors"
	"github.com/systmms/pqops/internal/monitor"
	"github.com/systmms/pqops/internal/providers"
	"github.com/systmms/pqops/internal/secure"
)

// runtime bundles everything a command needs once the configuration is
// loaded and the engine is initialized.
type runtime struct {
	engine *engine.Engine
	prim   *providers.LocalPrimitives
	sink   *monitor.FileSink
}

// buildRuntime loads the configuration and initializes the process-wide
// crypto engine from it. Commands share one engine per process.
func buildRuntime(cfg *config.Config) (*runtime, error) {
	if err := cfg.Load(); err != nil {
		return nil, err
	}

	prim := providers.NewLocalPrimitives()

	signer, err := providers.NewDilithiumSigner()
	if err != nil {
		return nil, fmt.Errorf("signature scheme unavailable: %w", err)
	}
	kem, err := providers.NewKyberKEM()
	if err != nil {
		return nil, fmt.Errorf("KEM scheme unavailable: %w", err)
	}

	rt := &runtime{prim: prim}

	deps := engine.Deps{
		Signer:     signer,
		KEM:        kem,
		Primitives: prim,
	}

	if path := cfg.Definition.FailureLog; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, pqerrors.UserError{
				Message:    "Failed to open failure log",
				Details:    err.Error(),
				Suggestion: "Check the failure_log path in pqops.yaml",
				Err:        err,
			}
		}
		rt.sink = monitor.NewFileSink(f, 256)
		deps.Sink = rt.sink
	}

	if cfg.Definition.Metrics {
		monitor.InitMetrics()
	}

	eng, err := engine.Init(engine.Params{
		EntropyQuality:        uint32(cfg.Definition.Security.EntropyQuality),
		SecurityLevel:         uint32(cfg.Definition.Security.SecurityLevel),
		SidechannelProtection: cfg.Definition.SidechannelProtection(),
	}, deps)
	if err != nil {
		return nil, err
	}
	rt.engine = eng
	return rt, nil
}

// close flushes the failure log sink, if one is attached.
func (rt *runtime) close() {
	if rt.sink != nil {
		rt.sink.Close()
	}
}

// readMessage returns the message bytes for sign/verify: the --message
// flag if set, otherwise the contents of the file argument.
func readMessage(message, file string) ([]byte, error) {
	if message != "" {
		return []byte(message), nil
	}
	if file == "" {
		return nil, pqerrors.UserError{
			Message:    "No message to process",
			Suggestion: "Pass --message or --file",
		}
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, pqerrors.UserError{
			Message:    "Failed to read message file",
			Details:    err.Error(),
			Suggestion: "Check the --file path",
			Err:        err,
		}
	}
	return data, nil
}

// readEncodedFile reads a base64 file written by pqops and decodes it.
// The caller owns the returned bytes and must wipe them when they hold
// secret material.
func readEncodedFile(rt *runtime, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pqerrors.UserError{
			Message:    fmt.Sprintf("Failed to read %s", path),
			Details:    err.Error(),
			Suggestion: "Check the file path",
			Err:        err,
		}
	}
	raw, err := rt.prim.Base64Decode(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, pqerrors.UserError{
			Message:    fmt.Sprintf("%s is not valid base64", path),
			Suggestion: "The file must contain exactly one base64 value as written by pqops",
			Err:        err,
		}
	}
	return raw, nil
}

// readPrivateKey loads a private key file into hardened memory. The
// intermediate plaintext is wiped before returning.
func readPrivateKey(rt *runtime, path string) (secure.PrivateKey, error) {
	raw, err := readEncodedFile(rt, path)
	if err != nil {
		return secure.PrivateKey{}, err
	}
	key, err := secure.NewPrivateKey(rt.prim, raw)
	rt.prim.SecureZero(raw)
	return key, err
}

// readPublicKey loads a public key file into hardened memory.
func readPublicKey(rt *runtime, path string) (secure.PublicKey, error) {
	raw, err := readEncodedFile(rt, path)
	if err != nil {
		return secure.PublicKey{}, err
	}
	return secure.NewPublicKey(rt.prim, raw)
}

// writeSecretFile writes base64 material to a file readable only by the
// owner.
func writeSecretFile(path, encoded string) error {
	if err := os.WriteFile(path, []byte(encoded+"\n"), 0o600); err != nil {
		return pqerrors.UserError{
			Message:    fmt.Sprintf("Failed to write %s", path),
			Details:    err.Error(),
			Suggestion: "Check directory permissions",
			Err:        err,
		}
	}
	return nil
}
