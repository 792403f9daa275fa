// Package engine orchestrates post-quantum cryptographic operations over
// the algorithm and primitives providers.
//
// One Engine owns one signature context and one KEM context. A single
// exclusive lock guards every public operation: unrelated operations never
// execute concurrently. That trades throughput for a simple consistency
// argument: the provider contexts are never touched by two goroutines at
// once. The entropy gate and security monitor carry their own internal
// locks and never call back into the engine, so nesting them inside the
// engine's lock cannot cycle.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/systmms/pqops/internal/entropy"
	pqerrors "github.com/systmms/pqops/internal/errors"
	"github.com/systmms/pqops/internal/monitor"
	"github.com/systmms/pqops/internal/secure"
	"github.com/systmms/pqops/pkg/algorithm"
	"github.com/systmms/pqops/pkg/primitives"
)

// keygenEntropyBytes is drawn and accounted through the gate before each
// signature key generation.
const keygenEntropyBytes = 32

// KeyKind selects which algorithm context a key-pair generation targets.
type KeyKind int

const (
	KindSignature KeyKind = iota + 1
	KindEncapsulation
)

func (k KeyKind) String() string {
	switch k {
	case KindSignature:
		return "signature"
	case KindEncapsulation:
		return "encapsulation"
	default:
		return "unknown"
	}
}

// Params fixes the process-wide security configuration.
type Params struct {
	// EntropyQuality is the gate threshold in bytes.
	EntropyQuality uint32
	// SecurityLevel is the required security level in bits.
	SecurityLevel uint32
	// SidechannelProtection enables the advisory side-channel check in
	// health probes.
	SidechannelProtection bool
}

// DefaultParams mirrors the library's shipping configuration.
func DefaultParams() Params {
	return Params{
		EntropyQuality:        256,
		SecurityLevel:         256,
		SidechannelProtection: true,
	}
}

// Deps carries the collaborators an Engine composes.
type Deps struct {
	Signer     algorithm.Signer
	KEM        algorithm.Encapsulator
	Primitives primitives.Provider
	Sink       monitor.Sink
}

// Engine is the single coordination point for all cryptographic
// operations.
type Engine struct {
	mu      sync.Mutex
	signer  algorithm.Signer
	kem     algorithm.Encapsulator
	prim    primitives.Provider
	gate    *entropy.Gate
	monitor *monitor.Monitor
	params  Params
}

// New assembles an engine. The monitor starts at its defaults and the
// gate at zero consumption.
func New(params Params, deps Deps) (*Engine, error) {
	if deps.Signer == nil {
		return nil, errors.New("engine: signature context is required")
	}
	if deps.KEM == nil {
		return nil, errors.New("engine: KEM context is required")
	}
	if deps.Primitives == nil {
		return nil, errors.New("engine: primitives provider is required")
	}
	return &Engine{
		signer:  deps.Signer,
		kem:     deps.KEM,
		prim:    deps.Primitives,
		gate:    entropy.NewGate(deps.Primitives, uint64(params.EntropyQuality)),
		monitor: monitor.New(deps.Sink),
		params:  params,
	}, nil
}

// Monitor exposes the security monitor for advisory inspection.
func (e *Engine) Monitor() *monitor.Monitor {
	return e.monitor
}

// EntropyStatus reports cumulative gate consumption and the quality
// predicate.
func (e *Engine) EntropyStatus() (consumed uint64, healthy bool) {
	return e.gate.Consumed(), e.gate.Healthy()
}

// SignatureContext returns the signature scheme context lengths holder.
func (e *Engine) SignatureContext() algorithm.Signer {
	return e.signer
}

// KEMContext returns the key-encapsulation context lengths holder.
func (e *Engine) KEMContext() algorithm.Encapsulator {
	return e.kem
}

// checkLevel enforces the security-level invariant before sensitive work.
func (e *Engine) checkLevel(op string) error {
	if !e.monitor.LevelMaintained() {
		return pqerrors.Wrap(op, pqerrors.ErrSecurity, nil)
	}
	return nil
}

// fail records the error through the monitor and passes it back unchanged.
// The monitor log is best-effort and never masks the original error.
func (e *Engine) fail(op string, err error) error {
	e.monitor.RecordFailure(op, err)
	return err
}

// GenerateKeyPair creates a fresh key pair for the given kind. The raw
// provider output is wrapped into owned secure buffers and wiped.
func (e *Engine) GenerateKeyPair(kind KeyKind) (secure.KeyPair, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	op := kind.String() + " keygen"
	if err := e.checkLevel(op); err != nil {
		return secure.KeyPair{}, e.fail(op, err)
	}

	var pub, priv []byte
	switch kind {
	case KindSignature:
		// Account fresh entropy before lattice keygen; the drawn bytes
		// are a quality probe, not key material.
		probe, err := e.gate.Draw(keygenEntropyBytes)
		if err != nil {
			return secure.KeyPair{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrEntropy, err))
		}
		e.prim.SecureZero(probe)

		pub, priv, err = e.signer.KeyPair()
		if err != nil {
			return secure.KeyPair{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrKeyGeneration, err))
		}
	case KindEncapsulation:
		var err error
		pub, priv, err = e.kem.KeyPair()
		if err != nil {
			return secure.KeyPair{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrKeyGeneration, err))
		}
	default:
		return secure.KeyPair{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrKeyGeneration,
			fmt.Errorf("unknown key kind %d", kind)))
	}

	kp, err := e.wrapKeyPair(pub, priv)
	if err != nil {
		return secure.KeyPair{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrKeyGeneration, err))
	}
	return kp, nil
}

func (e *Engine) wrapKeyPair(pub, priv []byte) (secure.KeyPair, error) {
	defer e.prim.SecureZero(priv)
	defer e.prim.SecureZero(pub)

	public, err := secure.NewPublicKey(e.prim, pub)
	if err != nil {
		return secure.KeyPair{}, err
	}
	private, err := secure.NewPrivateKey(e.prim, priv)
	if err != nil {
		public.Release()
		return secure.KeyPair{}, err
	}
	return secure.KeyPair{Public: public, Private: private}, nil
}

// Sign produces a signature over message with key. The returned buffer is
// sized to the provider-reported actual length.
func (e *Engine) Sign(message []byte, key secure.PrivateKey) (secure.Signature, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "sign"
	if err := e.checkLevel(op); err != nil {
		return secure.Signature{}, e.fail(op, err)
	}

	raw, err := e.signer.Sign(message, key.Bytes())
	if err != nil {
		return secure.Signature{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrSigning, err))
	}
	defer e.prim.SecureZero(raw)

	sig, err := secure.NewSignature(e.prim, raw)
	if err != nil {
		return secure.Signature{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrSigning, err))
	}
	return sig, nil
}

// Verify checks signature over message against key.
//
// The outcome is dual-channel: an invalid signature (wrong length, wrong
// key, or mutated message) is (false, nil), an expected negative result. A
// non-nil error is reserved for inability to evaluate at all and carries
// ErrVerification (or ErrSecurity when the level check refuses the
// operation).
func (e *Engine) Verify(message []byte, sig secure.Signature, key secure.PublicKey) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "verify"
	if err := e.checkLevel(op); err != nil {
		return false, e.fail(op, err)
	}

	if sig.Size() != e.signer.SignatureLength() {
		e.monitor.RecordFailure(op, fmt.Errorf(
			"signature length mismatch: got %d, want %d", sig.Size(), e.signer.SignatureLength()))
		return false, nil
	}

	ok, err := e.signer.Verify(message, sig.Bytes(), key.Bytes())
	if err != nil {
		return false, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrVerification, err))
	}
	if !ok {
		e.monitor.RecordFailure(op, errors.New("signature verification failed"))
		return false, nil
	}
	return true, nil
}

// Encapsulate derives a fresh shared secret for key, returning it together
// with the transporting ciphertext.
func (e *Engine) Encapsulate(key secure.PublicKey) (secure.KEMResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "encapsulate"
	if err := e.checkLevel(op); err != nil {
		return secure.KEMResult{}, e.fail(op, err)
	}

	ct, ss, err := e.kem.Encapsulate(key.Bytes())
	if err != nil {
		return secure.KEMResult{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrEncapsulation, err))
	}
	defer e.prim.SecureZero(ss)
	defer e.prim.SecureZero(ct)

	ciphertext, err := secure.NewBuffer(e.prim, ct)
	if err != nil {
		return secure.KEMResult{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrEncapsulation, err))
	}
	shared, err := secure.NewSharedSecret(e.prim, ss)
	if err != nil {
		ciphertext.Release()
		return secure.KEMResult{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrEncapsulation, err))
	}
	return secure.KEMResult{Ciphertext: ciphertext, SharedSecret: shared}, nil
}

// Decapsulate recovers the shared secret from ciphertext using key.
func (e *Engine) Decapsulate(ciphertext secure.Buffer, key secure.PrivateKey) (secure.SharedSecret, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "decapsulate"
	if err := e.checkLevel(op); err != nil {
		return secure.SharedSecret{}, e.fail(op, err)
	}

	ss, err := e.kem.Decapsulate(ciphertext.Bytes(), key.Bytes())
	if err != nil {
		return secure.SharedSecret{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrDecapsulation, err))
	}
	defer e.prim.SecureZero(ss)

	shared, err := secure.NewSharedSecret(e.prim, ss)
	if err != nil {
		return secure.SharedSecret{}, e.fail(op, pqerrors.Wrap(op, pqerrors.ErrDecapsulation, err))
	}
	return shared, nil
}

// GenerateSecureRandom returns n CSPRNG bytes directly from the primitives
// provider. This is a raw utility path: it does not pass through the
// entropy gate's accounting.
func (e *Engine) GenerateSecureRandom(n int) (secure.Buffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "secure random"
	if err := e.checkLevel(op); err != nil {
		return secure.Buffer{}, e.fail(op, err)
	}

	raw, err := e.prim.RandomBytes(n)
	if err != nil {
		if !errors.Is(err, pqerrors.ErrEntropy) {
			err = pqerrors.Wrap(op, pqerrors.ErrEntropy, err)
		}
		return secure.Buffer{}, e.fail(op, err)
	}
	defer e.prim.SecureZero(raw)

	buf, err := secure.NewBuffer(e.prim, raw)
	if err != nil {
		return secure.Buffer{}, e.fail(op, err)
	}
	return buf, nil
}

// WarmEntropy draws n accounted bytes through the gate and wipes them.
// Used by diagnostics to bring a fresh process up to the quality
// threshold.
func (e *Engine) WarmEntropy(n int) error {
	b, err := e.gate.Draw(n)
	if err != nil {
		return err
	}
	e.prim.SecureZero(b)
	return nil
}
