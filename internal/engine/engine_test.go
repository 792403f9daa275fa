package engine_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/pqops/internal/engine"
	pqerrors "github.com/systmms/pqops/internal/errors"
	"github.com/systmms/pqops/internal/monitor"
	"github.com/systmms/pqops/internal/secure"
)

type harness struct {
	eng    *engine.Engine
	signer *fakeSigner
	kem    *fakeKEM
	prim   *fakePrimitives
	sink   *monitor.MemorySink
}

func newHarness(t *testing.T, params engine.Params) *harness {
	t.Helper()

	h := &harness{
		signer: &fakeSigner{},
		kem:    &fakeKEM{},
		prim:   &fakePrimitives{},
		sink:   &monitor.MemorySink{},
	}

	eng, err := engine.New(params, engine.Deps{
		Signer:     h.signer,
		KEM:        h.kem,
		Primitives: h.prim,
		Sink:       h.sink,
	})
	require.NoError(t, err)
	h.eng = eng
	return h
}

func TestNewRequiresDeps(t *testing.T) {
	t.Parallel()

	prim := &fakePrimitives{}

	_, err := engine.New(engine.DefaultParams(), engine.Deps{KEM: &fakeKEM{}, Primitives: prim})
	assert.Error(t, err)

	_, err = engine.New(engine.DefaultParams(), engine.Deps{Signer: &fakeSigner{}, Primitives: prim})
	assert.Error(t, err)

	_, err = engine.New(engine.DefaultParams(), engine.Deps{Signer: &fakeSigner{}, KEM: &fakeKEM{}})
	assert.Error(t, err)
}

func TestGenerateKeyPairSignature(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())

	kp, err := h.eng.GenerateKeyPair(engine.KindSignature)
	require.NoError(t, err)
	defer kp.Release()

	assert.Equal(t, h.signer.PublicKeyLength(), kp.Public.Size())
	assert.Equal(t, h.signer.SecretKeyLength(), kp.Private.Size())
	assert.NotEmpty(t, kp.Public.Fingerprint())

	// Signature keygen accounts entropy through the gate.
	consumed, _ := h.eng.EntropyStatus()
	assert.Equal(t, uint64(32), consumed)
}

func TestGenerateKeyPairEncapsulation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())

	kp, err := h.eng.GenerateKeyPair(engine.KindEncapsulation)
	require.NoError(t, err)
	defer kp.Release()

	assert.Equal(t, h.kem.PublicKeyLength(), kp.Public.Size())

	// KEM keygen does not draw through the gate.
	consumed, _ := h.eng.EntropyStatus()
	assert.Zero(t, consumed)
}

func TestGenerateKeyPairProviderFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())
	h.signer.failKeyPair = true

	_, err := h.eng.GenerateKeyPair(engine.KindSignature)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pqerrors.ErrKeyGeneration))

	records := h.sink.Records()
	require.NotEmpty(t, records)
	assert.Equal(t, "signature keygen", records[0].Operation)
}

func TestGenerateKeyPairUnknownKind(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())

	_, err := h.eng.GenerateKeyPair(engine.KeyKind(42))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pqerrors.ErrKeyGeneration))
}

func TestSecurityLevelGatesOperations(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())
	h.eng.Monitor().MarkLevelCompromised()

	_, err := h.eng.GenerateKeyPair(engine.KindSignature)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pqerrors.ErrSecurity))

	_, err = h.eng.GenerateSecureRandom(16)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pqerrors.ErrSecurity))

	assert.NotEmpty(t, h.sink.Records())
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())

	kp, err := h.eng.GenerateKeyPair(engine.KindSignature)
	require.NoError(t, err)
	defer kp.Release()

	// The 32-byte message 0x00..0x1F.
	message := make([]byte, 32)
	for i := range message {
		message[i] = byte(i)
	}

	sig, err := h.eng.Sign(message, kp.Private)
	require.NoError(t, err)
	defer sig.Release()
	assert.Equal(t, h.signer.SignatureLength(), sig.Size())
	assert.True(t, sig.Valid())

	ok, err := h.eng.Verify(message, sig, kp.Public)
	require.NoError(t, err)
	assert.True(t, ok)

	// Flip bit 0 of byte 0: expected negative outcome, not an error.
	message[0] ^= 0x01
	ok, err = h.eng.Verify(message, sig, kp.Public)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignProviderFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())
	kp, err := h.eng.GenerateKeyPair(engine.KindSignature)
	require.NoError(t, err)
	defer kp.Release()

	h.signer.failSign = true
	_, err = h.eng.Sign([]byte("msg"), kp.Private)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pqerrors.ErrSigning))
}

func TestVerifyLengthMismatchIsFalseNotError(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())
	kp, err := h.eng.GenerateKeyPair(engine.KindSignature)
	require.NoError(t, err)
	defer kp.Release()

	short, err := secure.NewSignature(h.prim, []byte("too-short"))
	require.NoError(t, err)
	defer short.Release()

	ok, err := h.eng.Verify([]byte("msg"), short, kp.Public)
	require.NoError(t, err)
	assert.False(t, ok)

	records := h.sink.Records()
	require.NotEmpty(t, records)
	assert.Contains(t, records[len(records)-1].Detail, "length mismatch")
}

func TestVerifyInfrastructureFaultIsError(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())
	kp, err := h.eng.GenerateKeyPair(engine.KindSignature)
	require.NoError(t, err)
	defer kp.Release()

	sig, err := h.eng.Sign([]byte("msg"), kp.Private)
	require.NoError(t, err)
	defer sig.Release()

	h.signer.failVerify = true
	ok, err := h.eng.Verify([]byte("msg"), sig, kp.Public)
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pqerrors.ErrVerification))
}

func TestEncapsulateDecapsulateRoundTrip(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())

	kp, err := h.eng.GenerateKeyPair(engine.KindEncapsulation)
	require.NoError(t, err)
	defer kp.Release()

	res, err := h.eng.Encapsulate(kp.Public)
	require.NoError(t, err)
	defer res.Release()
	assert.Equal(t, h.kem.CiphertextLength(), res.Ciphertext.Size())
	assert.Equal(t, h.kem.SharedSecretLength(), res.SharedSecret.Size())

	recovered, err := h.eng.Decapsulate(res.Ciphertext, kp.Private)
	require.NoError(t, err)
	defer recovered.Release()

	assert.True(t, recovered.Equal(res.SharedSecret.Memory))
}

func TestEncapsulateFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())
	kp, err := h.eng.GenerateKeyPair(engine.KindEncapsulation)
	require.NoError(t, err)
	defer kp.Release()

	h.kem.failEncap = true
	_, err = h.eng.Encapsulate(kp.Public)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pqerrors.ErrEncapsulation))

	h.kem.failEncap = false
	h.kem.failDecap = true
	res, err := h.eng.Encapsulate(kp.Public)
	require.NoError(t, err)
	defer res.Release()

	_, err = h.eng.Decapsulate(res.Ciphertext, kp.Private)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pqerrors.ErrDecapsulation))
}

func TestGenerateSecureRandom(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())

	buf, err := h.eng.GenerateSecureRandom(48)
	require.NoError(t, err)
	defer buf.Release()
	assert.Equal(t, 48, buf.Size())

	// The raw utility path bypasses gate accounting.
	consumed, _ := h.eng.EntropyStatus()
	assert.Zero(t, consumed)

	h.prim.setFailRandom(true)
	_, err = h.eng.GenerateSecureRandom(16)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pqerrors.ErrEntropy))
}

func TestWarmEntropy(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())

	_, healthy := h.eng.EntropyStatus()
	assert.False(t, healthy)

	require.NoError(t, h.eng.WarmEntropy(256))

	consumed, healthy := h.eng.EntropyStatus()
	assert.True(t, healthy)
	assert.Equal(t, uint64(256), consumed)
}

func TestConcurrentSignsAreSerialized(t *testing.T) {
	t.Parallel()

	h := newHarness(t, engine.DefaultParams())
	kp, err := h.eng.GenerateKeyPair(engine.KindSignature)
	require.NoError(t, err)
	defer kp.Release()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sig, err := h.eng.Sign([]byte("concurrent message"), kp.Private)
			assert.NoError(t, err)
			sig.Release()
		}()
	}
	wg.Wait()

	assert.False(t, h.signer.overlapSeen.Load(), "provider context accessed concurrently")
}
