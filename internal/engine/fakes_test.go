package engine_test

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/systmms/pqops/internal/providers"
)

// fakePrimitives wraps the real local provider with failure toggles.
type fakePrimitives struct {
	providers.LocalPrimitives
	mu         sync.Mutex
	unhealthy  bool
	failRandom bool
}

func (f *fakePrimitives) setUnhealthy(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unhealthy = v
}

func (f *fakePrimitives) setFailRandom(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failRandom = v
}

func (f *fakePrimitives) RandomSourceHealthy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.unhealthy
}

func (f *fakePrimitives) RandomBytes(n int) ([]byte, error) {
	f.mu.Lock()
	fail := f.failRandom
	f.mu.Unlock()
	if fail {
		return nil, errors.New("rng refused")
	}
	return f.LocalPrimitives.RandomBytes(n)
}

// fakeSigner is a deterministic stand-in for the signature context: the
// public key equals the secret key and a signature is the digest of
// key||message padded to the fixed length.
type fakeSigner struct {
	failKeyPair bool
	failSign    bool
	failVerify  bool

	inFlight    atomic.Int32
	overlapSeen atomic.Bool
	keyCounter  atomic.Uint32
}

const fakeSigLen = 64

func (f *fakeSigner) PublicKeyLength() int { return 32 }
func (f *fakeSigner) SecretKeyLength() int { return 32 }
func (f *fakeSigner) SignatureLength() int { return fakeSigLen }

func (f *fakeSigner) KeyPair() ([]byte, []byte, error) {
	if f.failKeyPair {
		return nil, nil, errors.New("keypair rejected")
	}
	n := f.keyCounter.Add(1)
	seed := sha256.Sum256([]byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)})
	pub := append([]byte(nil), seed[:]...)
	priv := append([]byte(nil), seed[:]...)
	return pub, priv, nil
}

func (f *fakeSigner) Sign(message, secretKey []byte) ([]byte, error) {
	if f.inFlight.Add(1) > 1 {
		f.overlapSeen.Store(true)
	}
	defer f.inFlight.Add(-1)
	time.Sleep(time.Millisecond)

	if f.failSign {
		return nil, errors.New("sign rejected")
	}
	return fakeSignature(secretKey, message), nil
}

func (f *fakeSigner) Verify(message, signature, publicKey []byte) (bool, error) {
	if f.failVerify {
		return false, errors.New("key material unreadable")
	}
	return bytes.Equal(signature, fakeSignature(publicKey, message)), nil
}

func fakeSignature(key, message []byte) []byte {
	first := sha256.Sum256(append(append([]byte(nil), key...), message...))
	second := sha256.Sum256(first[:])
	return append(first[:], second[:]...)
}

// fakeKEM derives the shared secret from digest(public||ciphertext seed),
// with the secret key again equal to the public key.
type fakeKEM struct {
	failKeyPair bool
	failEncap   bool
	failDecap   bool

	ctCounter atomic.Uint32
}

func (f *fakeKEM) PublicKeyLength() int    { return 32 }
func (f *fakeKEM) SecretKeyLength() int    { return 32 }
func (f *fakeKEM) CiphertextLength() int   { return 32 }
func (f *fakeKEM) SharedSecretLength() int { return 32 }

func (f *fakeKEM) KeyPair() ([]byte, []byte, error) {
	if f.failKeyPair {
		return nil, nil, errors.New("keypair rejected")
	}
	seed := sha256.Sum256([]byte("kem-key"))
	return append([]byte(nil), seed[:]...), append([]byte(nil), seed[:]...), nil
}

func (f *fakeKEM) Encapsulate(publicKey []byte) ([]byte, []byte, error) {
	if f.failEncap {
		return nil, nil, errors.New("encapsulate rejected")
	}
	n := f.ctCounter.Add(1)
	ct := sha256.Sum256([]byte{0xC7, byte(n), byte(n >> 8)})
	ss := sha256.Sum256(append(append([]byte(nil), publicKey...), ct[:]...))
	return ct[:], ss[:], nil
}

func (f *fakeKEM) Decapsulate(ciphertext, secretKey []byte) ([]byte, error) {
	if f.failDecap {
		return nil, errors.New("decapsulate rejected")
	}
	ss := sha256.Sum256(append(append([]byte(nil), secretKey...), ciphertext...))
	return ss[:], nil
}
