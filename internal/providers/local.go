// Package providers contains the concrete algorithm and primitives
// providers wired into pqops: circl-backed Dilithium5 and Kyber1024
// contexts, and a local primitives provider built on the platform CSPRNG.
package providers

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/awnumar/memguard"

	pqerrors "github.com/systmms/pqops/internal/errors"
)

// LocalPrimitives implements primitives.Provider with the platform CSPRNG,
// constant-time comparison from crypto/subtle, and memguard wiping.
type LocalPrimitives struct{}

// NewLocalPrimitives returns the default primitives provider.
func NewLocalPrimitives() *LocalPrimitives {
	return &LocalPrimitives{}
}

// RandomBytes returns n bytes from crypto/rand.
func (LocalPrimitives) RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", pqerrors.ErrEntropy, n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", pqerrors.ErrEntropy, err)
	}
	return buf, nil
}

// RandomSourceHealthy probes the CSPRNG with a one-byte read.
func (LocalPrimitives) RandomSourceHealthy() bool {
	var probe [1]byte
	_, err := rand.Read(probe[:])
	return err == nil
}

// ConstantTimeEqual compares a and b without leaking the mismatch position.
func (LocalPrimitives) ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// SecureZero overwrites region so the write cannot be optimized away.
func (LocalPrimitives) SecureZero(region []byte) {
	memguard.WipeBytes(region)
}

// SHA256 returns the digest of data.
func (LocalPrimitives) SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Base64Encode returns the standard-alphabet encoding of data.
func (LocalPrimitives) Base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64Decode decodes s, failing on malformed input.
func (LocalPrimitives) Base64Decode(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pqerrors.ErrEncoding, err)
	}
	return raw, nil
}
