// Package primitives defines the capability interface for generic
// cryptographic building blocks used by the secure-memory layer and the
// operation engine.
//
// The provider behind this interface is treated as an opaque, audited black
// box. Nothing in pqops implements randomness extraction, hashing, or
// constant-time comparison itself; every such operation is reached through
// a Provider so that the implementation can be swapped (platform CSPRNG,
// HSM-backed source, deterministic test double) without touching the
// callers.
//
// # Implementing a Provider
//
// Implementations must be thread-safe: the engine, the entropy gate, and
// every secure buffer may call these methods concurrently.
//
// Implementations must also honor the refusal contract of RandomBytes:
// when the underlying source is unhealthy, fail the request rather than
// return bytes of unknown quality.
package primitives

// Provider supplies generic cryptographic primitives.
type Provider interface {
	// RandomBytes returns n bytes from a cryptographically secure
	// random source. It fails rather than degrade: callers never
	// receive low-quality bytes alongside a nil error.
	RandomBytes(n int) ([]byte, error)

	// RandomSourceHealthy reports whether the underlying randomness
	// source considers itself seeded and operational.
	RandomSourceHealthy() bool

	// ConstantTimeEqual compares a and b without leaking the position
	// of the first mismatching byte through timing. Inputs of unequal
	// length compare unequal.
	ConstantTimeEqual(a, b []byte) bool

	// SecureZero overwrites region with zeros in a way the compiler
	// cannot elide.
	SecureZero(region []byte)

	// SHA256 returns the 32-byte digest of data.
	SHA256(data []byte) [32]byte

	// Base64Encode returns the standard-alphabet encoding of data.
	Base64Encode(data []byte) string

	// Base64Decode is the exact inverse of Base64Encode. Malformed
	// input fails; it never yields a partially decoded result.
	Base64Decode(s string) ([]byte, error)
}
