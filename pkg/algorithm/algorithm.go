// Package algorithm defines the capability interfaces for the post-quantum
// algorithm provider.
//
// pqops does not implement any lattice mathematics. The signature and
// key-encapsulation schemes live behind the two context interfaces below
// and are reached exclusively through raw byte slices, so a provider can be
// backed by a pure-Go implementation, liboqs, or a hardware module without
// the engine noticing.
//
// # Contexts
//
// A context is a long-lived handle on one fixed scheme. Its length
// accessors are constants for the lifetime of the context; the engine
// sizes every secure buffer from them and rejects material that does not
// match.
//
// Contexts are not required to be safe for concurrent use. The engine
// serializes all access behind its own lock.
package algorithm

// Signer is a signature-scheme context.
type Signer interface {
	// PublicKeyLength returns the fixed public key size in bytes.
	PublicKeyLength() int

	// SecretKeyLength returns the fixed secret key size in bytes.
	SecretKeyLength() int

	// SignatureLength returns the fixed upper bound on signature size.
	SignatureLength() int

	// KeyPair generates a fresh key pair as raw bytes.
	KeyPair() (publicKey, secretKey []byte, err error)

	// Sign produces a signature over message with secretKey. The
	// returned slice is sized to the actual signature length, which may
	// be shorter than SignatureLength.
	Sign(message, secretKey []byte) ([]byte, error)

	// Verify checks signature over message against publicKey. A false
	// result with nil error means the signature is invalid; a non-nil
	// error means verification could not be evaluated at all (for
	// example an unparseable key).
	Verify(message, signature, publicKey []byte) (bool, error)
}

// Encapsulator is a key-encapsulation-mechanism context.
type Encapsulator interface {
	// PublicKeyLength returns the fixed public key size in bytes.
	PublicKeyLength() int

	// SecretKeyLength returns the fixed secret key size in bytes.
	SecretKeyLength() int

	// CiphertextLength returns the fixed ciphertext size in bytes.
	CiphertextLength() int

	// SharedSecretLength returns the fixed shared secret size in bytes.
	SharedSecretLength() int

	// KeyPair generates a fresh key pair as raw bytes.
	KeyPair() (publicKey, secretKey []byte, err error)

	// Encapsulate derives a fresh shared secret for publicKey and
	// returns it with the ciphertext that transports it.
	Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error)

	// Decapsulate recovers the shared secret from ciphertext using
	// secretKey.
	Decapsulate(ciphertext, secretKey []byte) ([]byte, error)
}
