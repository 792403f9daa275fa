package secure

import (
	"encoding/hex"
	"strings"

	"github.com/systmms/pqops/pkg/primitives"
)

// Buffer is the generic secret-byte container. It adds Base64 transcoding
// on top of Memory.
type Buffer struct {
	*Memory
}

// NewBuffer copies data into a freshly owned Buffer.
func NewBuffer(prim primitives.Provider, data []byte) (Buffer, error) {
	m, err := FromBytes(prim, data)
	if err != nil {
		return Buffer{}, err
	}
	return Buffer{m}, nil
}

// AcquireBuffer allocates a zero-filled Buffer of n bytes.
func AcquireBuffer(prim primitives.Provider, n int) (Buffer, error) {
	m, err := Acquire(prim, n)
	if err != nil {
		return Buffer{}, err
	}
	return Buffer{m}, nil
}

// BufferFromBase64 decodes s into a freshly owned Buffer. The intermediate
// plaintext is wiped before returning. Malformed input fails with
// ErrEncoding and never yields a partially filled buffer.
func BufferFromBase64(prim primitives.Provider, s string) (Buffer, error) {
	raw, err := prim.Base64Decode(s)
	if err != nil {
		return Buffer{}, err
	}
	defer prim.SecureZero(raw)
	return NewBuffer(prim, raw)
}

// ToBase64 returns the standard-alphabet encoding of the owned bytes.
// A released buffer encodes as the empty string.
func (b Buffer) ToBase64() string {
	prim := b.provider()
	if prim == nil {
		return ""
	}
	return prim.Base64Encode(b.Bytes())
}

// PrivateKey owns secret-key bytes. Beyond secure disposal it adds nothing;
// the type exists so a private key cannot be passed where public material
// is expected.
type PrivateKey struct {
	*Memory
}

// NewPrivateKey copies data into a freshly owned PrivateKey.
func NewPrivateKey(prim primitives.Provider, data []byte) (PrivateKey, error) {
	m, err := FromBytes(prim, data)
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{m}, nil
}

// ExportBase64 encodes the secret-key bytes for storage. Exporting
// leaves the hardened region, so callers must write the result to
// owner-only storage and treat the string itself as secret.
func (p PrivateKey) ExportBase64() string {
	prim := p.provider()
	if prim == nil {
		return ""
	}
	return prim.Base64Encode(p.Bytes())
}

// PublicKey owns public-key bytes and can derive a fingerprint.
type PublicKey struct {
	*Memory
}

// NewPublicKey copies data into a freshly owned PublicKey.
func NewPublicKey(prim primitives.Provider, data []byte) (PublicKey, error) {
	m, err := FromBytes(prim, data)
	if err != nil {
		return PublicKey{}, err
	}
	return PublicKey{m}, nil
}

// Fingerprint returns the uppercase SHA-256 hex digest of the key bytes.
// Identical key bytes always yield the identical string. It is a
// diagnostic identity aid, not a security boundary.
func (p PublicKey) Fingerprint() string {
	prim := p.provider()
	if prim == nil {
		return ""
	}
	sum := prim.SHA256(p.Bytes())
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// ToBase64 returns the standard-alphabet encoding of the key bytes.
func (p PublicKey) ToBase64() string {
	prim := p.provider()
	if prim == nil {
		return ""
	}
	return prim.Base64Encode(p.Bytes())
}

// Signature owns signature bytes.
type Signature struct {
	*Memory
}

// NewSignature copies data into a freshly owned Signature.
func NewSignature(prim primitives.Provider, data []byte) (Signature, error) {
	m, err := FromBytes(prim, data)
	if err != nil {
		return Signature{}, err
	}
	return Signature{m}, nil
}

// Valid reports structural validity: the signature is non-empty. It says
// nothing about cryptographic validity.
func (s Signature) Valid() bool {
	return s.Size() > 0
}

// SharedSecret owns KEM shared-secret bytes; secure disposal only.
type SharedSecret struct {
	*Memory
}

// NewSharedSecret copies data into a freshly owned SharedSecret.
func NewSharedSecret(prim primitives.Provider, data []byte) (SharedSecret, error) {
	m, err := FromBytes(prim, data)
	if err != nil {
		return SharedSecret{}, err
	}
	return SharedSecret{m}, nil
}

// ExportBase64 encodes the shared secret for handoff. The string is as
// sensitive as the secret itself.
func (s SharedSecret) ExportBase64() string {
	prim := s.provider()
	if prim == nil {
		return ""
	}
	return prim.Base64Encode(s.Bytes())
}

// KeyPair owns a freshly generated public/private pair.
type KeyPair struct {
	Public  PublicKey
	Private PrivateKey
}

// Release disposes of both halves.
func (k KeyPair) Release() {
	k.Public.Release()
	k.Private.Release()
}

// KEMResult owns the ciphertext and shared secret produced by an
// encapsulation.
type KEMResult struct {
	Ciphertext   Buffer
	SharedSecret SharedSecret
}

// Release disposes of both members.
func (r KEMResult) Release() {
	r.Ciphertext.Release()
	r.SharedSecret.Release()
}
