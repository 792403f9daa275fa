package providers

import (
	"fmt"

	"github.com/cloudflare/circl/kem"
	kemschemes "github.com/cloudflare/circl/kem/schemes"
)

// KEMSchemeName is the circl registry name of the key-encapsulation scheme.
const KEMSchemeName = "Kyber1024"

// KyberKEM implements algorithm.Encapsulator on the circl Kyber1024 scheme.
type KyberKEM struct {
	scheme kem.Scheme
}

// NewKyberKEM resolves the scheme from the circl registry.
func NewKyberKEM() (*KyberKEM, error) {
	scheme := kemschemes.ByName(KEMSchemeName)
	if scheme == nil {
		return nil, fmt.Errorf("KEM scheme %q not registered", KEMSchemeName)
	}
	return &KyberKEM{scheme: scheme}, nil
}

func (k *KyberKEM) PublicKeyLength() int    { return k.scheme.PublicKeySize() }
func (k *KyberKEM) SecretKeyLength() int    { return k.scheme.PrivateKeySize() }
func (k *KyberKEM) CiphertextLength() int   { return k.scheme.CiphertextSize() }
func (k *KyberKEM) SharedSecretLength() int { return k.scheme.SharedKeySize() }

// KeyPair generates a fresh Kyber1024 key pair as raw bytes.
func (k *KyberKEM) KeyPair() ([]byte, []byte, error) {
	pub, priv, err := k.scheme.GenerateKeyPair()
	if err != nil {
		return nil, nil, fmt.Errorf("kyber keypair: %w", err)
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("kyber public key encode: %w", err)
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("kyber secret key encode: %w", err)
	}
	return pubBytes, privBytes, nil
}

// Encapsulate derives a shared secret for publicKey.
func (k *KyberKEM) Encapsulate(publicKey []byte) ([]byte, []byte, error) {
	pk, err := k.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("kyber public key decode: %w", err)
	}
	ct, ss, err := k.scheme.Encapsulate(pk)
	if err != nil {
		return nil, nil, fmt.Errorf("kyber encapsulate: %w", err)
	}
	return ct, ss, nil
}

// Decapsulate recovers the shared secret from ciphertext.
func (k *KyberKEM) Decapsulate(ciphertext, secretKey []byte) ([]byte, error) {
	sk, err := k.scheme.UnmarshalBinaryPrivateKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("kyber secret key decode: %w", err)
	}
	ss, err := k.scheme.Decapsulate(sk, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("kyber decapsulate: %w", err)
	}
	return ss, nil
}
