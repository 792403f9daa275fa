package providers

import (
	"fmt"

	"github.com/cloudflare/circl/sign"
	signschemes "github.com/cloudflare/circl/sign/schemes"
)

// SignatureSchemeName is the circl registry name of the signature scheme.
const SignatureSchemeName = "Dilithium5"

// DilithiumSigner implements algorithm.Signer on the circl Dilithium5
// scheme. Keys cross the boundary as raw bytes; the scheme objects never
// leave this package.
type DilithiumSigner struct {
	scheme sign.Scheme
}

// NewDilithiumSigner resolves the scheme from the circl registry.
func NewDilithiumSigner() (*DilithiumSigner, error) {
	scheme := signschemes.ByName(SignatureSchemeName)
	if scheme == nil {
		return nil, fmt.Errorf("signature scheme %q not registered", SignatureSchemeName)
	}
	return &DilithiumSigner{scheme: scheme}, nil
}

func (d *DilithiumSigner) PublicKeyLength() int { return d.scheme.PublicKeySize() }
func (d *DilithiumSigner) SecretKeyLength() int { return d.scheme.PrivateKeySize() }
func (d *DilithiumSigner) SignatureLength() int { return d.scheme.SignatureSize() }

// KeyPair generates a fresh Dilithium5 key pair as raw bytes.
func (d *DilithiumSigner) KeyPair() ([]byte, []byte, error) {
	pub, priv, err := d.scheme.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("dilithium keypair: %w", err)
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("dilithium public key encode: %w", err)
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("dilithium secret key encode: %w", err)
	}
	return pubBytes, privBytes, nil
}

// Sign produces a signature sized to its actual length.
func (d *DilithiumSigner) Sign(message, secretKey []byte) ([]byte, error) {
	sk, err := d.scheme.UnmarshalBinaryPrivateKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("dilithium secret key decode: %w", err)
	}
	sig := d.scheme.Sign(sk, message, nil)
	if len(sig) == 0 {
		return nil, fmt.Errorf("dilithium sign: provider returned empty signature")
	}
	return sig, nil
}

// Verify evaluates signature over message. An unparseable key is an
// evaluation failure, not an invalid signature.
func (d *DilithiumSigner) Verify(message, signature, publicKey []byte) (bool, error) {
	pk, err := d.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return false, fmt.Errorf("dilithium public key decode: %w", err)
	}
	return d.scheme.Verify(pk, message, signature, nil), nil
}
