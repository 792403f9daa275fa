package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/pqops/internal/providers"
)

func TestDilithiumSignerLengths(t *testing.T) {
	t.Parallel()

	signer, err := providers.NewDilithiumSigner()
	require.NoError(t, err)

	assert.Positive(t, signer.PublicKeyLength())
	assert.Positive(t, signer.SecretKeyLength())
	assert.Positive(t, signer.SignatureLength())
}

func TestDilithiumSignRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := providers.NewDilithiumSigner()
	require.NoError(t, err)

	pub, priv, err := signer.KeyPair()
	require.NoError(t, err)
	assert.Len(t, pub, signer.PublicKeyLength())
	assert.Len(t, priv, signer.SecretKeyLength())

	message := []byte("attestation payload")
	sig, err := signer.Sign(message, priv)
	require.NoError(t, err)
	assert.Len(t, sig, signer.SignatureLength())

	ok, err := signer.Verify(message, sig, pub)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDilithiumVerifyRejectsMutation(t *testing.T) {
	t.Parallel()

	signer, err := providers.NewDilithiumSigner()
	require.NoError(t, err)

	pub, priv, err := signer.KeyPair()
	require.NoError(t, err)

	message := []byte("attestation payload")
	sig, err := signer.Sign(message, priv)
	require.NoError(t, err)

	t.Run("mutated message", func(t *testing.T) {
		mutated := append([]byte(nil), message...)
		mutated[0] ^= 0x01
		ok, err := signer.Verify(mutated, sig, pub)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("mutated signature", func(t *testing.T) {
		mutated := append([]byte(nil), sig...)
		mutated[0] ^= 0x01
		ok, err := signer.Verify(message, mutated, pub)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("mismatched public key", func(t *testing.T) {
		otherPub, _, err := signer.KeyPair()
		require.NoError(t, err)
		ok, err := signer.Verify(message, sig, otherPub)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unparseable public key", func(t *testing.T) {
		_, err := signer.Verify(message, sig, []byte{0x01, 0x02})
		require.Error(t, err)
	})
}

func TestKyberKEMLengths(t *testing.T) {
	t.Parallel()

	kem, err := providers.NewKyberKEM()
	require.NoError(t, err)

	assert.Positive(t, kem.PublicKeyLength())
	assert.Positive(t, kem.SecretKeyLength())
	assert.Positive(t, kem.CiphertextLength())
	assert.Positive(t, kem.SharedSecretLength())
}

func TestKyberEncapDecapRoundTrip(t *testing.T) {
	t.Parallel()

	kem, err := providers.NewKyberKEM()
	require.NoError(t, err)

	pub, priv, err := kem.KeyPair()
	require.NoError(t, err)
	assert.Len(t, pub, kem.PublicKeyLength())
	assert.Len(t, priv, kem.SecretKeyLength())

	ct, ss, err := kem.Encapsulate(pub)
	require.NoError(t, err)
	assert.Len(t, ct, kem.CiphertextLength())
	assert.Len(t, ss, kem.SharedSecretLength())

	recovered, err := kem.Decapsulate(ct, priv)
	require.NoError(t, err)
	assert.Equal(t, ss, recovered)
}

func TestKyberDecapsulateRejectsBadInput(t *testing.T) {
	t.Parallel()

	kem, err := providers.NewKyberKEM()
	require.NoError(t, err)

	_, priv, err := kem.KeyPair()
	require.NoError(t, err)

	_, err = kem.Decapsulate([]byte{0x01}, priv)
	require.Error(t, err)

	_, err = kem.Decapsulate(make([]byte, kem.CiphertextLength()), []byte{0x01})
	require.Error(t, err)
}
