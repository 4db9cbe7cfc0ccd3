package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	ciphertext, err := Encrypt("ya29.a0AfH6-token", "secret-key")
	require.NoError(t, err)
	require.NotEqual(t, "ya29.a0AfH6-token", ciphertext)

	plaintext, err := Decrypt(ciphertext, "secret-key")
	require.NoError(t, err)
	assert.Equal(t, "ya29.a0AfH6-token", plaintext)
}

func TestEncryptIsNotDeterministic(t *testing.T) {
	first, err := Encrypt("same input", "key")
	require.NoError(t, err)
	second, err := Encrypt("same input", "key")
	require.NoError(t, err)

	// fresh nonce per call
	assert.NotEqual(t, first, second)
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	ciphertext, err := Encrypt("token", "right-key")
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, "wrong-key")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	_, err := Decrypt("not base64 !!!", "key")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = Decrypt("c2hvcnQ=", "key") // valid base64, too short for a nonce
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}
