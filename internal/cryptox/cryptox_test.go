package cryptox_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JanVogt06/dfb-spesen-generator/internal/cryptox"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptCredential_Roundtrip(t *testing.T) {
	encrypted, err := cryptox.EncryptCredential("dfb-user", testKey)
	assert.NoError(t, err)
	assert.NotEqual(t, "dfb-user", encrypted)

	plaintext, err := cryptox.DecryptCredential(encrypted, testKey)
	assert.NoError(t, err)
	assert.Equal(t, "dfb-user", plaintext)
}

func TestEncryptCredential_EmptyPlaintext(t *testing.T) {
	encrypted, err := cryptox.EncryptCredential("", testKey)
	assert.NoError(t, err)
	assert.Equal(t, "", encrypted)

	plaintext, err := cryptox.DecryptCredential("", testKey)
	assert.NoError(t, err)
	assert.Equal(t, "", plaintext)
}

func TestEncryptCredential_FreshNonce(t *testing.T) {
	first, err := cryptox.EncryptCredential("dfb-user", testKey)
	assert.NoError(t, err)
	second, err := cryptox.EncryptCredential("dfb-user", testKey)
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptCredential_WrongKey(t *testing.T) {
	encrypted, err := cryptox.EncryptCredential("dfb-user", testKey)
	assert.NoError(t, err)

	otherKey := []byte("fedcba9876543210fedcba9876543210")
	_, err = cryptox.DecryptCredential(encrypted, otherKey)
	assert.Error(t, err)
}

func TestDecryptCredential_TooShort(t *testing.T) {
	short := base64.StdEncoding.EncodeToString([]byte("tiny"))
	_, err := cryptox.DecryptCredential(short, testKey)
	assert.ErrorIs(t, err, cryptox.ErrCiphertextTooShort)
}

func TestDecryptCredential_InvalidBase64(t *testing.T) {
	_, err := cryptox.DecryptCredential("%%% not base64 %%%", testKey)
	assert.Error(t, err)
}
