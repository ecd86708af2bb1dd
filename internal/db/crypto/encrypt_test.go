package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestNewEncryptor_BadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"not hex", "zz", "decode encryption key"},
		{"too short", "0011", "must be 32 bytes"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEncryptor(tc.key)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSealOpen(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	require.NoError(t, err)

	sealed, err := enc.Seal("4111111111111111", "card-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
	assert.NotContains(t, sealed, "4111111111111111")

	got, err := enc.Open(sealed, "card-1")
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", got)

	again, err := enc.Seal("4111111111111111", "card-1")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")
}

func TestOpen_BoundToRecord(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	require.NoError(t, err)

	sealed, err := enc.Seal("123", "card-1")
	require.NoError(t, err)

	_, err = enc.Open(sealed, "card-2")
	assert.ErrorIs(t, err, ErrTampered)
}

func TestOpen_Malformed(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	require.NoError(t, err)

	_, err = enc.Open("plain", "x")
	require.Error(t, err)
	_, err = enc.Open("v1:AAAA", "x")
	require.Error(t, err)
}

func TestGenerateKey(t *testing.T) {
	k, err := GenerateKey()
	require.NoError(t, err)
	assert.Len(t, k, 64)

	_, err = NewEncryptor(k)
	require.NoError(t, err)
}
