package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastParams = Params{Time: 1, Memory: 64, Threads: 1}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, SaltSize)

	k1, err := DeriveKey("correcthorse", salt, fastParams)
	require.NoError(t, err)
	k2, err := DeriveKey("correcthorse", salt, fastParams)
	require.NoError(t, err)

	assert.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)
}

func TestDeriveKey_DependsOnPasswordAndSalt(t *testing.T) {
	salt := bytes.Repeat([]byte{1}, SaltSize)
	other := bytes.Repeat([]byte{2}, SaltSize)

	base, err := DeriveKey("correcthorse", salt, fastParams)
	require.NoError(t, err)
	wrongPass, err := DeriveKey("wrongpass", salt, fastParams)
	require.NoError(t, err)
	wrongSalt, err := DeriveKey("correcthorse", other, fastParams)
	require.NoError(t, err)

	assert.NotEqual(t, base, wrongPass)
	assert.NotEqual(t, base, wrongSalt)
}

func TestDeriveKey_DefaultParams(t *testing.T) {
	salt := make([]byte, SaltSize)
	key, err := DeriveKey("correcthorse", salt, DefaultParams)
	require.NoError(t, err)
	assert.Len(t, key, KeySize)
}

func TestDeriveKey_InvalidParams(t *testing.T) {
	_, err := DeriveKey("pw", make([]byte, 8), fastParams)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = DeriveKey("pw", make([]byte, SaltSize), Params{Time: 0, Memory: 64, Threads: 1})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = DeriveKey("pw", make([]byte, SaltSize), Params{Time: 1, Memory: 64, Threads: 0})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestGenerateSalt(t *testing.T) {
	s1, err := GenerateSalt()
	require.NoError(t, err)
	s2, err := GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, s1, SaltSize)
	assert.NotEqual(t, s1, s2)
}

func TestWipe(t *testing.T) {
	key := bytes.Repeat([]byte{0xAA}, KeySize)
	Wipe(key)
	assert.Equal(t, make([]byte, KeySize), key)
}
