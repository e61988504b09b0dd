package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFromPassword(t *testing.T) {
	a := NewArgon()

	encoded, err := a.GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	again, err := a.GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, again, "same password should hash differently with fresh salts")
}

func TestVerifyPasswd(t *testing.T) {
	a := NewArgon()

	encoded, err := a.GenerateFromPassword("hunter22")
	require.NoError(t, err)

	ok, err := a.VerifyPasswd("hunter22", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("hunter23", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswdBadHash(t *testing.T) {
	a := NewArgon()

	for _, encoded := range []string{
		"not-a-phc-string",
		// Wrong variant
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		// Wrong argon2 version
		"$argon2id$v=16$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		// Salt that isn't base64
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
	} {
		_, err := a.VerifyPasswd("whatever", encoded)
		assert.ErrorIs(t, err, errMalformedHash, encoded)
	}
}

func TestVerifyPasswdHonorsEmbeddedParams(t *testing.T) {
	weak := &ArgonHash{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	encoded, err := weak.GenerateFromPassword("hunter22")
	require.NoError(t, err)

	// A verifier with different defaults must still match, the hash
	// carries its own parameters
	ok, err := NewArgon().VerifyPasswd("hunter22", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}
