package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("s3nha-forte", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$bcrypt-sha256$"))

	assert.True(t, VerifyPassword("s3nha-forte", digest))
	assert.False(t, VerifyPassword("s3nha-errada", digest))
	assert.False(t, VerifyPassword("", digest))
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	assert.False(t, VerifyPassword("qualquer", ""))
	assert.False(t, VerifyPassword("qualquer", "plaintext"))
	assert.False(t, VerifyPassword("qualquer", "$bcrypt-sha256$garbage"))
}

func TestVerifyPasswordLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("senha-antiga"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(legacy), "$2"))

	assert.True(t, VerifyPassword("senha-antiga", string(legacy)))
	assert.False(t, VerifyPassword("outra", string(legacy)))
}

func TestLongPasswordsAreNotTruncated(t *testing.T) {
	// plain bcrypt ignores bytes past 72; the sha256 pre-digest must not
	long := strings.Repeat("a", 100)
	longer := long + "b"

	digest, err := HashPassword(long, bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(long, digest))
	assert.False(t, VerifyPassword(longer, digest))
}
