package password

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/pbkdf2"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("secret-password")
	require.NoError(t, err)
	require.NotEqual(t, "secret-password", hash)
	assert.False(t, IsLegacy(hash))

	assert.NoError(t, CompareHash(hash, "secret-password"))
	assert.Error(t, CompareHash(hash, "wrong-password"))
}

func TestGetHash_UniqueSalts(t *testing.T) {
	h1, err := GetHash("same")
	require.NoError(t, err)
	h2, err := GetHash("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func legacyHash(password, salt string) string {
	digest := pbkdf2.Key([]byte(password), []byte(salt), legacyIterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2$%s$%s", salt, hex.EncodeToString(digest))
}

func TestCompareHash_LegacyScheme(t *testing.T) {
	hash := legacyHash("old-password", "0123456789abcdef")
	assert.True(t, IsLegacy(hash))

	assert.NoError(t, CompareHash(hash, "old-password"))
	assert.Error(t, CompareHash(hash, "not-the-password"))
}

func TestCompareHash_MalformedLegacy(t *testing.T) {
	assert.Error(t, CompareHash("pbkdf2$broken", "anything"))
}
