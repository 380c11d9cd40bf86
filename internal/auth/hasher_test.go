package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	digest, err := h.Hash("secretWord")
	require.NoError(t, err)

	assert.NotEqual(t, "secretWord", digest)
	assert.True(t, h.Verify("secretWord", digest))
	assert.False(t, h.Verify("UNsecretWord", digest))
}

func TestHasher_SaltedPerCall(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	a, err := h.Hash("pw1")
	require.NoError(t, err)
	b, err := h.Hash("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("pw1", a))
	assert.True(t, h.Verify("pw1", b))
}

func TestHasher_VerifyMalformedDigest(t *testing.T) {
	t.Parallel()

	h := Hasher{}
	assert.False(t, h.Verify("pw", ""))
	assert.False(t, h.Verify("pw", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("pw", "$2a$10$short"))
}

func TestHasher_TooLong(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("x", MaxPasswordBytes+1))
	assert.Error(t, err)
}

func TestNewHasher_CostOutOfRange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).Cost)
	assert.Equal(t, 12, NewHasher(12).Cost)
}
