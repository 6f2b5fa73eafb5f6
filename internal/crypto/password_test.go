package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/macaria/backend/internal/crypto"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := crypto.BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("P@ssw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "P@ssw0rd", hash)

	assert.NoError(t, h.Compare(hash, "P@ssw0rd"))
	assert.Error(t, h.Compare(hash, "wrong"))
}

func TestBcryptHasher_SaltedPerCall(t *testing.T) {
	h := crypto.BcryptHasher{Cost: bcrypt.MinCost}

	first, err := h.Hash("P@ssw0rd")
	require.NoError(t, err)
	second, err := h.Hash("P@ssw0rd")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_CompareGarbage(t *testing.T) {
	h := crypto.BcryptHasher{Cost: bcrypt.MinCost}
	assert.Error(t, h.Compare("not a bcrypt hash", "P@ssw0rd"))
}
