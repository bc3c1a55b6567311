package auth

import (
	"testing"

	"roster/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("Password123!")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Password123!", hash)

	assert.True(t, hasher.Check("Password123!", hash))
	assert.False(t, hasher.Check("password123!", hash))
	assert.False(t, hasher.Check("", hash))
}

func TestBcryptHasher_HashesDiffer(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	first, err := hasher.Hash("Password123!")
	require.NoError(t, err)
	second, err := hasher.Hash("Password123!")
	require.NoError(t, err)

	// bcrypt salts every hash, so equal passwords never share a hash.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("Password123!", first))
	assert.True(t, hasher.Check("Password123!", second))
}

func TestBcryptHasher_CheckMalformedHash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	assert.False(t, hasher.Check("Password123!", "not-a-bcrypt-hash"))
}

func TestNewBcryptHasher_CostFromConfig(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
	})

	hash, err := hasher.Hash("Password123!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(nil)

	// Hashing with the default cost is slow, so only verify construction and
	// a single round trip.
	hash, err := hasher.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
