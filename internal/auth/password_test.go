package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/config"
)

// fastConfig keeps argon2 cheap in tests
func fastConfig() *auth.PasswordConfig {
	return &auth.PasswordConfig{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := fastConfig()

	hash, salt, err := auth.HashPassword("Aa1!aaaa", cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEmpty(t, salt)

	ok, err := auth.VerifyPassword("Aa1!aaaa", hash, salt, cfg)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword("Aa1!aaab", hash, salt, cfg)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	cfg := fastConfig()

	hash1, salt1, err := auth.HashPassword("Aa1!aaaa", cfg)
	require.NoError(t, err)
	hash2, salt2, err := auth.HashPassword("Aa1!aaaa", cfg)
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestVerifyPassword_InvalidEncoding(t *testing.T) {
	cfg := fastConfig()

	_, err := auth.VerifyPassword("x", "%%%", "c2FsdA==", cfg)
	assert.Error(t, err)

	_, err = auth.VerifyPassword("x", "aGFzaA==", "%%%", cfg)
	assert.Error(t, err)
}

func TestArgon2Hasher(t *testing.T) {
	hasher := auth.NewArgon2Hasher(auth.ConfigFromSettings(config.HashSettings{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  8,
		KeyLength:   16,
	}))

	hash, salt, err := hasher.Hash("Secret1!")
	require.NoError(t, err)

	ok, err := hasher.Verify("Secret1!", hash, salt)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDefaultPasswordConfig(t *testing.T) {
	cfg := auth.DefaultPasswordConfig()

	assert.Equal(t, uint32(64*1024), cfg.Memory)
	assert.Equal(t, uint32(32), cfg.KeyLength)
	assert.NotNil(t, auth.NewArgon2Hasher(nil))
}
