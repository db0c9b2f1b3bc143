package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIKeyHashing(t *testing.T) {
	hash, err := HashAPIKey("operator-key")
	assert.NoError(t, err)
	assert.NotEqual(t, "operator-key", hash)

	assert.True(t, CheckAPIKeyHash("operator-key", hash))
	assert.False(t, CheckAPIKeyHash("wrong-key", hash))
	assert.False(t, CheckAPIKeyHash("operator-key", "not-a-bcrypt-hash"))
}

func TestSessionJWTRoundTrip(t *testing.T) {
	secret := "unit-test-secret"

	token, err := GenerateSessionJWT("practitioner-42", secret, 1)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	actorID, err := ParseSessionJWT(token, secret)
	assert.NoError(t, err)
	assert.Equal(t, "practitioner-42", actorID)

	t.Run("wrong secret fails", func(t *testing.T) {
		_, err := ParseSessionJWT(token, "other-secret")
		assert.Error(t, err)
	})

	t.Run("garbage token fails", func(t *testing.T) {
		_, err := ParseSessionJWT("not.a.jwt", secret)
		assert.Error(t, err)
	})
}

func TestGenerateOpaqueToken(t *testing.T) {
	first, err := GenerateOpaqueToken()
	assert.NoError(t, err)
	second, err := GenerateOpaqueToken()
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.GreaterOrEqual(t, len(first), 43)
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
	assert.NotContains(t, first, "=")
}
