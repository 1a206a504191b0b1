package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", "1h")

	token, err := m.Generate("alice@example.com", "participant")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := m.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "participant", claims.Role)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := NewManager("test-secret", "1h")
	other := NewManager("another-secret", "1h")

	token, err := other.Generate("mallory@example.com", "organizer")
	assert.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", "1h")
	m.ttl = -time.Minute

	token, err := m.Generate("bob@example.com", "participant")
	assert.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", "1h")

	_, err := m.Parse("not-a-token")
	assert.Error(t, err)
}

func TestExpirationFallback(t *testing.T) {
	m := NewManager("test-secret", "bogus")
	assert.Equal(t, time.Hour, m.ttl)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret-password")
	assert.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret-password", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}
