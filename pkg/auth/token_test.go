package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	const secret = "test-secret"

	t.Run("Should round trip an issued token", func(t *testing.T) {
		tok, err := IssueToken(secret, Identity{UserID: 7, Role: "recruiter"}, time.Hour)
		require.NoError(t, err)

		id, err := ParseToken(secret, tok)
		require.NoError(t, err)
		assert.Equal(t, int64(7), id.UserID)
		assert.Equal(t, "RECRUITER", id.Role)
	})

	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		tok, err := IssueToken("other", Identity{UserID: 7}, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken(secret, tok)
		assert.Error(t, err)
	})

	t.Run("Should reject an expired token", func(t *testing.T) {
		tok, err := IssueToken(secret, Identity{UserID: 7}, -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken(secret, tok)
		assert.Error(t, err)
	})

	t.Run("Should reject a non numeric subject", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "abc"}).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = ParseToken(secret, tok)
		assert.Error(t, err)
	})

	t.Run("Should fail without a secret", func(t *testing.T) {
		_, err := ParseToken("", "x")
		assert.ErrorIs(t, err, ErrNoSecret)
	})
}
