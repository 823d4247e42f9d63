package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func TestGenerateAndVerify(t *testing.T) {
	token, err := GenerateToken(testSecret, "user1", []string{RoleUser}, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	identity, err := Verify(testSecret, token)
	assert.NoError(t, err)
	assert.Equal(t, "user1", identity.UserID)
	assert.True(t, identity.HasRole(RoleUser))
	assert.False(t, identity.HasRole("admin"))
}

func TestVerify_EmptyToken(t *testing.T) {
	_, err := Verify(testSecret, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "пустой токен")
}

func TestVerify_WrongKey(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("wrong-key"))
	assert.NoError(t, err)

	_, err = Verify(testSecret, signed)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	token, err := GenerateToken(testSecret, "user1", nil, -time.Minute)
	assert.NoError(t, err)

	_, err = Verify(testSecret, token)
	assert.Error(t, err, "Просроченный токен должен отклоняться")
}

func TestHasRole_NilIdentity(t *testing.T) {
	var identity *Identity
	assert.False(t, identity.HasRole(RoleUser))
}
