package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidney_monitor/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       "a1b2c3d4-0000-0000-0000-000000000001",
		Name:     "Ivan",
		LastName: "Petrov",
		Email:    "ivan@example.com",
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := NewJWTService()
	user := testUser()

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, "kidney-monitor-auth", claims.Issuer)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestValidateRefreshToken(t *testing.T) {
	svc := NewJWTService()

	token, err := svc.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, testUser().ID, claims.UserID)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService()

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := NewJWTService()

	other := &JWTService{
		secretKey:       []byte("another-secret-entirely"),
		accessTokenExp:  15 * time.Minute,
		refreshTokenExp: 7 * 24 * time.Hour,
	}

	token, err := other.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService()

	claims := &Claims{
		UserID: testUser().ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "kidney-monitor-auth",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(svc.secretKey)
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.NoError(t, CheckPassword(hash, "correct-horse-battery"))
	assert.Error(t, CheckPassword(hash, "wrong-password"))
}

func TestHashPasswordLengthLimits(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)

	long := make([]byte, MaxPasswordLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = HashPassword(string(long))
	assert.Error(t, err)
}
