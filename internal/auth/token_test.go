package auth

import (
	"testing"
	"time"

	"oriventa_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: "3b0c6c9e-1111-4c1e-9d0a-7a1f00000001"},
		Email:     "agent@oriventa.local",
		Role:      models.UserRoleCandidateService,
	}
}

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	_, err := NewTokenIssuer("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestTokenIssuer_IssueAndResolve(t *testing.T) {
	issuer, err := NewTokenIssuer("secret")
	require.NoError(t, err)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	identity, err := issuer.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, testUser().ID, identity.ID)
	assert.Equal(t, "agent@oriventa.local", identity.Email)
	assert.Equal(t, models.UserRoleCandidateService, identity.Role)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewTokenIssuer("secret")
	require.NoError(t, err)

	token, err := issuer.WithClock(func() time.Time { return issuedAt }).Issue(testUser())
	require.NoError(t, err)

	// за секунду до истечения еще валиден
	_, err = issuer.WithClock(func() time.Time { return issuedAt.Add(SessionTTL - time.Second) }).Resolve(token)
	require.NoError(t, err)

	_, err = issuer.WithClock(func() time.Time { return issuedAt.Add(SessionTTL + time.Second) }).Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	a, _ := NewTokenIssuer("secret-a")
	b, _ := NewTokenIssuer("secret-b")

	token, err := a.Issue(testUser())
	require.NoError(t, err)

	_, err = b.Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret")
	claims := Claims{
		ID:    "u1",
		Email: "a@b.c",
		Role:  models.UserRoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Resolve(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("HS512", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = issuer.Resolve(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenIssuer_RequiresExpiryAndRole(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret")

	noExp := Claims{ID: "u1", Role: models.UserRoleAdmin}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noExp).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badRole := Claims{
		ID:               "u1",
		Role:             "superuser",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, badRole).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret")
	_, err := issuer.Resolve("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
