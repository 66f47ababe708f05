package auth

import (
	"testing"
	"time"

	"github.com/erp/lobapi/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "lobapi-test",
	})
}

func newTestInput() IssueInput {
	return IssueInput{
		TenantID:    uuid.New(),
		UserID:      uuid.New(),
		Username:    "clerk",
		Permissions: []string{"warehouse:read", "bill:*"},
	}
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	issued, err := svc.Issue(input)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.NotEmpty(t, issued.TokenID)
	assert.Equal(t, "Bearer", issued.TokenType)

	claims, err := svc.ValidateAccessToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, issued.TokenID, claims.ID)
	assert.Equal(t, "clerk", claims.Username)

	tenantID, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, input.TenantID, tenantID)
	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userID)
	assert.Greater(t, claims.RemainingTTL(), 14*time.Minute)
}

func TestJWTService_IssueRequiresSubject(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.Issue(IssueInput{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrMissingTenantID)

	_, err = svc.Issue(IssueInput{TenantID: uuid.New()})
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestJWTService_ValidateAccessToken_Failures(t *testing.T) {
	svc := newTestJWTService()

	t.Run("expired", func(t *testing.T) {
		issued, err := svc.Issue(newTestInput())
		require.NoError(t, err)

		later := newTestJWTService()
		later.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err = later.ValidateAccessToken(issued.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-key-at-least-32-ch",
			AccessTokenExpiration: time.Minute,
			Issuer:                "lobapi-test",
		})
		issued, err := other.Issue(newTestInput())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("different issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-chars",
			AccessTokenExpiration: time.Minute,
			Issuer:                "someone-else",
		})
		issued, err := other.Issue(newTestInput())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing tenant claim", func(t *testing.T) {
		now := time.Now()
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "lobapi-test",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			UserID: uuid.NewString(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(signed)
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})
}

func TestClaims_HasPermission(t *testing.T) {
	tests := []struct {
		name       string
		granted    []string
		permission string
		expected   bool
	}{
		{"exact match", []string{"warehouse:read"}, "warehouse:read", true},
		{"other action", []string{"warehouse:read"}, "warehouse:delete", false},
		{"resource wildcard", []string{"bill:*"}, "bill:approve", true},
		{"resource wildcard does not leak", []string{"bill:*"}, "billing:read", false},
		{"global wildcard", []string{WildcardPermission}, "leave:submit", true},
		{"no permissions", nil, "leave:read", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &Claims{Permissions: tt.granted}
			assert.Equal(t, tt.expected, claims.HasPermission(tt.permission))
		})
	}
}

func TestClaims_HasAnyPermission(t *testing.T) {
	claims := &Claims{Permissions: []string{"message:create"}}
	assert.True(t, claims.HasAnyPermission("conversation:read", "message:create"))
	assert.False(t, claims.HasAnyPermission("conversation:read", "conversation:update"))
}
