package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
	"github.com/yigit/alumnet/internal/pkg/auth"
)

const (
	testSecret = "test-secret"
	testIssuer = "alumnet.auth"
)

func sign(t *testing.T, secret string, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() auth.Claims {
	now := time.Now()
	return auth.Claims{
		UserID:      "u-1",
		DisplayName: "Ada",
		Email:       "ada@example.edu",
		Role:        string(models.RoleAlumnus),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestValidateAndExtractClaims(t *testing.T) {
	svc := auth.NewJWTService(auth.JWTConfig{SecretKey: testSecret, TokenIssuer: testIssuer})

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"

	noUser := validClaims()
	noUser.UserID = ""

	badRole := validClaims()
	badRole.Role = "superuser"

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid", sign(t, testSecret, validClaims()), nil},
		{"expired", sign(t, testSecret, expired), apperrors.ErrTokenExpired},
		{"wrong secret", sign(t, "other", validClaims()), apperrors.ErrTokenInvalid},
		{"wrong issuer", sign(t, testSecret, wrongIssuer), apperrors.ErrTokenInvalid},
		{"missing user", sign(t, testSecret, noUser), apperrors.ErrTokenInvalid},
		{"unknown role", sign(t, testSecret, badRole), apperrors.ErrTokenInvalid},
		{"malformed", "not-a-jwt", apperrors.ErrInvalidFormat},
		{"empty", "", apperrors.ErrTokenNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateAndExtractClaims(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.User{ID: "u-1", DisplayName: "Ada", Email: "ada@example.edu", Role: models.RoleAlumnus}, claims.User())
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"\"Bearer abc.def.ghi\"", "abc.def.ghi", nil},
		{"abc.def.ghi", "abc.def.ghi", nil},
		{"", "", apperrors.ErrTokenNotFound},
		{"Bearer ", "", apperrors.ErrInvalidFormat},
		{"Basic dXNlcjpwYXNz", "", apperrors.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := auth.ExtractBearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
