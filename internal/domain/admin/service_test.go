package admin

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/seasonal-tarot/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(Config{
		Enabled:      true,
		Username:     "operator",
		PasswordHash: string(hash),
		Secret:       "test-secret",
		TokenTTL:     time.Hour,
	}, newTestLogger())
}

func TestService_LoginAndValidate(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: " operator ", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, "operator", claims.Username)
}

func TestService_LoginRejected(t *testing.T) {
	svc := newTestService(t)
	tests := []struct {
		name string
		req  LoginRequest
		code string
	}{
		{name: "wrong password", req: LoginRequest{Username: "operator", Password: "nope"}, code: apperrors.CodeInvalidCredentials},
		{name: "wrong user", req: LoginRequest{Username: "root", Password: "s3cret-pass"}, code: apperrors.CodeInvalidCredentials},
		{name: "empty", req: LoginRequest{}, code: apperrors.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.req)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestService_Disabled(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())
	require.False(t, svc.Enabled())
	_, err := svc.Login(context.Background(), LoginRequest{Username: "a", Password: "b"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuthError))
}

func TestService_ValidateTokenFailures(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ValidateToken(context.Background(), "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	_, err = svc.ValidateToken(context.Background(), "not-a-jwt")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		TokenType: tokenTypeOperator,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), foreign)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		TokenType: tokenTypeOperator,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), expired)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	wrongType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), wrongType)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}
