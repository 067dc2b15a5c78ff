package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/seasonal-tarot/pkg/errors"
)

const (
	tokenIssuer       = "seasonal-tarot"
	tokenTypeOperator = "operator"
	defaultTokenTTL   = 12 * time.Hour
)

// Service authenticates the single operator allowed to reconfigure the gateway.
type Service interface {
	Enabled() bool
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
}

type service struct {
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, logger *slog.Logger) Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{cfg: cfg, now: time.Now, logger: logger.With("component", "admin.service")}
}

func (s *service) Enabled() bool {
	return s.cfg.Enabled
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	if !s.cfg.Enabled {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeAuthError, "operator login disabled", nil)
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "username and password are required", nil)
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		s.logger.Warn("operator login rejected", "username", username)
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidCredentials, "invalid username or password", nil)
	}

	now := s.now()
	expires := now.Add(s.cfg.TokenTTL)
	claims := tokenClaims{
		TokenType: tokenTypeOperator,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   username,
			ID:        newTokenID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeAuthError, "failed to sign token", err)
	}
	s.logger.Info("operator logged in", "username", username)
	return LoginResponse{Token: signed, ExpiresAt: expires.UTC()}, nil
}

func (s *service) ValidateToken(ctx context.Context, token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token missing", nil)
	}
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token invalid", nil)
	}
	if claims.TokenType != tokenTypeOperator {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token type mismatch", nil)
	}
	return Claims{Username: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
}

func newTokenID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
