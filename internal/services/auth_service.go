package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coworkops/internal/caching"
	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "coworkops-auth"
	tokenAudience = "coworkops-api"

	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

// AuthService handles password login and JWT access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	GenerateToken(user *models.User) (*models.TokenResponse, error)
	ValidateToken(token string) (*TokenClaims, error)
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo  repositories.UserRepository
	cacheSvc  caching.CacheService
	clock     clockwork.Clock
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, clock clockwork.Clock, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		cacheSvc:  cacheSvc,
		clock:     clock,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// HashPassword returns the bcrypt hash stored in users.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the password and issues an access token. Attempts are throttled
// per email in Redis; an unreachable Redis does not block logins.
func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	throttleKey := "login:" + email
	limited, err := s.cacheSvc.IsRateLimited(ctx, throttleKey, loginAttemptLimit, loginAttemptWindow)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
	} else if limited {
		return nil, common.ErrTooManyRequests
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", common.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", common.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", common.ErrUnauthorized)
	}

	if err := s.cacheSvc.ResetRateLimit(ctx, throttleKey); err != nil {
		s.logger.Warn("failed to reset login throttle", zap.Error(err))
	}
	return s.GenerateToken(user)
}

// GenerateToken signs an HS256 access token for user.
func (s *authService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	now := s.clock.Now()
	claims := TokenClaims{
		UserID: user.ID.String(),
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		IssuedAt:    now,
		User:        user,
	}, nil
}

// ValidateToken validates JWT access token
func (s *authService) ValidateToken(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", common.ErrUnauthorized)
	}
	return claims, nil
}
