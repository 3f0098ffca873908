package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	AccessTokenType  = "access"
	RefreshTokenType = "refresh"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenBlacklisted = errors.New("token has been blacklisted")
)

// TokenService issues and verifies HS256 access and refresh tokens
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  repositories.TokenBlacklist
	now        func() time.Time
}

// TokenPair is what a successful login hands out
type TokenPair struct {
	Access           string
	Refresh          string
	RefreshExpiresAt time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, blacklist repositories.TokenBlacklist) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		blacklist:  blacklist,
		now:        time.Now,
	}
}

// IssuePair generates an access token and a refresh token for user
func (s *TokenService) IssuePair(user *models.User) (*TokenPair, error) {
	access, _, err := s.generate(user, AccessTokenType, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, expiresAt, err := s.generate(user, RefreshTokenType, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh, RefreshExpiresAt: expiresAt}, nil
}

// IssueAccess generates a fresh access token only
func (s *TokenService) IssueAccess(user *models.User) (string, error) {
	access, _, err := s.generate(user, AccessTokenType, s.accessTTL)
	return access, err
}

// Parse verifies signature, expiry and token type
func (s *TokenService) Parse(tokenString, tokenType string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseRefresh parses a refresh token and rejects blacklisted ones
func (s *TokenService) ParseRefresh(ctx context.Context, tokenString string) (*models.JwtCustomClaims, error) {
	claims, err := s.Parse(tokenString, RefreshTokenType)
	if err != nil {
		return nil, err
	}
	blacklisted, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}
	return claims, nil
}

// Revoke blacklists a refresh token until its natural expiry
func (s *TokenService) Revoke(ctx context.Context, claims *models.JwtCustomClaims) error {
	expiresAt := s.now().Add(s.refreshTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.blacklist.Add(ctx, claims.ID, expiresAt)
}

func (s *TokenService) generate(user *models.User, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)
	claims := &models.JwtCustomClaims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
