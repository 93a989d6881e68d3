package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jumpstart-backend/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// AuthService authenticates admin accounts and issues session tokens
type AuthService struct {
	adminRepo AdminRepository
	secret    []byte
}

// NewAuthService creates a new auth service
func NewAuthService(adminRepo AdminRepository, secret string) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		secret:    []byte(secret),
	}
}

// Login verifies credentials and returns a signed session token. Unknown
// emails and wrong passwords both yield models.ErrInvalidCredentials so the
// response does not reveal which part failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrAdminNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	claims := jwt.RegisteredClaims{
		Subject:   admin.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

// ValidateToken parses and verifies a session token, returning the admin id
func (s *AuthService) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, models.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, models.ErrInvalidCredentials
	}

	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, models.ErrInvalidCredentials
	}

	return adminID, nil
}
