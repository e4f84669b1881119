package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"picstream/internal/config"
	"picstream/internal/model"
	"picstream/internal/repository"
)

// AuthService issues and verifies access tokens and drives the password-reset
// flow. Reset tokens are stored hashed on the user document with an expiry.
type AuthService struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		config:   cfg,
	}
}

// GenerateToken signs an HS256 access token whose subject is the user's id.
func (s *AuthService) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyToken validates the token signature and expiry and returns the user
// id carried in the claims.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", jwt.ErrTokenInvalidClaims
	}

	return id, nil
}

// CreateResetToken resolves the email to a user, stores a hashed single-use
// reset token with an expiry, and returns the raw token.
func (s *AuthService) CreateResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	tokenRaw := uuid.NewString()
	expire := time.Now().Add(time.Duration(s.config.ResetTokenMaxAge) * time.Second)

	if err := s.userRepo.SetResetToken(ctx, user.ID.Hex(), s.hashToken(tokenRaw), expire); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	return tokenRaw, nil
}

// ResetPassword verifies the reset token and replaces the password. The new
// password must satisfy the same schema as registration.
func (s *AuthService) ResetPassword(ctx context.Context, tokenRaw, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(ctx, s.hashToken(tokenRaw))
	if err != nil {
		return err
	}

	if errs := model.ValidateRegistration(&model.RegisterRequest{
		Username: user.Username,
		Email:    user.Email,
		Password: newPassword,
	}); errs != nil {
		if msg, ok := errs["password"]; ok {
			return errors.New(msg)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, user.ID.Hex(), string(hashed))
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
