package services

import (
	"context"
	"errors"
	"fmt"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/config"
	"btohub/internal/core/domain"
	jwtpkg "btohub/internal/pkg/jwt"
	"btohub/internal/pkg/nric"
	"btohub/internal/pkg/password"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid national ID or password")
	ErrUserExists         = errors.New("a user with this national ID already exists")
	ErrInvalidNationalID  = errors.New("national ID must match the NRIC format")
	ErrAccountDisabled    = errors.New("account has been disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.RefreshTokenRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtConfig: jwtConfig,
	}
}

// RegisterInput represents registration data
type RegisterInput struct {
	NationalID    string               `json:"nationalId"`
	Name          string               `json:"name"`
	Password      string               `json:"password"`
	Age           int                  `json:"age"`
	MaritalStatus domain.MaritalStatus `json:"maritalStatus"`
}

// LoginInput represents login credentials
type LoginInput struct {
	NationalID string `json:"nationalId"`
	Password   string `json:"password"`
}

// TokenPair holds a freshly issued access and refresh token
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates an applicant account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	if !nric.IsValid(input.NationalID) {
		return nil, ErrInvalidNationalID
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if input.Age <= 0 {
		return nil, fmt.Errorf("%w: age must be positive", domain.ErrInvalidInput)
	}
	if input.MaritalStatus != domain.Single && input.MaritalStatus != domain.Married {
		return nil, fmt.Errorf("%w: marital status must be SINGLE or MARRIED", domain.ErrInvalidInput)
	}
	if !password.ValidatePassword(input.Password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	exists, err := s.userRepo.ExistsByNationalID(ctx, input.NationalID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		NationalID:    input.NationalID,
		Name:          input.Name,
		Password:      hashed,
		Age:           input.Age,
		MaritalStatus: input.MaritalStatus,
		Role:          domain.RoleApplicant,
		IsActive:      true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByNationalID(ctx, input.NationalID)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh rotates a refresh token and issues a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := jwtpkg.ValidateRefreshToken(refreshToken, s.jwtConfig.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	stored, err := s.tokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil || stored.IsRevoked() || stored.IsExpired() {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	// rotate: the presented token is single use
	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.tokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		return ErrInvalidToken
	}
	return s.tokenRepo.Revoke(ctx, stored.ID)
}

// LogoutAll revokes every refresh token of a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	return s.tokenRepo.RevokeAllByUserID(ctx, userID)
}

// Me returns the calling user's profile
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, err := jwtpkg.GenerateAccessToken(user.ID, user.NationalID, user.Name, user.Role, s.jwtConfig.Secret, s.jwtConfig.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()
	refreshToken, err := jwtpkg.GenerateRefreshToken(user.ID, tokenID, s.jwtConfig.RefreshSecret, s.jwtConfig.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwtpkg.GetExpiryTime(s.jwtConfig.RefreshTokenDays),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
