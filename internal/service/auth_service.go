package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/models"
	"github.com/arez-sajeel/Project-Green/internal/password"
	"github.com/arez-sajeel/Project-Green/internal/repository"
)

// AuthService contains registration, login and profile logic.
type AuthService struct {
	users      UserRepository
	portfolios PortfolioRepository
	hasher     password.Hasher
	tokenizer  *TokenService
	logger     *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(users UserRepository, portfolios PortfolioRepository, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		portfolios: portfolios,
		hasher:     hasher,
		tokenizer:  tokenizer,
		logger:     logger,
	}
}

// Register creates a new account and issues its first token. Property
// managers get a portfolio allocated immediately so their properties have
// somewhere to live.
func (s *AuthService) Register(ctx context.Context, email, plainPassword, role string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", fmt.Errorf("%w: email required", ErrValidation)
	}
	if plainPassword == "" {
		return nil, "", fmt.Errorf("%w: password required", ErrValidation)
	}
	if !models.ValidRole(role) {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if role == models.RolePropertyManager {
		portfolioID, err := s.allocatePortfolio(ctx, user)
		if err != nil {
			return nil, "", err
		}
		if err := s.users.UpdateRole(ctx, user.ID, role, &portfolioID); err != nil {
			return nil, "", err
		}
		user.PortfolioID = &portfolioID
	}

	token, err := s.tokenizer.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("role", user.Role),
	)
	return user, token, nil
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plainPassword == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, plainPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Me returns the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateRole switches a user between Homeowner and PropertyManager. Moving
// to PropertyManager allocates a portfolio if the user never had one.
func (s *AuthService) UpdateRole(ctx context.Context, userID int64, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	var portfolioID *int64
	if role == models.RolePropertyManager && user.PortfolioID == nil {
		id, err := s.allocatePortfolio(ctx, user)
		if err != nil {
			return nil, err
		}
		portfolioID = &id
	}

	if err := s.users.UpdateRole(ctx, userID, role, portfolioID); err != nil {
		return nil, err
	}

	user.Role = role
	if portfolioID != nil {
		user.PortfolioID = portfolioID
	}
	s.logger.Info("user role updated", zap.Int64("user_id", userID), zap.String("role", role))
	return user, nil
}

func (s *AuthService) allocatePortfolio(ctx context.Context, user *models.User) (int64, error) {
	portfolio := &models.Portfolio{
		ManagerUserID: user.ID,
		Name:          fmt.Sprintf("%s portfolio", user.Email),
	}
	if err := s.portfolios.Create(ctx, portfolio); err != nil {
		return 0, err
	}
	return portfolio.ID, nil
}
