package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/auth"
	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/repository"
)

// authService implements the AuthService interface.
type authService struct {
	repos      *repository.Repositories
	jwtManager *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(repos *repository.Repositories, jwtManager *auth.JWTManager) AuthService {
	return &authService{
		repos:      repos,
		jwtManager: jwtManager,
	}
}

// Register creates a new user account.
func (s *authService) Register(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	email := strings.ToLower(req.Email)

	existingUser, err := s.repos.Users.GetByEmail(ctx, email)
	if err == nil && existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	existingUser, err = s.repos.Users.GetByUsername(ctx, req.Username)
	if err == nil && existingUser != nil {
		return nil, fmt.Errorf("username already taken")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         string(domain.RoleUser),
		IsActive:     true,
	}

	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	response := user.ToResponse()
	return &response, nil
}

// Login authenticates a user and returns tokens.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.repos.Users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if !auth.ComparePassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("invalid email or password")
	}

	return s.loginResponse(user)
}

// RefreshToken generates a new access token from a refresh token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	newAccessToken, err := s.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken: newAccessToken,
		ExpiresIn:   int(auth.AccessTokenDuration.Seconds()),
	}, nil
}

// Guest creates an anonymous guest account and returns tokens for it.
// Guests have no email and no usable password, so the tokens are the
// only way back into the account until it is promoted.
func (s *authService) Guest(ctx context.Context) (*LoginResponse, error) {
	id := uuid.New()

	user := &domain.User{
		ID:           id,
		Username:     guestUsername(id),
		Email:        "",
		PasswordHash: "",
		Role:         string(domain.RoleGuest),
		IsActive:     true,
	}

	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	return s.loginResponse(user)
}

// Promote upgrades a guest account to a full account in place. The account
// keeps its ID, so its recipes survive the promotion.
func (s *authService) Promote(ctx context.Context, userID uuid.UUID, req *domain.PromoteRequest) (*domain.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if !user.IsGuest() {
		return nil, fmt.Errorf("account is not a guest")
	}

	email := strings.ToLower(req.Email)

	existingUser, err := s.repos.Users.GetByEmail(ctx, email)
	if err == nil && existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	existingUser, err = s.repos.Users.GetByUsername(ctx, req.Username)
	if err == nil && existingUser != nil && existingUser.ID != userID {
		return nil, fmt.Errorf("username already taken")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.Username = req.Username
	user.Email = email
	user.PasswordHash = hashedPassword
	user.Role = string(domain.RoleUser)

	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to promote guest: %w", err)
	}

	response := user.ToResponse()
	return &response, nil
}

// ValidateToken validates an access token and returns user info.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.UserResponse, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	user, err := s.repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	response := user.ToResponse()
	return &response, nil
}

func (s *authService) loginResponse(user *domain.User) (*LoginResponse, error) {
	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	userResponse := user.ToResponse()
	return &LoginResponse{
		User:         &userResponse,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    int(tokenPair.ExpiresIn),
	}, nil
}

// guestUsername derives a readable unique name from the account ID.
func guestUsername(id uuid.UUID) string {
	return "guest_" + strings.ReplaceAll(id.String()[:13], "-", "")
}
