package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RogerDodger/gp-kitchen/internal/auth"
	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

func newAuthService() (AuthService, *auth.JWTManager) {
	jwtManager := auth.NewJWTManager("test-secret-key", "gp-kitchen-test")
	return NewAuthService(newFakeRepositories(), jwtManager), jwtManager
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &domain.CreateUserRequest{
		Username: "alchemist",
		Email:    "Alch@Example.com",
		Password: "secure-password",
	})
	require.NoError(t, err)
	require.Equal(t, "alchemist", user.Username)
	require.Equal(t, "alch@example.com", user.Email)
	require.Equal(t, string(domain.RoleUser), user.Role)

	// Same email again must fail.
	_, err = svc.Register(ctx, &domain.CreateUserRequest{
		Username: "other",
		Email:    "alch@example.com",
		Password: "secure-password",
	})
	require.Error(t, err)

	// Same username again must fail.
	_, err = svc.Register(ctx, &domain.CreateUserRequest{
		Username: "alchemist",
		Email:    "other@example.com",
		Password: "secure-password",
	})
	require.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), &domain.CreateUserRequest{
		Username: "ab",
		Email:    "short@example.com",
		Password: "secure-password",
	})
	require.Error(t, err)

	_, err = svc.Register(context.Background(), &domain.CreateUserRequest{
		Username: "validname",
		Email:    "not-an-email",
		Password: "secure-password",
	})
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.CreateUserRequest{
		Username: "alchemist",
		Email:    "alch@example.com",
		Password: "secure-password",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, "alch@example.com", "secure-password")
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)
		require.NotEmpty(t, resp.RefreshToken)
		require.Equal(t, "alchemist", resp.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alch@example.com", "wrong-password")
		require.Error(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "secure-password")
		require.Error(t, err)
	})
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	guest, err := svc.Guest(ctx)
	require.NoError(t, err)

	resp, err := svc.RefreshToken(ctx, guest.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	_, err = svc.RefreshToken(ctx, guest.AccessToken)
	require.Error(t, err, "access token must not work as refresh token")
}

func TestGuest(t *testing.T) {
	svc, jwtManager := newAuthService()
	ctx := context.Background()

	resp, err := svc.Guest(ctx)
	require.NoError(t, err)
	require.Equal(t, string(domain.RoleGuest), resp.User.Role)
	require.Empty(t, resp.User.Email)
	require.Contains(t, resp.User.Username, "guest_")

	claims, err := jwtManager.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, string(domain.RoleGuest), claims.Role)

	// A guest has no password, so password login cannot reach the account.
	_, err = svc.Login(ctx, "", "")
	require.Error(t, err)
}

func TestPromote(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	guest, err := svc.Guest(ctx)
	require.NoError(t, err)

	promoted, err := svc.Promote(ctx, guest.User.ID, &domain.PromoteRequest{
		Username: "former_guest",
		Email:    "guest@example.com",
		Password: "secure-password",
	})
	require.NoError(t, err)
	require.Equal(t, guest.User.ID, promoted.ID, "promotion must keep the account ID")
	require.Equal(t, string(domain.RoleUser), promoted.Role)
	require.Equal(t, "former_guest", promoted.Username)

	// The promoted account can now log in with its credentials.
	resp, err := svc.Login(ctx, "guest@example.com", "secure-password")
	require.NoError(t, err)
	require.Equal(t, guest.User.ID, resp.User.ID)

	// Promoting twice must fail.
	_, err = svc.Promote(ctx, guest.User.ID, &domain.PromoteRequest{
		Username: "again",
		Email:    "again@example.com",
		Password: "secure-password",
	})
	require.Error(t, err)
}

func TestPromoteTakenEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.CreateUserRequest{
		Username: "alchemist",
		Email:    "alch@example.com",
		Password: "secure-password",
	})
	require.NoError(t, err)

	guest, err := svc.Guest(ctx)
	require.NoError(t, err)

	_, err = svc.Promote(ctx, guest.User.ID, &domain.PromoteRequest{
		Username: "someone",
		Email:    "alch@example.com",
		Password: "secure-password",
	})
	require.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	guest, err := svc.Guest(ctx)
	require.NoError(t, err)

	user, err := svc.ValidateToken(ctx, guest.AccessToken)
	require.NoError(t, err)
	require.Equal(t, guest.User.ID, user.ID)

	_, err = svc.ValidateToken(ctx, "not-a-token")
	require.Error(t, err)
}
