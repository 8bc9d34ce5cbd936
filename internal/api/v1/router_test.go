package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/RogerDodger/gp-kitchen/internal/auth"
	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/pricing"
	"github.com/RogerDodger/gp-kitchen/internal/service"
)

// stubAuthService serves the guest endpoint; everything else errors.
type stubAuthService struct {
	jwtManager *auth.JWTManager
}

func (s *stubAuthService) Register(_ context.Context, _ *domain.CreateUserRequest) (*domain.UserResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (*service.LoginResponse, error) {
	return nil, fmt.Errorf("invalid email or password")
}

func (s *stubAuthService) RefreshToken(_ context.Context, _ string) (*service.TokenResponse, error) {
	return nil, fmt.Errorf("invalid refresh token")
}

func (s *stubAuthService) Guest(_ context.Context) (*service.LoginResponse, error) {
	id := uuid.New()
	pair, err := s.jwtManager.GenerateTokenPair(id, "guest_test", string(domain.RoleGuest))
	if err != nil {
		return nil, err
	}
	return &service.LoginResponse{
		User:         &domain.UserResponse{ID: id, Username: "guest_test", Role: string(domain.RoleGuest)},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.ExpiresIn),
	}, nil
}

func (s *stubAuthService) Promote(_ context.Context, _ uuid.UUID, _ *domain.PromoteRequest) (*domain.UserResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubAuthService) ValidateToken(_ context.Context, _ string) (*domain.UserResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubUserService struct{}

func (s *stubUserService) GetByID(_ context.Context, id uuid.UUID) (*domain.UserResponse, error) {
	return &domain.UserResponse{ID: id, Username: "someone", Role: string(domain.RoleUser)}, nil
}

func (s *stubUserService) List(_ context.Context, _, _ int) ([]*domain.UserResponse, error) {
	return []*domain.UserResponse{}, nil
}

func (s *stubUserService) Update(_ context.Context, _ uuid.UUID, _ *domain.UpdateUserRequest) (*domain.UserResponse, error) {
	return nil, fmt.Errorf("user not found")
}

func (s *stubUserService) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubUserService) TouchLastSeen(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubUserService) PurgeStaleGuests(_ context.Context, _ time.Duration) (int, error) {
	return 0, nil
}

type stubRecipeService struct{}

func (s *stubRecipeService) Create(_ context.Context, ownerID uuid.UUID, req *domain.RecipeRequest) (*domain.Recipe, error) {
	return &domain.Recipe{ID: uuid.New(), OwnerID: ownerID, Name: req.Name}, nil
}

func (s *stubRecipeService) GetByID(_ context.Context, _, _ uuid.UUID) (*domain.Recipe, error) {
	return nil, fmt.Errorf("recipe not found")
}

func (s *stubRecipeService) GetWithProfit(_ context.Context, _, _ uuid.UUID, _ pricing.Mode) (*service.RecipeWithProfit, error) {
	return nil, fmt.Errorf("recipe not found")
}

func (s *stubRecipeService) ListWithProfit(_ context.Context, _ uuid.UUID, mode pricing.Mode, sortKey string) ([]*service.RecipeWithProfit, error) {
	if sortKey != "" && sortKey != "profit" && sortKey != "roi" && sortKey != "name" {
		return nil, fmt.Errorf("unknown sort key %q", sortKey)
	}
	return []*service.RecipeWithProfit{}, nil
}

func (s *stubRecipeService) Update(_ context.Context, _, _ uuid.UUID, _ *domain.RecipeRequest) (*domain.Recipe, error) {
	return nil, fmt.Errorf("recipe not found")
}

func (s *stubRecipeService) Delete(_ context.Context, _, _ uuid.UUID) error {
	return fmt.Errorf("recipe not found")
}

type stubCookbookService struct{}

func (s *stubCookbookService) List(_ context.Context) ([]*domain.Cookbook, error) {
	return []*domain.Cookbook{}, nil
}

func (s *stubCookbookService) GetByID(_ context.Context, _ uuid.UUID) (*domain.Cookbook, error) {
	return nil, fmt.Errorf("cookbook not found")
}

func (s *stubCookbookService) Create(_ context.Context, createdBy uuid.UUID, req *domain.CookbookRequest) (*domain.Cookbook, error) {
	return &domain.Cookbook{ID: uuid.New(), Name: req.Name, CreatedBy: &createdBy}, nil
}

func (s *stubCookbookService) Update(_ context.Context, _ uuid.UUID, _ *domain.CookbookRequest) (*domain.Cookbook, error) {
	return nil, fmt.Errorf("cookbook not found")
}

func (s *stubCookbookService) Delete(_ context.Context, _ uuid.UUID) error {
	return fmt.Errorf("cookbook not found")
}

func (s *stubCookbookService) Import(_ context.Context, _, _ uuid.UUID) ([]*domain.Recipe, error) {
	return nil, fmt.Errorf("cookbook not found")
}

type stubPriceService struct{}

func (s *stubPriceService) SyncPrices(_ context.Context) (int, error)  { return 0, nil }
func (s *stubPriceService) SyncMapping(_ context.Context) (int, error) { return 0, nil }

func (s *stubPriceService) Search(_ context.Context, query string, _ int) ([]*domain.Item, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	return []*domain.Item{{ID: 2, Name: "Cannonball"}}, nil
}

func (s *stubPriceService) GetItem(_ context.Context, _ int) (*domain.ItemWithPrice, error) {
	return nil, fmt.Errorf("item not found")
}

func (s *stubPriceService) LatestByIDs(_ context.Context, _ []int) (map[int]*domain.PriceSnapshot, error) {
	return map[int]*domain.PriceSnapshot{}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *auth.JWTManager) {
	t.Helper()

	jwtManager := auth.NewJWTManager("test-secret-key", "gp-kitchen")
	services := &service.Services{
		Auth:     &stubAuthService{jwtManager: jwtManager},
		User:     &stubUserService{},
		Recipe:   &stubRecipeService{},
		Cookbook: &stubCookbookService{},
		Price:    &stubPriceService{},
	}

	mux := http.NewServeMux()
	NewRouter(services, jwtManager).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, jwtManager
}

func accessTokenFor(t *testing.T, jwtManager *auth.JWTManager, role domain.UserRole) string {
	t.Helper()
	token, err := jwtManager.GenerateAccessToken(uuid.New(), "tester", string(role))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(""))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPing(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/ping", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuestEndpointIssuesUsableToken(t *testing.T) {
	srv, jwtManager := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/auth/guest", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.AccessToken)

	claims, err := jwtManager.ValidateAccessToken(body.AccessToken)
	require.NoError(t, err)
	require.Equal(t, string(domain.RoleGuest), claims.Role)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/recipes", body.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecipesRequireAuth(t *testing.T) {
	srv, jwtManager := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/recipes", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := accessTokenFor(t, jwtManager, domain.RoleUser)
	resp = doRequest(t, srv, http.MethodGet, "/api/v1/recipes", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/recipes?mode=yolo", token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/recipes?sort=bogus", token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItemSearchValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/items", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/items?q=cannon", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/items?q=cannon&limit=zero", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLatestPricesValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/prices/latest", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/prices/latest?ids=2,561", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/prices/latest?ids=2,nope", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUserRoutesAdminOnly(t *testing.T) {
	srv, jwtManager := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/users", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	userToken := accessTokenFor(t, jwtManager, domain.RoleUser)
	resp = doRequest(t, srv, http.MethodGet, "/api/v1/users", userToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken := accessTokenFor(t, jwtManager, domain.RoleAdmin)
	resp = doRequest(t, srv, http.MethodGet, "/api/v1/users", adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCookbookWritesAdminOnly(t *testing.T) {
	srv, jwtManager := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/cookbooks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	userToken := accessTokenFor(t, jwtManager, domain.RoleUser)
	resp = doRequest(t, srv, http.MethodDelete, "/api/v1/cookbooks/"+uuid.NewString(), userToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
