package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestValidateJSON(t *testing.T) {
	handler := ValidateJSON[*domain.RecipeRequest](func(w http.ResponseWriter, r *http.Request, body *domain.RecipeRequest) {
		if body.Name != "Nature runes" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	validBody := `{
		"name": "Nature runes",
		"inputs": [{"item_id": 1436, "quantity": 1}],
		"outputs": [{"item_id": 561, "quantity": 1}]
	}`

	tests := []struct {
		name           string
		body           string
		contentType    string
		expectedStatus int
	}{
		{
			name:           "valid body",
			body:           validBody,
			contentType:    "application/json",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "wrong content type",
			body:           validBody,
			contentType:    "text/plain",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "empty body",
			body:           "",
			contentType:    "application/json",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "malformed json",
			body:           `{"name": `,
			contentType:    "application/json",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown field",
			body:           `{"name": "x", "bogus": true}`,
			contentType:    "application/json",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "fails domain validation",
			body:           `{"name": "No lines", "inputs": [], "outputs": []}`,
			contentType:    "application/json",
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "null body",
			body:           `null`,
			contentType:    "application/json",
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestValidateJSONErrorShape(t *testing.T) {
	handler := ValidateJSON[*domain.LoginRequest](func(w http.ResponseWriter, r *http.Request, body *domain.LoginRequest) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postJSON(`{"email": "bad", "password": "pw"}`))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"field":"email"`) {
		t.Errorf("expected email field error, got %s", rec.Body.String())
	}
}
