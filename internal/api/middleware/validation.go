package middleware

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
)

// Validator interface for types that can validate themselves.
type Validator interface {
	Validate() error
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResponse represents the error response format.
type ValidationResponse struct {
	Error  string            `json:"error"`
	Code   int               `json:"code"`
	Errors []ValidationError `json:"errors"`
}

// ValidateJSON creates middleware that validates JSON request bodies.
// T must implement the Validator interface.
func ValidateJSON[T Validator](next func(w http.ResponseWriter, r *http.Request, body T)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType := r.Header.Get("Content-Type")
		if !strings.Contains(contentType, "application/json") {
			writeValidationError(w, []ValidationError{
				{Field: "content-type", Message: "Content-Type must be application/json"},
			})
			return
		}

		var body T
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(&body); err != nil {
			writeValidationError(w, []ValidationError{decodeError(err)})
			return
		}

		// A body of literal null decodes into a nil pointer.
		if v := reflect.ValueOf(body); !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
			writeValidationError(w, []ValidationError{
				{Field: "body", Message: "request body is required"},
			})
			return
		}

		if err := body.Validate(); err != nil {
			writeValidationError(w, parseValidationError(err))
			return
		}

		next(w, r, body)
	})
}

// decodeError maps a JSON decoding failure to a field-level error.
func decodeError(err error) ValidationError {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unknown field"):
		return ValidationError{Field: extractFieldFromError(msg), Message: "unknown field"}
	case strings.Contains(msg, "invalid character"):
		return ValidationError{Field: "json", Message: "invalid JSON format"}
	case strings.Contains(msg, "EOF"):
		return ValidationError{Field: "body", Message: "request body is required"}
	}
	return ValidationError{Field: "json", Message: "failed to parse JSON: " + msg}
}

// parseValidationError converts a validation error into ValidationError slice.
// Validate methods return errors of the form "field: message".
func parseValidationError(err error) []ValidationError {
	errorMsg := err.Error()

	if field, message, ok := strings.Cut(errorMsg, ":"); ok {
		return []ValidationError{{
			Field:   strings.TrimSpace(field),
			Message: strings.TrimSpace(message),
		}}
	}
	return []ValidationError{{Field: "general", Message: errorMsg}}
}

// extractFieldFromError extracts field name from JSON unknown field error.
func extractFieldFromError(errorMsg string) string {
	// Example: "json: unknown field \"invalidField\""
	start := strings.Index(errorMsg, `"`)
	if start != -1 {
		end := strings.Index(errorMsg[start+1:], `"`)
		if end != -1 {
			return errorMsg[start+1 : start+1+end]
		}
	}
	return "unknown"
}

// writeValidationError writes a 422 Unprocessable Entity response.
func writeValidationError(w http.ResponseWriter, errors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)

	response := ValidationResponse{
		Error:  "validation failed",
		Code:   422,
		Errors: errors,
	}
	_ = json.NewEncoder(w).Encode(response)
}
