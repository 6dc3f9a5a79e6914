package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWrite_DevIncludesDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/events/7", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusNotFound, "https://homies.events/problems/not-found", "Not found", errors.New("boom"), "development")

	if got := res.Result().Header.Get("Content-Type"); got != "application/problem+json" {
		t.Fatalf("expected content type problem+json, got %s", got)
	}

	var body ProblemDetails
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Detail != "boom" {
		t.Fatalf("expected detail boom, got %s", body.Detail)
	}
	if body.Instance != "/api/v1/events/7" {
		t.Fatalf("expected instance /api/v1/events/7, got %s", body.Instance)
	}
}

func TestWrite_ProdSanitizesDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/events/7", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusNotFound, "https://homies.events/problems/not-found", "Not found", errors.New("boom"), "production")

	var body ProblemDetails
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Detail != http.StatusText(http.StatusNotFound) {
		t.Fatalf("expected sanitized detail, got %s", body.Detail)
	}
}

func TestWrite_FieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/events", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusUnprocessableEntity, "https://homies.events/problems/validation-error", "Invalid event", nil, "development",
		WithErrors(map[string]interface{}{"Name": "Event name must be between 5 and 20 characters."}))

	var body ProblemDetails
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Errors["Name"] != "Event name must be between 5 and 20 characters." {
		t.Fatalf("expected field error, got %#v", body.Errors)
	}
}
