package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sajadkh/restaurant-panel/auth"
)

// fakeVerifier hands out a fixed identity; the pipeline tests below only
// exercise paths that fail before any database access.
type fakeVerifier struct {
	identity *auth.Identity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*auth.Identity, error) {
	return f.identity, f.err
}

func doRequest(t *testing.T, verifier auth.Verifier, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("token", token)
	}

	rec := httptest.NewRecorder()
	SetupRoutes(verifier).Router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return envelope
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, &fakeVerifier{}, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/bob/menu"},
		{http.MethodPost, "/status/open"},
		{http.MethodPost, "/bob/order/1/deliver"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doRequest(t, &fakeVerifier{}, tt.method, tt.path, "", "")
			if rec.Code != http.StatusMethodNotAllowed {
				t.Fatalf("status = %d, want 405", rec.Code)
			}
			envelope := decodeEnvelope(t, rec)
			if _, ok := envelope["error"]; !ok {
				t.Errorf("expected error envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestAuthedRoutesRequireToken(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/status/open"},
		{http.MethodPut, "/status/close"},
		{http.MethodPost, "/bob/menu"},
		{http.MethodPut, "/bob/menu/foods/1"},
		{http.MethodGet, "/bob/order"},
		{http.MethodPost, "/bob/order"},
		{http.MethodGet, "/bob/order/1"},
		{http.MethodPut, "/bob/order/1/deliver"},
	}

	for _, tt := range paths {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doRequest(t, &fakeVerifier{}, tt.method, tt.path, "", "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 for missing token", rec.Code)
			}

			envelope := decodeEnvelope(t, rec)
			var errs []string
			if err := json.Unmarshal(envelope["errors"], &errs); err != nil {
				t.Fatalf("expected errors envelope, got %s", rec.Body.String())
			}
			if len(errs) != 1 || errs[0] != "token is required!" {
				t.Errorf("errors = %v", errs)
			}
		})
	}
}

func TestInvalidTokenIsUnauthorized(t *testing.T) {
	verifier := &fakeVerifier{err: auth.ErrInvalidToken}
	rec := doRequest(t, verifier, http.MethodPut, "/status/open", "bad", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRoleMismatchIsForbidden(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		method string
		path   string
	}{
		{"internal cannot open", "INTERNAL", http.MethodPut, "/status/open"},
		{"internal cannot manage menu", "INTERNAL", http.MethodPost, "/bob/menu"},
		{"restaurant cannot place orders", "RESTAURANT", http.MethodPost, "/bob/order"},
		{"internal cannot deliver", "INTERNAL", http.MethodPut, "/bob/order/1/deliver"},
		{"unknown role rejected", "ADMIN", http.MethodPut, "/status/open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &fakeVerifier{identity: &auth.Identity{Username: "bob", Role: tt.role}}
			rec := doRequest(t, verifier, tt.method, tt.path, "tok", "")
			if rec.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", rec.Code)
			}
		})
	}
}

func TestOwnershipMismatchIsForbidden(t *testing.T) {
	// token belongs to alice, path names bob
	verifier := &fakeVerifier{identity: &auth.Identity{Username: "alice", Role: "RESTAURANT"}}

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/bob/menu"},
		{http.MethodPut, "/bob/menu/foods/1"},
		{http.MethodGet, "/bob/order"},
		{http.MethodGet, "/bob/order/1"},
		{http.MethodPut, "/bob/order/1/deliver"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doRequest(t, verifier, tt.method, tt.path, "tok", "")
			if rec.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", rec.Code)
			}
		})
	}
}

func TestAddMenuFoodsValidation(t *testing.T) {
	verifier := &fakeVerifier{identity: &auth.Identity{Username: "bob", Role: "RESTAURANT"}}

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"missing foods", `{}`, "foods is required!"},
		{"food missing price", `{"foods":[{"name":"Pizza","availability":5}]}`, "price is required!"},
		{"food missing name", `{"foods":[{"price":10,"availability":5}]}`, "name is required!"},
		{"food missing availability", `{"foods":[{"name":"Pizza","price":10}]}`, "availability is required!"},
		{"foods not a list", `{"foods":"Pizza"}`, "foods must be a list of food objects!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, verifier, http.MethodPost, "/bob/menu", "tok", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}

			envelope := decodeEnvelope(t, rec)
			var errs []string
			if err := json.Unmarshal(envelope["errors"], &errs); err != nil {
				t.Fatalf("expected errors envelope, got %s", rec.Body.String())
			}
			found := false
			for _, e := range errs {
				if e == tt.wantError {
					found = true
				}
			}
			if !found {
				t.Errorf("errors = %v, want to contain %q", errs, tt.wantError)
			}
		})
	}
}

func TestCreateOrderValidation(t *testing.T) {
	verifier := &fakeVerifier{identity: &auth.Identity{Username: "internal-svc", Role: "INTERNAL"}}

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"missing both", `{}`, "foods is required!"},
		{"missing customer", `{"foods":[1]}`, "customer is required!"},
		{"missing foods", `{"customer":"alice"}`, "foods is required!"},
		{"foods not ids", `{"foods":["Pizza"],"customer":"alice"}`, "foods must be a list of food ids!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, verifier, http.MethodPost, "/bob/order", "tok", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}

			envelope := decodeEnvelope(t, rec)
			var errs []string
			if err := json.Unmarshal(envelope["errors"], &errs); err != nil {
				t.Fatalf("expected errors envelope, got %s", rec.Body.String())
			}
			found := false
			for _, e := range errs {
				if e == tt.wantError {
					found = true
				}
			}
			if !found {
				t.Errorf("errors = %v, want to contain %q", errs, tt.wantError)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	rec := doRequest(t, &fakeVerifier{}, http.MethodGet, "/health", "", "")
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header on every response")
	}
}
