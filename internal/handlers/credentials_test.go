package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/liketagger/backend/internal/logging"
)

func TestCredentialSubject(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123", "role": "authenticated"}).
		SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	cases := map[string]string{
		"Bearer " + signed:   "user-123",
		"bearer " + signed:   "user-123",
		signed:               "",
		"Basic dXNlcjpwdw==": "",
		"Bearer garbage":     "",
		"":                   "",
	}
	for header, want := range cases {
		if got := credentialSubject(header); got != want {
			t.Fatalf("credentialSubject(%q) = %q want %q", header, got, want)
		}
	}
}

func TestRouterLogsCredentialSubjectOnFailure(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123"}).
		SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	catalog := newCatalogStub()
	catalog.err = errors.New("permission denied for table tags")
	router, store := newTestRouter(catalog)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	req = req.WithContext(logging.WithLogger(req.Context(), logger))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	if store.credentials[0] != "Bearer "+signed {
		t.Fatal("expected the raw credential to reach the store")
	}
	if !strings.Contains(buf.String(), `"subject":"user-123"`) {
		t.Fatalf("expected subject on failure log, got %s", buf.String())
	}
}
