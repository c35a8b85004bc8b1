package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestRouter(catalog *catalogStub) (*Router, *storeStub) {
	store := &storeStub{catalog: catalog}
	return NewRouter(Dependencies{Store: store, MaxPageSize: 100}), store
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected allow-origin * got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
		t.Fatalf("unexpected allow-headers %q", got)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error
}

func TestRouterPreflight(t *testing.T) {
	router, store := newTestRouter(newCatalogStub())

	for _, target := range []string{"/api/tags", "/api/anything/at/all", "/"} {
		rec := serve(t, router, http.MethodOptions, target, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", target, rec.Code)
		}
		if rec.Body.String() != "ok" {
			t.Fatalf("%s: expected body ok got %q", target, rec.Body.String())
		}
		if got := rec.Header().Get("Content-Type"); got != "" {
			t.Fatalf("%s: expected no content type got %q", target, got)
		}
		assertCORS(t, rec)
	}

	if len(store.credentials) != 0 {
		t.Fatal("preflight must not reach the store")
	}
}

func TestRouterNotFound(t *testing.T) {
	router, _ := newTestRouter(newCatalogStub())

	cases := []struct{ method, target string }{
		{http.MethodGet, "/api/unknown"},
		{http.MethodPut, "/api/tags"},
		{http.MethodGet, "/api/tags/1"},
		{http.MethodDelete, "/api/tags"},
		{http.MethodGet, "/api"},
	}
	for _, tc := range cases {
		rec := serve(t, router, tc.method, tc.target, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404 got %d", tc.method, tc.target, rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "application/json" {
			t.Fatalf("expected json content type got %q", got)
		}
		assertCORS(t, rec)
		if msg := decodeError(t, rec); msg != "Not Found" {
			t.Fatalf("unexpected error message %q", msg)
		}
	}
}

func TestRouterStripsBasePathOnlyAsPrefix(t *testing.T) {
	router, _ := newTestRouter(newCatalogStub())

	if rec := serve(t, router, http.MethodGet, "/tags", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected unprefixed path to route, got %d", rec.Code)
	}
	if rec := serve(t, router, http.MethodGet, "/apitags", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected /apitags to miss, got %d", rec.Code)
	}
}

func TestRouterForwardsCredential(t *testing.T) {
	router, store := newTestRouter(newCatalogStub())

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(store.credentials) != 1 || store.credentials[0] != "Bearer not-a-jwt" {
		t.Fatalf("expected credential to be forwarded verbatim, got %v", store.credentials)
	}
}

func TestRouterStoreErrorBecomesServerError(t *testing.T) {
	catalog := newCatalogStub()
	catalog.err = errors.New("list tags: relation \"tags\" does not exist")
	router, _ := newTestRouter(catalog)

	rec := serve(t, router, http.MethodGet, "/api/tags", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	assertCORS(t, rec)
	if msg := decodeError(t, rec); msg != catalog.err.Error() {
		t.Fatalf("expected raw store message, got %q", msg)
	}
}

func TestRouterWithoutStore(t *testing.T) {
	router := NewRouter(Dependencies{})

	rec := serve(t, router, http.MethodGet, "/api/tags", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}

func TestRouterRateLimit(t *testing.T) {
	limiter := &limiterStub{allow: false}
	router := NewRouter(Dependencies{Store: &storeStub{catalog: newCatalogStub()}, Limiter: limiter})

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	req.RemoteAddr = "203.0.113.9:5000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	assertCORS(t, rec)
	if len(limiter.keys) != 1 || limiter.keys[0] != "api:203.0.113.9" {
		t.Fatalf("unexpected limiter keys %v", limiter.keys)
	}

	rec = serve(t, router, http.MethodOptions, "/api/tags", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected preflight to bypass the limiter, got %d", rec.Code)
	}
}

func TestRegisterRoutesMountsHealth(t *testing.T) {
	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{Store: &storeStub{catalog: newCatalogStub()}})

	rec := serve(t, mux, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected health 200 got %d", rec.Code)
	}

	rec = serve(t, mux, http.MethodGet, "/api/tags", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected api route 200 got %d", rec.Code)
	}
}

func TestRouteTableOrder(t *testing.T) {
	router, _ := newTestRouter(newCatalogStub())

	matched, ok := router.match(http.MethodDelete, "/tags/7")
	if !ok || !matched.prefix {
		t.Fatal("expected delete to resolve to the prefix route")
	}
	if _, ok := router.match(http.MethodPost, "/videos/toggle-tag/extra"); ok {
		t.Fatal("exact routes must not match longer paths")
	}
}

func jsonBody(t *testing.T, v any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	return buf.String()
}
