package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/liketagger/backend/internal/logging"
	"github.com/liketagger/backend/internal/repositories"
)

// basePath is removed from incoming paths before matching.
const basePath = "/api"

const (
	corsAllowOrigin  = "*"
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
)

var notFound = errorResponse{Error: "Not Found"}

// routeContext carries what a route needs beyond the raw request.
type routeContext struct {
	Catalog repositories.Catalog
	// Path is the request path with the base path removed.
	Path string
}

type routeFunc func(w http.ResponseWriter, r *http.Request, rc routeContext) error

type route struct {
	method string
	path   string
	// prefix routes match any path that starts with path.
	prefix bool
	handle routeFunc
}

func (rt route) matches(method, path string) bool {
	if rt.method != method {
		return false
	}
	if rt.prefix {
		return strings.HasPrefix(path, rt.path)
	}
	return path == rt.path
}

// Router dispatches API requests through an ordered route table; the first
// matching entry wins.
type Router struct {
	store   Store
	limiter RateLimiter
	routes  []route
}

// NewRouter builds the API gateway handler.
func NewRouter(deps Dependencies) *Router {
	tags := TagHandler{}
	videos := VideoHandler{MaxPageSize: deps.MaxPageSize}

	return &Router{
		store:   deps.Store,
		limiter: deps.Limiter,
		routes: []route{
			{method: http.MethodGet, path: "/tags", handle: tags.List},
			{method: http.MethodPost, path: "/tags", handle: tags.Create},
			{method: http.MethodDelete, path: "/tags/", prefix: true, handle: tags.Delete},
			{method: http.MethodGet, path: "/videos", handle: videos.List},
			{method: http.MethodPost, path: "/videos/toggle-tag", handle: videos.ToggleTag},
			{method: http.MethodPost, path: "/videos/unlike", handle: videos.Unlike},
			{method: http.MethodPost, path: "/videos/caption", handle: videos.MarkNeedsCaption},
		},
	}
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	header := w.Header()
	header.Set("Access-Control-Allow-Origin", corsAllowOrigin)
	header.Set("Access-Control-Allow-Headers", corsAllowHeaders)

	if r.Method == http.MethodOptions {
		// A nil entry stops net/http from sniffing a content type.
		header["Content-Type"] = nil
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
		return
	}

	ctx := r.Context()

	if !allowRequest(rt.limiter, r, "api") {
		respondJSON(ctx, w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		return
	}

	path := stripBasePath(r.URL.Path)
	matched, ok := rt.match(r.Method, path)
	if !ok {
		respondJSON(ctx, w, http.StatusNotFound, notFound)
		return
	}

	if rt.store == nil {
		logging.FromContext(ctx).Error("data store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "data store unavailable"})
		return
	}

	credential := r.Header.Get("Authorization")
	if subject := credentialSubject(credential); subject != "" {
		ctx = logging.WithSubject(ctx, subject)
		r = r.WithContext(ctx)
	}

	rc := routeContext{
		Catalog: rt.store.Scope(credential),
		Path:    path,
	}
	if err := matched.handle(w, r, rc); err != nil {
		respondError(ctx, w, err)
	}
}

func (rt *Router) match(method, path string) (route, bool) {
	for _, candidate := range rt.routes {
		if candidate.matches(method, path) {
			return candidate, true
		}
	}
	return route{}, false
}

func stripBasePath(path string) string {
	if path == basePath {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, basePath+"/"); ok {
		return "/" + rest
	}
	return path
}
