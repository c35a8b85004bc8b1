package handlers

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/liketagger/backend/internal/models"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
)

// VideoHandler serves listing and flag endpoints for saved videos.
type VideoHandler struct {
	// MaxPageSize is the largest accepted limit; zero disables the check.
	MaxPageSize int
}

// List handles GET /videos.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request, rc routeContext) error {
	query, err := h.parseQuery(r.URL.Query())
	if err != nil {
		return err
	}

	page, err := rc.Catalog.ListVideos(r.Context(), query)
	if err != nil {
		return err
	}
	respondJSON(r.Context(), w, http.StatusOK, page)
	return nil
}

// ToggleTag handles POST /videos/toggle-tag.
func (VideoHandler) ToggleTag(w http.ResponseWriter, r *http.Request, rc routeContext) error {
	var req toggleTagRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.VideoID) == "" {
		return badRequest("video_id is required")
	}
	if req.TagID == nil {
		return badRequest("tag_id is required")
	}

	action, err := rc.Catalog.ToggleTag(r.Context(), req.VideoID, *req.TagID)
	if err != nil {
		return err
	}
	respondJSON(r.Context(), w, http.StatusOK, toggleTagResponse{Action: action})
	return nil
}

// Unlike handles POST /videos/unlike.
func (VideoHandler) Unlike(w http.ResponseWriter, r *http.Request, rc routeContext) error {
	videoID, err := decodeVideoID(r)
	if err != nil {
		return err
	}
	if err := rc.Catalog.UnlikeVideo(r.Context(), videoID); err != nil {
		return err
	}
	respondJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	return nil
}

// MarkNeedsCaption handles POST /videos/caption.
func (VideoHandler) MarkNeedsCaption(w http.ResponseWriter, r *http.Request, rc routeContext) error {
	videoID, err := decodeVideoID(r)
	if err != nil {
		return err
	}
	if err := rc.Catalog.MarkNeedsCaption(r.Context(), videoID); err != nil {
		return err
	}
	respondJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	return nil
}

func (h VideoHandler) parseQuery(values url.Values) (models.VideoQuery, error) {
	page, err := positiveParam(values, "page", defaultPage)
	if err != nil {
		return models.VideoQuery{}, err
	}
	limit, err := positiveParam(values, "limit", defaultPageSize)
	if err != nil {
		return models.VideoQuery{}, err
	}
	if h.MaxPageSize > 0 && limit > h.MaxPageSize {
		return models.VideoQuery{}, badRequest(fmt.Sprintf("limit exceeds %d", h.MaxPageSize))
	}
	if page-1 > math.MaxInt32/limit {
		return models.VideoQuery{}, badRequest("invalid page")
	}

	filter := models.VideoFilter(values.Get("filter"))
	if filter == "" {
		filter = models.FilterAll
	}

	return models.VideoQuery{
		Offset: (page - 1) * limit,
		Limit:  limit,
		Filter: filter,
		Search: values.Get("search"),
	}, nil
}

func positiveParam(values url.Values, name string, fallback int) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, badRequest("invalid " + name)
	}
	return n, nil
}

func decodeVideoID(r *http.Request) (string, error) {
	var req videoRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.VideoID) == "" {
		return "", badRequest("video_id is required")
	}
	return req.VideoID, nil
}

type videoRequest struct {
	VideoID string `json:"video_id"`
}

type toggleTagRequest struct {
	VideoID string `json:"video_id"`
	TagID   *int64 `json:"tag_id"`
}

type toggleTagResponse struct {
	Action models.ToggleAction `json:"action"`
}
