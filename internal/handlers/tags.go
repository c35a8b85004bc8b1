package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/liketagger/backend/internal/models"
)

// TagHandler serves the tag endpoints.
type TagHandler struct{}

// List handles GET /tags.
func (TagHandler) List(w http.ResponseWriter, r *http.Request, rc routeContext) error {
	tags, err := rc.Catalog.ListTags(r.Context())
	if err != nil {
		return err
	}
	respondJSON(r.Context(), w, http.StatusOK, tags)
	return nil
}

// Create handles POST /tags. Missing name or keystroke are left for the store to reject.
func (TagHandler) Create(w http.ResponseWriter, r *http.Request, rc routeContext) error {
	var req createTagRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	tag := models.NewTag{Name: req.Name, Keystroke: req.Keystroke}
	if req.Color != nil {
		tag.Color = *req.Color
	}

	created, err := rc.Catalog.CreateTag(r.Context(), tag)
	if err != nil {
		return err
	}
	respondJSON(r.Context(), w, http.StatusCreated, created)
	return nil
}

// Delete handles DELETE /tags/{id}.
func (TagHandler) Delete(w http.ResponseWriter, r *http.Request, rc routeContext) error {
	segment := strings.TrimPrefix(rc.Path, "/tags/")
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil {
		return badRequest("invalid tag id")
	}

	if err := rc.Catalog.DeleteTag(r.Context(), id); err != nil {
		return err
	}
	respondJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	return nil
}

type createTagRequest struct {
	Name      *string `json:"name"`
	Keystroke *string `json:"keystroke"`
	Color     *string `json:"color"`
}
