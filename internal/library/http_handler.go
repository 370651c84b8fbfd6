package library

import (
	"net/http"
	"strconv"

	"bookmory/internal/apperr"
	"bookmory/internal/httpx"

	"github.com/google/uuid"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type addReq struct {
	ExternalID string  `json:"external_id" validate:"required,max=64"`
	Status     *string `json:"status"`
	IsFavorite *bool   `json:"is_favorite"`
}

type progressReq struct {
	CurrentPage *int    `json:"current_page" validate:"omitempty,gte=0"`
	Status      *string `json:"status"`
	Rating      *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Review      *string `json:"review" validate:"omitempty,max=5000"`
	IsFavorite  *bool   `json:"is_favorite"`
}

func parseOptionalStatus(s *string) (*ReadingStatus, error) {
	if s == nil {
		return nil, nil
	}
	st, err := ParseStatus(*s)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func bookIDParam(r *http.Request) (string, error) {
	id := r.PathValue("bookId")
	if err := uuid.Validate(id); err != nil {
		return "", apperr.Validation("Invalid book ID").WithFields(apperr.FieldError{
			Field: "bookId", Message: "bookId must be a UUID",
		})
	}
	return id, nil
}

// Add handles POST /api/v1/library
// @Summary Add a book to the library
// @Description Materializes the catalog volume locally on first use and adds it to the caller's library
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body addReq true "Catalog volume to add"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Failure 504 {object} httpx.ErrorResponse
// @Router /api/v1/library [post]
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireIdentity(w, r)
	if !ok {
		return
	}

	var req addReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := httpx.ValidateStruct(req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	status, err := parseOptionalStatus(req.Status)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	view, err := h.service.Add(r.Context(), id.ID, AddCommand{
		ExternalID: req.ExternalID,
		Status:     status,
		IsFavorite: req.IsFavorite,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, view)
}

// List handles GET /api/v1/library
// @Summary List the caller's library
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param status query string false "WANT_TO_READ, READING, FINISHED, PAUSED or DNF"
// @Param is_favorite query bool false "Only favorites (true) or non favorites (false)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/v1/library [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireIdentity(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()

	var q ListQuery
	if raw := query.Get("status"); raw != "" {
		st, err := ParseStatus(raw)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		q.Status = &st
	}
	if raw := query.Get("is_favorite"); raw != "" {
		fav, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.WriteError(w, r, apperr.Validation("is_favorite must be true or false"))
			return
		}
		q.IsFavorite = &fav
	}
	var err error
	if q.Page, err = httpx.QueryInt(r, "page"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if q.Limit, err = httpx.QueryInt(r, "limit"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	page, err := h.service.List(r.Context(), id.ID, q)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, page, nil)
}

// Stats handles GET /api/v1/library/stats
// @Summary Library statistics
// @Tags library
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/v1/library/stats [get]
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireIdentity(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Stats(r.Context(), id.ID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, stats, nil)
}

// Get handles GET /api/v1/library/{bookId}
// @Summary Get a library entry
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param bookId path string true "Local book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/v1/library/{bookId} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireIdentity(w, r)
	if !ok {
		return
	}
	bookID, err := bookIDParam(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	view, err := h.service.Get(r.Context(), id.ID, bookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, view, nil)
}

// UpdateProgress handles PATCH /api/v1/library/{bookId}/progress
// @Summary Update reading progress
// @Description Fields left out of the body are not changed
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bookId path string true "Local book ID"
// @Param body body progressReq true "Progress update"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/v1/library/{bookId}/progress [patch]
func (h *HTTPHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireIdentity(w, r)
	if !ok {
		return
	}
	bookID, err := bookIDParam(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var req progressReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := httpx.ValidateStruct(req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	status, err := parseOptionalStatus(req.Status)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	view, err := h.service.UpdateProgress(r.Context(), id.ID, bookID, ProgressUpdate{
		CurrentPage: req.CurrentPage,
		Status:      status,
		Rating:      req.Rating,
		Review:      req.Review,
		IsFavorite:  req.IsFavorite,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, view, nil)
}

// Remove handles DELETE /api/v1/library/{bookId}
// @Summary Remove a book from the library
// @Description Deletes the membership only; the shared book record is kept
// @Tags library
// @Security BearerAuth
// @Param bookId path string true "Local book ID"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/v1/library/{bookId} [delete]
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.RequireIdentity(w, r)
	if !ok {
		return
	}
	bookID, err := bookIDParam(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.service.Remove(r.Context(), id.ID, bookID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
