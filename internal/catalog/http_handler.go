package catalog

import (
	"net/http"
	"net/url"
	"strconv"

	"bookmory/internal/apperr"
	"bookmory/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func intParam(query url.Values, name string, def int) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validationf("%s must be an integer", name)
	}
	return v, nil
}

func paging(query url.Values) (maxResults, startIndex int, err error) {
	if maxResults, err = intParam(query, "maxResults", DefaultMaxResults); err != nil {
		return 0, 0, err
	}
	if startIndex, err = intParam(query, "startIndex", 0); err != nil {
		return 0, 0, err
	}
	return maxResults, startIndex, nil
}

// Search handles GET /api/v1/books/search
// @Summary Search books
// @Description Search the Google Books catalog
// @Tags books
// @Produce json
// @Param q query string true "Search query"
// @Param maxResults query int false "Maximum number of results (1-40)" default(10)
// @Param startIndex query int false "Index of the first result" default(0)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Failure 504 {object} httpx.ErrorResponse
// @Router /api/v1/books/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	maxResults, startIndex, err := paging(query)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Search(r.Context(), SearchQuery{
		Q:          query.Get("q"),
		MaxResults: maxResults,
		StartIndex: startIndex,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}

// AdvancedSearch handles GET /api/v1/books/advanced-search
// @Summary Advanced book search
// @Description Search by title, author, publisher, subject or ISBN
// @Tags books
// @Produce json
// @Param title query string false "Title"
// @Param author query string false "Author"
// @Param publisher query string false "Publisher"
// @Param subject query string false "Subject"
// @Param isbn query string false "ISBN"
// @Param maxResults query int false "Maximum number of results (1-40)" default(10)
// @Param startIndex query int false "Index of the first result" default(0)
// @Param orderBy query string false "newest or relevance"
// @Param filter query string false "ebooks, free-ebooks, full, paid-ebooks or partial"
// @Param printType query string false "all, books or magazines"
// @Param langRestrict query string false "Two letter language code"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /api/v1/books/advanced-search [get]
func (h *HTTPHandler) AdvancedSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	maxResults, startIndex, err := paging(query)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.svc.AdvancedSearch(r.Context(), AdvancedQuery{
		Title:        query.Get("title"),
		Author:       query.Get("author"),
		Publisher:    query.Get("publisher"),
		Subject:      query.Get("subject"),
		ISBN:         query.Get("isbn"),
		MaxResults:   maxResults,
		StartIndex:   startIndex,
		OrderBy:      query.Get("orderBy"),
		Filter:       query.Get("filter"),
		PrintType:    query.Get("printType"),
		LangRestrict: query.Get("langRestrict"),
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}

// GetByID handles GET /api/v1/books/{id}
// @Summary Get catalog volume
// @Tags books
// @Produce json
// @Param id path string true "Google Books volume ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /api/v1/books/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.GetVolume(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, v, nil)
}
