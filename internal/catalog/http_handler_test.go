package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookmory/internal/apperr"
	"bookmory/internal/platform/googlebooks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPHandler_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSource := NewMockVolumeSource(ctrl)
	handler := NewHTTPHandler(NewService(mockSource))

	t.Run("success", func(t *testing.T) {
		mockSource.EXPECT().Search(gomock.Any(), gomock.Any()).Return(&googlebooks.SearchResponse{
			TotalItems: 1,
			Items:      []googlebooks.Volume{{ID: "X123", VolumeInfo: googlebooks.VolumeInfo{Title: "Dune"}}},
		}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/books/search?q=dune&maxResults=5", nil)
		handler.Search(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data SearchResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Data.TotalItems)
		assert.Equal(t, "X123", body.Data.Items[0].ID)
	})

	t.Run("missing query", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/books/search", nil)
		handler.Search(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non numeric paging", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/books/search?q=dune&maxResults=ten", nil)
		handler.Search(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("catalog timeout", func(t *testing.T) {
		mockSource.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, apperr.ErrTimeout)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/books/search?q=dune", nil)
		handler.Search(w, r)

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})
}

func TestHTTPHandler_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSource := NewMockVolumeSource(ctrl)
	handler := NewHTTPHandler(NewService(mockSource))

	t.Run("success", func(t *testing.T) {
		mockSource.EXPECT().GetVolume(gomock.Any(), "X123").Return(&googlebooks.Volume{ID: "X123"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/books/X123", nil)
		r.SetPathValue("id", "X123")
		handler.GetByID(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSource.EXPECT().GetVolume(gomock.Any(), "nope").Return(nil, apperr.NotFound("Book not found in catalog"))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/books/nope", nil)
		r.SetPathValue("id", "nope")
		handler.GetByID(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_AdvancedSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSource := NewMockVolumeSource(ctrl)
	handler := NewHTTPHandler(NewService(mockSource))

	mockSource.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p googlebooks.SearchParams) (*googlebooks.SearchResponse, error) {
			assert.Equal(t, `intitle:"Dune" inauthor:"Herbert"`, p.Query)
			assert.Equal(t, "newest", p.OrderBy)
			return &googlebooks.SearchResponse{}, nil
		})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/books/advanced-search?title=Dune&author=Herbert&orderBy=newest", nil)
	handler.AdvancedSearch(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}
