package library

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookmory/internal/httpx"
	"bookmory/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBookID = "6f1c2f7e-3c1a-4b8e-9d55-8f0a4f7c1e21"

func newTestHandler(t *testing.T) (*HTTPHandler, *MockRepository, *MockBookStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	books := NewMockBookStore(ctrl)
	svc := NewService(repo, books, NewMockVolumeFetcher(ctrl), zap.NewNop())
	return NewHTTPHandler(svc), repo, books
}

func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(httpx.ContextWithIdentity(r.Context(), httpx.Identity{ID: userID, Username: "reader"}))
}

func TestHTTPHandler_RequiresIdentity(t *testing.T) {
	h, _, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.Stats(w, testutil.NewRequest(http.MethodGet, "/api/v1/library/stats", nil))

	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.ErrorCode())
}

func TestHTTPHandler_Add(t *testing.T) {
	h, repo, books := newTestHandler(t)

	t.Run("created", func(t *testing.T) {
		b := duneBook(412)
		books.EXPECT().GetByExternalID(gomock.Any(), b.ExternalID).Return(b, nil)
		repo.EXPECT().Exists(gomock.Any(), "user-1", b.ID).Return(false, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ub UserBook) (UserBook, error) {
			ub.ID = "ub-1"
			return ub, nil
		})

		w := httptest.NewRecorder()
		r := withUser(testutil.NewRequest(http.MethodPost, "/api/v1/library", map[string]any{
			"external_id": b.ExternalID,
			"status":      "READING",
		}), "user-1")
		h.Add(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusCreated, resp.Code)
		data := resp.Data()
		assert.Equal(t, "ub-1", data["id"])
		assert.Equal(t, "READING", data["status"])
		assert.EqualValues(t, 0, data["progress_percentage"])
		assert.NotNil(t, data["started_at"])
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := withUser(testutil.NewRequest(http.MethodPost, "/api/v1/library", map[string]any{
			"external_id": "abc",
			"status":      "reading",
		}), "user-1")
		h.Add(w, r)

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "VALIDATION_ERROR", resp.ErrorCode())
	})

	t.Run("missing external id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Add(w, withUser(testutil.NewRequest(http.MethodPost, "/api/v1/library", map[string]any{}), "user-1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("already in library", func(t *testing.T) {
		b := duneBook(412)
		books.EXPECT().GetByExternalID(gomock.Any(), b.ExternalID).Return(b, nil)
		repo.EXPECT().Exists(gomock.Any(), "user-1", b.ID).Return(true, nil)

		w := httptest.NewRecorder()
		h.Add(w, withUser(testutil.NewRequest(http.MethodPost, "/api/v1/library", map[string]any{"external_id": b.ExternalID}), "user-1"))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Equal(t, "CONFLICT", resp.ErrorCode())
	})
}

func TestHTTPHandler_UpdateProgress(t *testing.T) {
	h, repo, _ := newTestHandler(t)

	t.Run("finishes on last page", func(t *testing.T) {
		cur := UserBook{ID: "ub-1", UserID: "user-1", BookID: testBookID, Status: StatusReading, CurrentPage: 10, Book: duneBook(200)}
		repo.EXPECT().Get(gomock.Any(), "user-1", testBookID).Return(cur, nil)
		repo.EXPECT().UpdateProgress(gomock.Any(), "ub-1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, p Progress) (UserBook, error) {
			out := cur
			out.Status, out.CurrentPage, out.FinishedAt = p.Status, p.CurrentPage, p.FinishedAt
			return out, nil
		})

		w := httptest.NewRecorder()
		r := withUser(testutil.NewRequest(http.MethodPatch, "/api/v1/library/"+testBookID+"/progress", map[string]any{"current_page": 200}), "user-1")
		r.SetPathValue("bookId", testBookID)
		h.UpdateProgress(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "FINISHED", resp.Data()["status"])
		assert.EqualValues(t, 100, resp.Data()["progress_percentage"])
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := withUser(testutil.NewRequest(http.MethodPatch, "/", map[string]any{"currentPage": 3}), "user-1")
		r.SetPathValue("bookId", testBookID)
		h.UpdateProgress(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rating out of range", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := withUser(testutil.NewRequest(http.MethodPatch, "/", map[string]any{"rating": 9}), "user-1")
		r.SetPathValue("bookId", testBookID)
		h.UpdateProgress(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed book id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := withUser(testutil.NewRequest(http.MethodPatch, "/", map[string]any{"current_page": 3}), "user-1")
		r.SetPathValue("bookId", "not-a-uuid")
		h.UpdateProgress(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_GetAndRemove(t *testing.T) {
	h, repo, _ := newTestHandler(t)

	repo.EXPECT().Delete(gomock.Any(), "user-1", testBookID).Return(nil)
	repo.EXPECT().Get(gomock.Any(), "user-1", testBookID).Return(UserBook{}, ErrNotFound)

	w := httptest.NewRecorder()
	r := withUser(testutil.NewRequest(http.MethodDelete, "/", nil), "user-1")
	r.SetPathValue("bookId", testBookID)
	h.Remove(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = httptest.NewRecorder()
	r = withUser(testutil.NewRequest(http.MethodGet, "/", nil), "user-1")
	r.SetPathValue("bookId", testBookID)
	h.Get(w, r)

	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", resp.ErrorCode())
}

func TestHTTPHandler_List(t *testing.T) {
	h, repo, _ := newTestHandler(t)

	t.Run("filters reach the repository", func(t *testing.T) {
		fav := true
		finished := StatusFinished
		repo.EXPECT().List(gomock.Any(), "user-1", ListQuery{Status: &finished, IsFavorite: &fav, Page: 2, Limit: 5}).
			Return([]UserBook{{ID: "ub-9", Status: StatusFinished, Book: duneBook(100)}}, 6, nil)

		w := httptest.NewRecorder()
		h.List(w, withUser(testutil.NewRequest(http.MethodGet, "/api/v1/library?status=FINISHED&is_favorite=true&page=2&limit=5", nil), "user-1"))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Data()
		assert.EqualValues(t, 6, data["total"])
		assert.EqualValues(t, 2, data["total_pages"])
		assert.Len(t, data["books"], 1)
	})

	t.Run("bad status filter", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.List(w, withUser(testutil.NewRequest(http.MethodGet, "/api/v1/library?status=DONE", nil), "user-1"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad favorite filter", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.List(w, withUser(testutil.NewRequest(http.MethodGet, "/api/v1/library?is_favorite=maybe", nil), "user-1"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	for _, raw := range []string{"page=abc", "limit=ten", "page=1.5"} {
		t.Run("non numeric "+raw, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.List(w, withUser(testutil.NewRequest(http.MethodGet, "/api/v1/library?"+raw, nil), "user-1"))
			rr := testutil.RecordHTTPResponse(w)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "VALIDATION_ERROR", rr.ErrorCode())
		})
	}
}

func TestHTTPHandler_Stats(t *testing.T) {
	h, repo, _ := newTestHandler(t)
	repo.EXPECT().Stats(gomock.Any(), "user-1").Return(StatsRow{}, nil)

	w := httptest.NewRecorder()
	h.Stats(w, withUser(testutil.NewRequest(http.MethodGet, "/api/v1/library/stats", nil), "user-1"))

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 0, resp.Data()["total_books"])
	assert.EqualValues(t, 0, resp.Data()["average_rating"])
	assert.Contains(t, resp.Data(), "did_not_finish")
}
