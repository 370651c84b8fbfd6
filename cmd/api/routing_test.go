package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookmory/internal/auth"
	"bookmory/internal/catalog"
	"bookmory/internal/library"
	"bookmory/internal/platform/crypto"
	"bookmory/internal/testutil"
	"bookmory/internal/user"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "routing-secret"

type routerFixture struct {
	handler   http.Handler
	libRepo   *library.MockRepository
	users     *user.MockRepository
	blacklist *auth.MockBlacklist
	readyErr  error
}

func newFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := zap.NewNop()

	f := &routerFixture{
		libRepo:   library.NewMockRepository(ctrl),
		users:     user.NewMockRepository(ctrl),
		blacklist: auth.NewMockBlacklist(ctrl),
	}
	userService := user.NewService(f.users, log)
	libraryService := library.NewService(f.libRepo, library.NewMockBookStore(ctrl), library.NewMockVolumeFetcher(ctrl), log)

	f.handler = newRouter(routerDeps{
		log:          log,
		jwtSecret:    testSecret,
		blacklist:    f.blacklist,
		ready:        func(context.Context) error { return f.readyErr },
		corsOrigins:  []string{"http://localhost:3000"},
		maxBodyBytes: 1 << 20,
		auth:         auth.NewHTTPHandler(auth.NewService(userService, f.blacklist, testSecret, time.Hour, log)),
		users:        user.NewHTTPHandler(userService),
		catalog:      catalog.NewHTTPHandler(catalog.NewService(catalog.NewMockVolumeSource(ctrl))),
		library:      library.NewHTTPHandler(libraryService),
	})
	return f
}

func (f *routerFixture) serve(r *http.Request) testutil.RecordResponse {
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return testutil.RecordHTTPResponse(w)
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t)

	resp := f.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = f.serve(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	f.readyErr = errors.New("connection refused")
	resp = f.serve(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{
		"/api/v1/library",
		"/api/v1/library/stats",
		"/api/v1/books/search?q=dune",
		"/api/v1/users/me",
	} {
		resp := f.serve(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, resp.Code, target)
		assert.Equal(t, "UNAUTHORIZED", resp.ErrorCode(), target)
	}
}

func TestRouter_LibraryStatsWithToken(t *testing.T) {
	f := newFixture(t)
	token := testutil.GenerateTestToken(testSecret, "user-1")

	f.blacklist.EXPECT().IsBlacklisted(gomock.Any(), gomock.Any()).Return(false, nil)
	f.libRepo.EXPECT().Stats(gomock.Any(), "user-1").Return(library.StatsRow{Total: 2}, nil)

	resp := f.serve(testutil.NewRequestWithAuth(http.MethodGet, "/api/v1/library/stats", nil, token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 2, resp.Data()["total_books"])
}

func TestRouter_LibraryPathParam(t *testing.T) {
	f := newFixture(t)
	token := testutil.GenerateTestToken(testSecret, "user-1")
	bookID := "6f1c2f7e-3c1a-4b8e-9d55-8f0a4f7c1e21"

	f.blacklist.EXPECT().IsBlacklisted(gomock.Any(), gomock.Any()).Return(false, nil)
	f.libRepo.EXPECT().Delete(gomock.Any(), "user-1", bookID).Return(nil)

	resp := f.serve(testutil.NewRequestWithAuth(http.MethodDelete, "/api/v1/library/"+bookID, nil, token))
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestRouter_RevokedToken(t *testing.T) {
	f := newFixture(t)
	token := testutil.GenerateTestToken(testSecret, "user-1")

	f.blacklist.EXPECT().IsBlacklisted(gomock.Any(), gomock.Any()).Return(true, nil)

	resp := f.serve(testutil.NewRequestWithAuth(http.MethodGet, "/api/v1/library", nil, token))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRouter_AdminRoutesNeedRole(t *testing.T) {
	f := newFixture(t)
	token := testutil.GenerateTestToken(testSecret, "user-1")

	f.blacklist.EXPECT().IsBlacklisted(gomock.Any(), gomock.Any()).Return(false, nil)

	resp := f.serve(testutil.NewRequestWithAuth(http.MethodGet, "/api/v1/users", nil, token))
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", resp.ErrorCode())
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	f := newFixture(t)

	resp := f.serve(httptest.NewRequest(http.MethodGet, "/api/v2/library", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", resp.ErrorCode())

	resp = f.serve(httptest.NewRequest(http.MethodPut, "/api/v1/auth/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodOptions, "/api/v1/library", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := f.serve(r)

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func adminToken(t *testing.T) string {
	t.Helper()
	issued, err := crypto.GenerateToken(testSecret, crypto.Identity{
		UserID: "admin-1", Email: "admin@example.com", Username: "admin", Role: user.RoleAdmin,
	}, time.Hour, time.Now())
	require.NoError(t, err)
	return issued.Token
}

func TestRouter_CreateUserIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	f.blacklist.EXPECT().IsBlacklisted(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)

	body := map[string]any{"email": "mod@example.com", "username": "moderator1", "password": "Str0ng!Pass", "role": "moderator"}

	resp := f.serve(testutil.NewRequestWithAuth(http.MethodPost, "/api/v1/users", body, testutil.GenerateTestToken(testSecret, "user-1")))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	f.users.EXPECT().EmailExists(gomock.Any(), "mod@example.com").Return(false, nil)
	f.users.EXPECT().UsernameExists(gomock.Any(), "moderator1").Return(false, nil)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *user.User) error {
		u.ID = "user-9"
		return nil
	})

	resp = f.serve(testutil.NewRequestWithAuth(http.MethodPost, "/api/v1/users", body, adminToken(t)))
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "moderator", resp.Data()["role"])
}

func TestRouter_AuthValidateAndProfile(t *testing.T) {
	f := newFixture(t)
	token := testutil.GenerateTestToken(testSecret, "user-1")
	f.blacklist.EXPECT().IsBlacklisted(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)

	resp := f.serve(testutil.NewRequestWithAuth(http.MethodGet, "/api/v1/auth/validate", nil, token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, resp.Data()["valid"])

	f.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(user.User{ID: "user-1", Username: "testuser", Role: user.RoleUser}, nil)
	resp = f.serve(testutil.NewRequestWithAuth(http.MethodGet, "/api/v1/auth/profile", nil, token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "testuser", resp.Data()["username"])

	resp = f.serve(testutil.NewRequest(http.MethodGet, "/api/v1/auth/validate", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
