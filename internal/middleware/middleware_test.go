package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/middleware"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils/ratelimit"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
		Status  bool   `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body.Message
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestRecovery(t *testing.T) {
	logs := captureLogs(t)

	t.Run("no panic", func(t *testing.T) {
		rr := httptest.NewRecorder()
		middleware.Recovery()(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
	})

	for name, value := range map[string]any{
		"panic with error":  errors.New("test error"),
		"panic with string": "test panic",
	} {
		t.Run(name, func(t *testing.T) {
			logs.Reset()
			h := middleware.Recovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic(value)
			}))
			req := httptest.NewRequest(http.MethodGet, "/albums", nil)
			req = req.WithContext(auth.WithRequestID(req.Context(), "test-request-id"))
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Equal(t, constants.MsgInternalServerError, errorMessage(t, rr))
			assert.NotContains(t, rr.Body.String(), "test")
			assert.Contains(t, logs.String(), "test-request-id")
		})
	}

	t.Run("abort handler is re-raised", func(t *testing.T) {
		h := middleware.Recovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	middleware.SecurityHeaders()(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rr.Header().Get(constants.HeaderXContentTypeOptions))
	assert.Equal(t, "DENY", rr.Header().Get(constants.HeaderXFrameOptions))
	assert.Equal(t, "no-referrer", rr.Header().Get(constants.HeaderReferrerPolicy))
}

func TestRateLimit(t *testing.T) {
	captureLogs(t)
	store := ratelimit.NewStore(ratelimit.Rate{RequestsPerMinute: 60, Burst: 100}, time.Minute)
	store.SetRate(constants.RateCategoryAuth, ratelimit.Rate{RequestsPerMinute: 1, Burst: 2})
	h := middleware.RateLimit(store, constants.RateCategoryAuth)(okHandler)

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2000").Code)

	rr := send("10.0.0.1:3000")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, constants.MsgRateLimitExceeded, errorMessage(t, rr))
	assert.NotEmpty(t, rr.Header().Get(constants.HeaderRetryAfter))

	// Other clients keep their own bucket
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code)
}

type ownerLookup map[int64]int64

func (o ownerLookup) GetOwnerID(_ context.Context, id int64) (int64, error) {
	if id == 99 {
		return 0, errors.New("database gone")
	}
	owner, ok := o[id]
	if !ok {
		return 0, utils.NewNotFoundError(constants.MsgAlbumNotFound)
	}
	return owner, nil
}

func TestAlbumOwner(t *testing.T) {
	captureLogs(t)
	r := chi.NewRouter()
	r.With(middleware.AlbumOwner(ownerLookup{1: 10, 2: 20}, constants.ParamAlbumID)).
		Put("/albums/{albumId}", okHandler)

	tests := []struct {
		name    string
		path    string
		userID  int64
		status  int
		message string
	}{
		{"owner", "/albums/1", 10, http.StatusOK, ""},
		{"other user", "/albums/2", 10, http.StatusForbidden, constants.MsgAlbumAccessDenied},
		{"missing album", "/albums/3", 10, http.StatusNotFound, constants.MsgAlbumNotFound},
		{"non-numeric id", "/albums/abc", 10, http.StatusNotFound, constants.MsgAlbumNotFound},
		{"lookup failure", "/albums/99", 10, http.StatusInternalServerError, constants.MsgInternalServerError},
		{"anonymous", "/albums/1", 0, http.StatusUnauthorized, constants.MsgAuthenticationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, tt.path, nil)
			if tt.userID != 0 {
				req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{ID: tt.userID}))
			}
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, errorMessage(t, rr))
			}
		})
	}
}

func TestRequestContextAndLogger(t *testing.T) {
	logs := captureLogs(t)
	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prevLevel) })

	var seen string
	h := chimiddleware.RequestID(
		middleware.RequestContext()(
			middleware.RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = auth.GetRequestID(r)
				w.WriteHeader(http.StatusTeapot)
			})),
		),
	)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/albums", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(constants.HeaderXRequestID))
	assert.Contains(t, logs.String(), seen)
	assert.Contains(t, logs.String(), "418")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(reg, "photoalbum")

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/albums/{albumId}", okHandler)

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/albums/"+id, nil))
	}

	count, err := testutil.GatherAndCount(reg, "photoalbum_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "ids must collapse into one route label")

	problems, err := testutil.GatherAndLint(reg)
	require.NoError(t, err)
	assert.Empty(t, problems)
}
