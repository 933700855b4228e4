package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }

func TestFileHandler_AccessFile(t *testing.T) {
	modTime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("missing token", func(t *testing.T) {
		svc := &MockFileService{OpenFunc: func(context.Context, string) (*storage.Object, string, error) {
			t.Fatal("service must not be called")
			return nil, "", nil
		}}
		h := NewFileHandler(svc, 0)
		rr := httptest.NewRecorder()

		h.AccessFile(rr, httptest.NewRequest(http.MethodGet, "/access-file", nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, constants.MsgFileNoToken, decodeEnvelope(t, rr).Message)
		assert.Zero(t, svc.calls)
	})

	t.Run("invalid token", func(t *testing.T) {
		h := NewFileHandler(&MockFileService{OpenFunc: func(context.Context, string) (*storage.Object, string, error) {
			return nil, "", utils.NewForbiddenError(constants.MsgFileInvalidToken)
		}}, 0)
		rr := httptest.NewRecorder()

		h.AccessFile(rr, httptest.NewRequest(http.MethodGet, "/access-file?token=bad", nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, constants.MsgFileInvalidToken, decodeEnvelope(t, rr).Message)
	})

	t.Run("file not found", func(t *testing.T) {
		h := NewFileHandler(&MockFileService{OpenFunc: func(context.Context, string) (*storage.Object, string, error) {
			return nil, "", utils.NewNotFoundError(constants.MsgFileNotFound)
		}}, 0)
		rr := httptest.NewRecorder()

		h.AccessFile(rr, httptest.NewRequest(http.MethodGet, "/access-file?token=ok", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, constants.MsgFileNotFound, decodeEnvelope(t, rr).Message)
	})

	t.Run("serves seekable file with detected type", func(t *testing.T) {
		var gotToken string
		h := NewFileHandler(&MockFileService{OpenFunc: func(_ context.Context, token string) (*storage.Object, string, error) {
			gotToken = token
			return &storage.Object{
				ReadCloser: nopSeekCloser{bytes.NewReader(pngBytes)},
				Size:       int64(len(pngBytes)),
				ModTime:    modTime,
			}, "abc-1/1-photo.png", nil
		}}, 0)
		rr := httptest.NewRecorder()

		h.AccessFile(rr, httptest.NewRequest(http.MethodGet, "/access-file?token=a%2Bb", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "a+b", gotToken)
		assert.Equal(t, "image/png", rr.Header().Get(constants.HeaderContentType))
		assert.Equal(t, constants.CacheControlPrivateFile, rr.Header().Get(constants.HeaderCacheControl))
		assert.Equal(t, "nosniff", rr.Header().Get(constants.HeaderXContentTypeOptions))
		assert.Equal(t, pngBytes, rr.Body.Bytes())
	})

	t.Run("honours range requests", func(t *testing.T) {
		h := NewFileHandler(&MockFileService{OpenFunc: func(context.Context, string) (*storage.Object, string, error) {
			return &storage.Object{
				ReadCloser:  nopSeekCloser{bytes.NewReader(pngBytes)},
				Size:        int64(len(pngBytes)),
				ModTime:     modTime,
				ContentType: "image/png",
			}, "abc-1/1-photo.png", nil
		}}, 0)
		req := httptest.NewRequest(http.MethodGet, "/access-file?token=ok", nil)
		req.Header.Set("Range", "bytes=0-3")
		rr := httptest.NewRecorder()

		h.AccessFile(rr, req)

		assert.Equal(t, http.StatusPartialContent, rr.Code)
		assert.Equal(t, pngBytes[:4], rr.Body.Bytes())
	})

	t.Run("streams non-seekable body", func(t *testing.T) {
		h := NewFileHandler(&MockFileService{OpenFunc: func(context.Context, string) (*storage.Object, string, error) {
			return &storage.Object{
				ReadCloser:  io.NopCloser(bytes.NewReader([]byte("plain body"))),
				Size:        10,
				ContentType: "image/jpeg",
			}, "abc-1/1-photo.jpg", nil
		}}, 0)
		rr := httptest.NewRecorder()

		h.AccessFile(rr, httptest.NewRequest(http.MethodGet, "/access-file?token=ok", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image/jpeg", rr.Header().Get(constants.HeaderContentType))
		assert.Equal(t, "10", rr.Header().Get(constants.HeaderContentLength))
		assert.Equal(t, "plain body", rr.Body.String())
	})
}
