package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/service"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// FileHandler serves files behind signed URLs. The token in the query string
// is the only credential; no session is required.
type FileHandler struct {
	fileService   FileServiceInterface
	streamTimeout time.Duration
}

// NewFileHandler creates a new FileHandler. streamTimeout bounds how long one
// response may take to write; zero uses the default.
func NewFileHandler(fileService FileServiceInterface, streamTimeout time.Duration) *FileHandler {
	if streamTimeout <= 0 {
		streamTimeout = constants.DefaultFileStreamTimeout
	}
	return &FileHandler{
		fileService:   fileService,
		streamTimeout: streamTimeout,
	}
}

// AccessFile handles GET /access-file?token=
func (h *FileHandler) AccessFile(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(constants.QueryParamToken)
	if token == "" {
		utils.Forbidden(w, constants.MsgFileNoToken)
		return
	}

	obj, filePath, err := h.fileService.Open(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrNoFileToken) {
			utils.Forbidden(w, constants.MsgFileNoToken)
			return
		}
		utils.ErrorFromAppError(w, err)
		return
	}
	defer obj.Close()

	// A slow client must not hold the connection past the stream timeout
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Now().Add(h.streamTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Debug().Err(err).Msg("Failed to set write deadline")
	}

	seeker, seekable := obj.ReadCloser.(io.ReadSeeker)

	contentType := obj.ContentType
	if contentType == "" && seekable {
		if detected, err := storage.DetectContentType(seeker); err == nil {
			contentType = detected
		}
	}
	if contentType == "" {
		contentType = constants.ContentTypeOctetStream
	}

	w.Header().Set(constants.HeaderContentType, contentType)
	w.Header().Set(constants.HeaderCacheControl, constants.CacheControlPrivateFile)
	w.Header().Set(constants.HeaderXContentTypeOptions, "nosniff")

	if seekable {
		http.ServeContent(w, r, path.Base(filePath), obj.ModTime, seeker)
		return
	}

	if obj.Size > 0 {
		w.Header().Set(constants.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj); err != nil {
		log.Warn().Err(err).Str("file", filePath).Msg("File stream interrupted")
	}
}
