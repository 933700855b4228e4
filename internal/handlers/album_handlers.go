package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/service"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// AlbumHandler handles album routes. Every route requires an authenticated user.
type AlbumHandler struct {
	albumService  AlbumServiceInterface
	maxUploadSize int64
}

// NewAlbumHandler creates a new AlbumHandler.
// maxUploadSize bounds a whole multipart request; zero uses the default.
func NewAlbumHandler(albumService AlbumServiceInterface, maxUploadSize int64) *AlbumHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSize
	}
	return &AlbumHandler{
		albumService:  albumService,
		maxUploadSize: maxUploadSize,
	}
}

// CreateAlbum handles POST /albums
func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthenticationFailed)
		return
	}

	form, err := parseMultipart(w, r, h.maxUploadSize)
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}
	defer form.RemoveAll()

	title, _ := formValue(form, constants.FormFieldTitle)
	description, _ := formValue(form, constants.FormFieldDescription)
	req := models.CreateAlbumRequest{
		Title:       strings.TrimSpace(title),
		Description: description,
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	uploads, closeUploads, err := openImages(form)
	defer closeUploads()
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	album, err := h.albumService.Create(r.Context(), userID, &req, uploads)
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, constants.MsgAlbumCreated, album)
}

// ListAlbums handles GET /albums
func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthenticationFailed)
		return
	}

	pagination, err := utils.GetPaginationParams(r)
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	query := r.URL.Query()
	result, err := h.albumService.List(r.Context(), service.AlbumListParams{
		UserID:        userID,
		IncludeOthers: query.Get(constants.QueryParamIncludeOthers) == "true",
		Search:        strings.TrimSpace(query.Get(constants.QueryParamSearch)),
		Pagination:    pagination,
	})
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// GetAlbum handles GET /albums/{albumId}
func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumIDParam(w, r)
	if !ok {
		return
	}

	album, err := h.albumService.Get(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, album)
}

// UpdateAlbum handles PUT /albums/{albumId}. Ownership is checked by middleware.
func (h *AlbumHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumIDParam(w, r)
	if !ok {
		return
	}

	form, err := parseMultipart(w, r, h.maxUploadSize)
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}
	defer form.RemoveAll()

	var req models.UpdateAlbumRequest
	if title, ok := formValue(form, constants.FormFieldTitle); ok {
		title = strings.TrimSpace(title)
		req.Title = &title
	}
	if description, ok := formValue(form, constants.FormFieldDescription); ok {
		req.Description = &description
	}
	req.ImagesToRemove, err = utils.ParseIDList(form.Value[constants.FormFieldImagesToRemove])
	if err != nil {
		utils.ErrorFromAppError(w, utils.NewValidationError(constants.FormFieldImagesToRemove, constants.MsgInvalidImagesToRemove))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	uploads, closeUploads, err := openImages(form)
	defer closeUploads()
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	album, err := h.albumService.Update(r.Context(), id, &req, uploads)
	if err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, constants.MsgAlbumUpdated, album)
}

// DeleteAlbum handles DELETE /albums/{albumId}. Ownership is checked by middleware.
func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumIDParam(w, r)
	if !ok {
		return
	}

	if err := h.albumService.Delete(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, constants.MsgAlbumDeleted, true)
}

// albumIDParam parses the album id path parameter. Ids that are not positive
// integers cannot name an album and answer 404.
func albumIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := utils.ParseID(chi.URLParam(r, constants.ParamAlbumID))
	if err != nil {
		utils.NotFound(w, constants.MsgAlbumNotFound)
		return 0, false
	}
	return id, true
}
