package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/service"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// parseMultipart reads a multipart body of at most maxSize bytes.
// Parts beyond constants.MultipartMemory spill to temporary files.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxSize int64) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(constants.MultipartMemory); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, utils.NewBadRequestError(constants.MsgRequestBodyTooLarge)
		}
		return nil, utils.NewBadRequestError(constants.MsgMalformedMultipart)
	}
	return r.MultipartForm, nil
}

// formValue returns the first value of field and whether it was sent at all.
func formValue(form *multipart.Form, field string) (string, bool) {
	values, ok := form.Value[field]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// openImages validates and opens every file of the images field. Each file must
// be at most constants.MaxImageSize and sniff as an allowed image type.
// The returned close function releases the open files and must always be called.
func openImages(form *multipart.Form) ([]service.ImageUpload, func(), error) {
	headers := form.File[constants.FormFieldImages]
	if len(headers) > constants.MaxImagesPerRequest {
		return nil, func() {}, utils.NewValidationError(constants.FormFieldImages, constants.MsgTooManyImages)
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			if err := f.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close uploaded file")
			}
		}
	}

	uploads := make([]service.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > constants.MaxImageSize {
			closeAll()
			return nil, func() {}, utils.NewValidationError(constants.FormFieldImages, constants.MsgImageTooLarge)
		}

		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, utils.NewBadRequestError(constants.MsgMalformedMultipart)
		}
		opened = append(opened, f)

		contentType, allowed, err := storage.DetectImageType(f)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		if !allowed {
			closeAll()
			return nil, func() {}, utils.NewValidationError(constants.FormFieldImages, constants.MsgInvalidImageType)
		}

		uploads = append(uploads, service.ImageUpload{
			FileName:    fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Body:        f,
		})
	}

	return uploads, closeAll, nil
}
