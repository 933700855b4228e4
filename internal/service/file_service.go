package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// ErrNoFileToken is returned by Open when the request carries no token.
var ErrNoFileToken = errors.New("no file token")

// FileService issues and redeems signed file URLs.
type FileService struct {
	tokens  auth.FileTokens
	store   storage.Storage
	baseURL string
}

// NewFileService creates a new FileService. Signed URLs point at baseURL + "/access-file".
func NewFileService(tokens auth.FileTokens, store storage.Storage, baseURL string) *FileService {
	return &FileService{
		tokens:  tokens,
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SignedURL returns a capability URL for the stored file at relPath.
func (s *FileService) SignedURL(relPath string) (string, error) {
	token, err := s.tokens.IssueFileToken(relPath)
	if err != nil {
		return "", err
	}
	return s.baseURL + constants.AccessFilePath + "?" + constants.QueryParamToken + "=" + url.QueryEscape(token), nil
}

// Open verifies token and opens the file it names.
//
// Errors:
//   - ErrNoFileToken when token is empty
//   - a 403 AppError for invalid or expired tokens and paths outside the storage root
//   - a 404 AppError when no file exists at the path
func (s *FileService) Open(ctx context.Context, token string) (*storage.Object, string, error) {
	if strings.TrimSpace(token) == "" {
		return nil, "", ErrNoFileToken
	}

	relPath, err := s.tokens.VerifyFileToken(token)
	if err != nil {
		utils.LogFileAccess("", false, err.Error())
		return nil, "", utils.NewForbiddenError(constants.MsgFileInvalidToken)
	}

	obj, err := s.store.Open(ctx, relPath)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOutsideRoot):
			utils.LogFileAccess(relPath, false, "path outside storage root")
			return nil, "", utils.NewForbiddenError(constants.MsgFileInvalidToken)
		case errors.Is(err, storage.ErrNotFound):
			utils.LogFileAccess(relPath, false, "not found")
			return nil, "", utils.NewNotFoundError(constants.MsgFileNotFound)
		default:
			return nil, "", err
		}
	}

	utils.LogFileAccess(relPath, true, "")
	return obj, relPath, nil
}
