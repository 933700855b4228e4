package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/repository"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// ImageUpload is one validated image from a multipart request.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// URLSigner turns a storage path into a client facing URL.
type URLSigner interface {
	SignedURL(relPath string) (string, error)
}

// AlbumListParams selects a page of albums for a user.
type AlbumListParams struct {
	UserID        int64
	IncludeOthers bool
	Search        string
	Pagination    utils.PaginationParams
}

// AlbumService manages albums and the files stored for them.
type AlbumService struct {
	albumRepo repository.AlbumRepository
	store     storage.Storage
	signer    URLSigner
	now       func() time.Time
}

// NewAlbumService creates a new AlbumService
func NewAlbumService(albumRepo repository.AlbumRepository, store storage.Storage, signer URLSigner) *AlbumService {
	return &AlbumService{
		albumRepo: albumRepo,
		store:     store,
		signer:    signer,
		now:       time.Now,
	}
}

// Create stores the uploaded files under a new folder and then records the album
// and its images in one transaction. If anything fails the folder is removed.
func (s *AlbumService) Create(ctx context.Context, userID int64, req *models.CreateAlbumRequest, uploads []ImageUpload) (*models.Album, error) {
	if len(uploads) == 0 {
		return nil, utils.NewValidationError(constants.FormFieldImages, constants.MsgImagesRequired)
	}

	folderName, err := newFolderName(userID)
	if err != nil {
		return nil, err
	}

	album := &models.Album{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
		FolderName:  folderName,
	}

	keys, err := s.saveImages(ctx, folderName, uploads)
	if err != nil {
		s.removeFolder(folderName)
		return nil, err
	}

	if err := s.albumRepo.Create(ctx, album, keys); err != nil {
		s.removeFolder(folderName)
		return nil, err
	}

	if err := s.signImages(album.Images); err != nil {
		return nil, err
	}
	return album, nil
}

// Get returns an album with its owner and signed image URLs.
func (s *AlbumService) Get(ctx context.Context, id int64) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if album.User != nil {
		album.User = album.User.Sanitize()
	}
	if err := s.signImages(album.Images); err != nil {
		return nil, err
	}
	return album, nil
}

// GetOwnerID returns the id of the user owning album id.
func (s *AlbumService) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	return s.albumRepo.GetOwnerID(ctx, id)
}

// List returns one page of albums with pagination metadata.
func (s *AlbumService) List(ctx context.Context, params AlbumListParams) (*models.AlbumListResult, error) {
	filter := models.AlbumFilter{
		UserID:        params.UserID,
		IncludeOthers: params.IncludeOthers,
		Search:        params.Search,
		Limit:         params.Pagination.Limit,
		Offset:        params.Pagination.Offset(),
	}

	albums, total, err := s.albumRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if albums == nil {
		albums = []models.Album{}
	}

	return &models.AlbumListResult{
		PaginatedResult: albums,
		Metadata:        utils.NewPaginationMetadata(total, params.Pagination.Limit, params.Pagination.Page),
	}, nil
}

// Update changes the album fields, removes the listed images and adds the
// uploaded ones. New files are stored before the transaction and deleted again
// if it fails; files of removed images are deleted after it commits.
func (s *AlbumService) Update(ctx context.Context, id int64, req *models.UpdateAlbumRequest, uploads []ImageUpload) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(album)

	var keys []string
	if len(uploads) > 0 {
		keys, err = s.saveImages(ctx, album.FolderName, uploads)
		if err != nil {
			s.removeFiles(keys)
			return nil, err
		}
	}

	removed, err := s.albumRepo.Update(ctx, album, req.ImagesToRemove, keys)
	if err != nil {
		s.removeFiles(keys)
		return nil, err
	}

	removedKeys := make([]string, 0, len(removed))
	for _, img := range removed {
		removedKeys = append(removedKeys, img.ImageURL)
	}
	s.removeFiles(removedKeys)

	return s.Get(ctx, id)
}

// Delete removes the album row, its image rows through the cascade and then
// the album folder. A row is never left pointing at deleted files.
func (s *AlbumService) Delete(ctx context.Context, id int64) error {
	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.albumRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.removeFolder(album.FolderName)
	return nil
}

// saveImages writes uploads concurrently and returns their keys in upload order.
// On error the returned slice holds the keys that may have been written.
func (s *AlbumService) saveImages(ctx context.Context, folder string, uploads []ImageUpload) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StorageOpTimeout)
	defer cancel()

	base := s.now().UnixNano()
	keys := make([]string, len(uploads))
	for i, upload := range uploads {
		keys[i] = storage.JoinKey(folder, fmt.Sprintf("%d-%s", base+int64(i), utils.SanitizeFileName(upload.FileName)))
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, upload := range uploads {
		g.Go(func() error {
			if err := s.store.Save(gctx, keys[i], upload.Body, upload.Size, upload.ContentType); err != nil {
				return fmt.Errorf("failed to store %s: %w", upload.FileName, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return keys, err
	}
	return keys, nil
}

func (s *AlbumService) signImages(images []models.Image) error {
	for i := range images {
		signed, err := s.signer.SignedURL(images[i].ImageURL)
		if err != nil {
			return fmt.Errorf("failed to sign image url: %w", err)
		}
		images[i].ImageURL = signed
	}
	return nil
}

// removeFolder and removeFiles are best effort cleanups. They run detached from
// the request context so a cancelled request still cleans up.
func (s *AlbumService) removeFolder(folder string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageOpTimeout)
	defer cancel()

	if err := s.store.DeletePrefix(ctx, folder); err != nil {
		log.Error().Err(err).Str("folder", folder).Msg("Failed to remove album folder")
	}
}

func (s *AlbumService) removeFiles(keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageOpTimeout)
	defer cancel()

	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("file", key).Msg("Failed to remove image file")
		}
	}
}

// newFolderName returns "<15 random hex chars>-<userID>".
func newFolderName(userID int64) (string, error) {
	random, err := utils.RandomString(constants.FolderNameRandomLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d", random, userID), nil
}
