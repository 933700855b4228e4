package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

var folderPattern = regexp.MustCompile(`^[0-9a-f]{15}-42$`)

type albumFixture struct {
	svc   *AlbumService
	repo  *mockAlbumRepo
	store *storage.Local
	flaky *flakyStore
}

func newAlbumFixture(t *testing.T) *albumFixture {
	t.Helper()
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	f := &albumFixture{repo: new(mockAlbumRepo), store: store, flaky: &flakyStore{Storage: store}}
	f.svc = NewAlbumService(f.repo, f.flaky, prefixSigner{})
	f.svc.now = func() time.Time { return time.Unix(0, 1000) }
	return f
}

func (f *albumFixture) folders(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.store.Root())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func uploads(names ...string) []ImageUpload {
	out := make([]ImageUpload, 0, len(names))
	for _, n := range names {
		out = append(out, ImageUpload{FileName: n, ContentType: "image/png", Size: int64(len(n)), Body: strings.NewReader(n)})
	}
	return out
}

func TestAlbumService_Create(t *testing.T) {
	ctx := context.Background()
	f := newAlbumFixture(t)

	var storedKeys []string
	f.repo.On("Create", ctx, mock.AnythingOfType("*models.Album"), mock.AnythingOfType("[]string")).
		Run(func(args mock.Arguments) {
			album := args.Get(1).(*models.Album)
			storedKeys = args.Get(2).([]string)
			album.ID = 1
			for i, key := range storedKeys {
				album.Images = append(album.Images, models.Image{ID: int64(i + 1), AlbumID: 1, ImageURL: key})
			}
		}).Return(nil)

	album, err := f.svc.Create(ctx, 42, &models.CreateAlbumRequest{Title: "Trip"}, uploads("a.png", "../b c.png"))
	require.NoError(t, err)

	assert.Regexp(t, folderPattern, album.FolderName)
	assert.Equal(t, int64(42), album.UserID)
	require.Len(t, storedKeys, 2)
	assert.Equal(t, album.FolderName+"/1000-a.png", storedKeys[0])
	assert.Equal(t, album.FolderName+"/1001-b_c.png", storedKeys[1])

	// Files are on disk and responses carry signed urls
	for i, key := range storedKeys {
		_, err := os.Stat(filepath.Join(f.store.Root(), filepath.FromSlash(key)))
		assert.NoError(t, err)
		assert.Equal(t, "signed://"+key, album.Images[i].ImageURL)
	}
}

func TestAlbumService_Create_RequiresImages(t *testing.T) {
	f := newAlbumFixture(t)
	_, err := f.svc.Create(context.Background(), 42, &models.CreateAlbumRequest{Title: "Trip"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrValidation)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestAlbumService_Create_StorageFailureRemovesFolder(t *testing.T) {
	f := newAlbumFixture(t)
	f.flaky.failOn = "bad.png"

	_, err := f.svc.Create(context.Background(), 42, &models.CreateAlbumRequest{Title: "Trip"}, uploads("a.png", "bad.png", "c.png"))
	require.Error(t, err)

	assert.Empty(t, f.folders(t))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestAlbumService_Create_DatabaseFailureRemovesFolder(t *testing.T) {
	ctx := context.Background()
	f := newAlbumFixture(t)
	f.repo.On("Create", ctx, mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := f.svc.Create(ctx, 42, &models.CreateAlbumRequest{Title: "Trip"}, uploads("a.png"))
	require.Error(t, err)
	assert.Empty(t, f.folders(t))
}

func TestAlbumService_Get_SignsImagesAndHidesCredentials(t *testing.T) {
	ctx := context.Background()
	f := newAlbumFixture(t)
	f.repo.On("GetByID", ctx, int64(1)).Return(&models.Album{
		ID:     1,
		User:   &models.User{ID: 42, PasswordHash: "secret", Salt: "salt"},
		Images: []models.Image{{ID: 1, ImageURL: "f-42/1-a.png"}},
	}, nil)

	album, err := f.svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "signed://f-42/1-a.png", album.Images[0].ImageURL)
	assert.Empty(t, album.User.PasswordHash)
	assert.Empty(t, album.User.Salt)
}

func TestAlbumService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newAlbumFixture(t)
	f.repo.On("GetByID", ctx, int64(9)).Return(nil, utils.NewNotFoundError("Album not found."))

	_, err := f.svc.Get(ctx, 9)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestAlbumService_List(t *testing.T) {
	ctx := context.Background()
	f := newAlbumFixture(t)

	expected := models.AlbumFilter{UserID: 42, Search: "sea", Limit: 10, Offset: 10}
	f.repo.On("List", ctx, expected).Return([]models.Album{{ID: 11}}, 11, nil)

	result, err := f.svc.List(ctx, AlbumListParams{
		UserID:     42,
		Search:     "sea",
		Pagination: utils.PaginationParams{Page: 2, Limit: 10},
	})
	require.NoError(t, err)
	assert.Len(t, result.PaginatedResult, 1)

	meta := result.Metadata.(utils.PaginationMetadata)
	assert.Equal(t, 2, meta.TotalPage)
	assert.Equal(t, 11, meta.TotalData)
	assert.Nil(t, meta.NextPage)
	require.NotNil(t, meta.PreviousPage)
	assert.Equal(t, 1, *meta.PreviousPage)
}

func TestAlbumService_List_EmptyIsNotNull(t *testing.T) {
	ctx := context.Background()
	f := newAlbumFixture(t)
	f.repo.On("List", ctx, mock.Anything).Return(nil, 0, nil)

	result, err := f.svc.List(ctx, AlbumListParams{UserID: 1, Pagination: utils.PaginationParams{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.NotNil(t, result.PaginatedResult)
	assert.Empty(t, result.PaginatedResult)
}

func TestAlbumService_Update(t *testing.T) {
	ctx := context.Background()
	f := newAlbumFixture(t)

	require.NoError(t, f.store.Save(ctx, "f-42/1-old.png", strings.NewReader("old"), 3, ""))

	existing := &models.Album{ID: 1, Title: "Old", Description: "Desc", UserID: 42, FolderName: "f-42"}
	f.repo.On("GetByID", ctx, int64(1)).Return(existing, nil).Once()
	f.repo.On("Update", ctx, mock.MatchedBy(func(a *models.Album) bool {
		return a.Title == "New" && a.Description == "Desc"
	}), []int64{1}, []string{"f-42/1000-new.png"}).
		Return([]models.Image{{ID: 1, ImageURL: "f-42/1-old.png"}}, nil)
	f.repo.On("GetByID", ctx, int64(1)).Return(&models.Album{
		ID:     1,
		Title:  "New",
		Images: []models.Image{{ID: 2, ImageURL: "f-42/1000-new.png"}},
	}, nil).Once()

	title := "New"
	album, err := f.svc.Update(ctx, 1, &models.UpdateAlbumRequest{Title: &title, ImagesToRemove: []int64{1}}, uploads("new.png"))
	require.NoError(t, err)
	assert.Equal(t, "signed://f-42/1000-new.png", album.Images[0].ImageURL)

	_, err = f.store.Open(ctx, "f-42/1-old.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	obj, err := f.store.Open(ctx, "f-42/1000-new.png")
	require.NoError(t, err)
	obj.Close()
}

func TestAlbumService_Update_FailureRemovesNewFiles(t *testing.T) {
	ctx := context.Background()
	f := newAlbumFixture(t)

	f.repo.On("GetByID", ctx, int64(1)).Return(&models.Album{ID: 1, UserID: 42, FolderName: "f-42"}, nil)
	f.repo.On("Update", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := f.svc.Update(ctx, 1, &models.UpdateAlbumRequest{}, uploads("new.png"))
	require.Error(t, err)

	_, err = f.store.Open(ctx, "f-42/1000-new.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAlbumService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newAlbumFixture(t)
	require.NoError(t, f.store.Save(ctx, "f-42/1-a.png", strings.NewReader("a"), 1, ""))

	f.repo.On("GetByID", ctx, int64(1)).Return(&models.Album{ID: 1, FolderName: "f-42"}, nil)
	f.repo.On("Delete", ctx, int64(1)).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, 1))
	assert.Empty(t, f.folders(t))
}

func TestAlbumService_Delete_KeepsFilesWhenRowDeleteFails(t *testing.T) {
	ctx := context.Background()
	f := newAlbumFixture(t)
	require.NoError(t, f.store.Save(ctx, "f-42/1-a.png", strings.NewReader("a"), 1, ""))

	f.repo.On("GetByID", ctx, int64(1)).Return(&models.Album{ID: 1, FolderName: "f-42"}, nil)
	f.repo.On("Delete", ctx, int64(1)).Return(errors.New("db down"))

	require.Error(t, f.svc.Delete(ctx, 1))
	assert.Equal(t, []string{"f-42"}, f.folders(t))
}
