package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/database"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/repository"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ChangePassword(ctx context.Context, q database.Querier, id int64, passwordHash, salt string) error {
	return m.Called(ctx, q, id, passwordHash, salt).Error(0)
}

type mockAlbumRepo struct {
	mock.Mock
}

func (m *mockAlbumRepo) Create(ctx context.Context, album *models.Album, imageURLs []string) error {
	return m.Called(ctx, album, imageURLs).Error(0)
}

func (m *mockAlbumRepo) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	args := m.Called(ctx, id)
	album, _ := args.Get(0).(*models.Album)
	return album, args.Error(1)
}

func (m *mockAlbumRepo) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAlbumRepo) List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, int, error) {
	args := m.Called(ctx, filter)
	albums, _ := args.Get(0).([]models.Album)
	return albums, args.Int(1), args.Error(2)
}

func (m *mockAlbumRepo) Update(ctx context.Context, album *models.Album, removeIDs []int64, addURLs []string) ([]models.Image, error) {
	args := m.Called(ctx, album, removeIDs, addURLs)
	removed, _ := args.Get(0).([]models.Image)
	return removed, args.Error(1)
}

func (m *mockAlbumRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type memResetToken struct {
	UserID    int64
	ExpiresAt time.Time
}

func (t memResetToken) expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// memResetRepo keeps reset tokens in memory with the same rules as the SQL repository.
type memResetRepo struct {
	mu     sync.Mutex
	tokens map[string]memResetToken
}

func newMemResetRepo() *memResetRepo {
	return &memResetRepo{tokens: map[string]memResetToken{}}
}

func (r *memResetRepo) Replace(_ context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, tok := range r.tokens {
		if tok.UserID == userID {
			delete(r.tokens, hash)
		}
	}
	r.tokens[tokenHash] = memResetToken{UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (r *memResetRepo) Redeem(ctx context.Context, tokenHash string, now time.Time, apply repository.ResetApplyFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[tokenHash]
	if !ok || tok.expired(now) {
		return repository.ErrResetTokenNotFound
	}
	if err := apply(ctx, nil, tok.UserID); err != nil {
		return err
	}
	delete(r.tokens, tokenHash)
	return nil
}

func (r *memResetRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for hash, tok := range r.tokens {
		if tok.expired(now) {
			delete(r.tokens, hash)
			n++
		}
	}
	return n, nil
}

func (r *memResetRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

// stubHasher makes password hashes predictable.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, string, error) {
	return "hash:" + password, "salt", nil
}

func (stubHasher) Verify(password, hash, salt string) (bool, error) {
	return hash == "hash:"+password && salt == "salt", nil
}

type sentMail struct {
	to, name, url string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendPasswordResetEmail(_ context.Context, toEmail, toName, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: toEmail, name: toName, url: resetURL})
	return nil
}

// gatedMailer blocks every send until release is closed.
type gatedMailer struct {
	release chan struct{}
	mu      sync.Mutex
	sent    int
	ctxErr  error
}

func (m *gatedMailer) SendPasswordResetEmail(ctx context.Context, _, _, _ string) error {
	<-m.release
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	m.ctxErr = ctx.Err()
	return nil
}

func (m *gatedMailer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

// flakyStore wraps a storage backend and fails saves whose key contains failOn.
type flakyStore struct {
	storage.Storage
	failOn string
}

func (f *flakyStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if f.failOn != "" && strings.Contains(key, f.failOn) {
		return errors.New("disk full")
	}
	return f.Storage.Save(ctx, key, r, size, contentType)
}

// prefixSigner marks signed urls so tests can tell them apart from storage keys.
type prefixSigner struct{}

func (prefixSigner) SignedURL(relPath string) (string, error) {
	return "signed://" + relPath, nil
}
