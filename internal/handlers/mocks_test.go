package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/auth"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/service"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
)

type MockAuthService struct {
	SignupFunc func(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	LoginFunc  func(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

func (m *MockAuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return &models.User{ID: 1, Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &models.LoginResponse{AccessToken: "access_token"}, nil
}

type MockResetService struct {
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, token, newPassword string) error
}

func (m *MockResetService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}

type MockAlbumService struct {
	CreateFunc func(ctx context.Context, userID int64, req *models.CreateAlbumRequest, uploads []service.ImageUpload) (*models.Album, error)
	GetFunc    func(ctx context.Context, id int64) (*models.Album, error)
	ListFunc   func(ctx context.Context, params service.AlbumListParams) (*models.AlbumListResult, error)
	UpdateFunc func(ctx context.Context, id int64, req *models.UpdateAlbumRequest, uploads []service.ImageUpload) (*models.Album, error)
	DeleteFunc func(ctx context.Context, id int64) error
}

func (m *MockAlbumService) Create(ctx context.Context, userID int64, req *models.CreateAlbumRequest, uploads []service.ImageUpload) (*models.Album, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, req, uploads)
	}
	return &models.Album{ID: 1, UserID: userID, Title: req.Title}, nil
}

func (m *MockAlbumService) Get(ctx context.Context, id int64) (*models.Album, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &models.Album{ID: id}, nil
}

func (m *MockAlbumService) List(ctx context.Context, params service.AlbumListParams) (*models.AlbumListResult, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, params)
	}
	return &models.AlbumListResult{PaginatedResult: []models.Album{}}, nil
}

func (m *MockAlbumService) Update(ctx context.Context, id int64, req *models.UpdateAlbumRequest, uploads []service.ImageUpload) (*models.Album, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req, uploads)
	}
	return &models.Album{ID: id}, nil
}

func (m *MockAlbumService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type MockFileService struct {
	OpenFunc func(ctx context.Context, token string) (*storage.Object, string, error)
	calls    int
}

func (m *MockFileService) Open(ctx context.Context, token string) (*storage.Object, string, error) {
	m.calls++
	return m.OpenFunc(ctx, token)
}

type MockHealthChecker struct {
	Err error
}

func (m *MockHealthChecker) HealthCheck(context.Context) error {
	return m.Err
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Status     any             `json:"status"`
	Code       string          `json:"code"`
	Data       json.RawMessage `json:"data"`
	Errors     map[string]any  `json:"errors"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParams attaches chi route parameters to req.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func withUser(req *http.Request, id int64) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{ID: id, Email: "a@x.com"}))
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string][]string, files []formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(name, v))
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
