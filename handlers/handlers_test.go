package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"jumpstart-backend/email"
	"jumpstart-backend/models"
	"jumpstart-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// pngBytes is a minimal valid PNG header, enough for content sniffing
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\nendobj\ntrailer\n%%EOF")

type memNewsletterRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.Newsletter
}

func newMemNewsletterRepo() *memNewsletterRepo {
	return &memNewsletterRepo{records: map[uuid.UUID]*models.Newsletter{}}
}

func (r *memNewsletterRepo) Create(_ context.Context, n *models.Newsletter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uuid.New()
	clone := *n
	r.records[n.ID] = &clone
	return nil
}

func (r *memNewsletterRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Newsletter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.records[id]
	if !ok {
		return nil, models.ErrNewsletterNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *memNewsletterRepo) List(_ context.Context, publishedOnly bool) ([]*models.Newsletter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Newsletter{}
	for _, n := range r.records {
		if publishedOnly && !n.Published {
			continue
		}
		clone := *n
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memNewsletterRepo) Update(_ context.Context, n *models.Newsletter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[n.ID]; !ok {
		return models.ErrNewsletterNotFound
	}
	clone := *n
	r.records[n.ID] = &clone
	return nil
}

func (r *memNewsletterRepo) MarkNotified(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.records[id]
	if !ok {
		return models.ErrNewsletterNotFound
	}
	n.SubscribersNotified = true
	return nil
}

func (r *memNewsletterRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return models.ErrNewsletterNotFound
	}
	delete(r.records, id)
	return nil
}

type memSubscriberRepo struct {
	mu      sync.Mutex
	records map[string]*models.Subscriber
}

func newMemSubscriberRepo() *memSubscriberRepo {
	return &memSubscriberRepo{records: map[string]*models.Subscriber{}}
}

func (r *memSubscriberRepo) Create(_ context.Context, s *models.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[s.Email]; exists {
		return models.ErrDuplicateEmail
	}
	s.ID = uuid.New()
	clone := *s
	r.records[s.Email] = &clone
	return nil
}

func (r *memSubscriberRepo) ListActive(_ context.Context) ([]*models.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Subscriber{}
	for _, s := range r.records {
		if s.Active {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memSubscriberRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, s := range r.records {
		if s.ID == id {
			delete(r.records, email)
			return nil
		}
	}
	return models.ErrSubscriberNotFound
}

func (r *memSubscriberRepo) DeleteByEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[email]; !ok {
		return models.ErrSubscriberNotFound
	}
	delete(r.records, email)
	return nil
}

type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (s *memStorage) Upload(_ context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	path := fileID.String() + "_" + filename
	s.files[path] = content
	return path, nil
}

func (s *memStorage) Download(_ context.Context, storagePath string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[storagePath]
	if !ok {
		return nil, errors.New("file not found")
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *memStorage) Delete(_ context.Context, storagePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, storagePath)
	return nil
}

func (s *memStorage) PublicURL(storagePath string) string {
	return "/uploads/" + storagePath
}

func (s *memStorage) fileCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type memAdminRepo struct {
	admins map[string]*models.AdminUser
}

func (r *memAdminRepo) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	admin, ok := r.admins[email]
	if !ok {
		return nil, models.ErrAdminNotFound
	}
	clone := *admin
	return &clone, nil
}

type stubSender struct{}

func (stubSender) Send(context.Context, email.Message) error { return nil }

// testEnv wires real services over in-memory fakes behind the same route
// table the server uses.
type testEnv struct {
	router         *gin.Engine
	newsletterRepo *memNewsletterRepo
	subscriberRepo *memSubscriberRepo
	store          *memStorage
	auth           *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	newsletterRepo := newMemNewsletterRepo()
	subscriberRepo := newMemSubscriberRepo()
	store := newMemStorage()

	newsletterService := service.NewNewsletterService(
		service.WithNewsletterRepository(newsletterRepo),
		service.WithStorage(store),
		service.WithLogger(logger),
	)
	notifyService := service.NewNotificationService(newsletterRepo, subscriberRepo, stubSender{}, "https://example.org", logger)
	subscriberService := service.NewSubscriberService(subscriberRepo)
	authService := service.NewAuthService(&memAdminRepo{}, "test-secret")

	uploader := NewUploader(store, 10<<20, logger)
	newsletterHandler := NewNewsletterHandler(newsletterService, notifyService, authService, uploader, store, logger)
	subscriberHandler := NewSubscriberHandler(subscriberService, logger)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/newsletters", newsletterHandler.List)
	api.GET("/newsletters/:id", newsletterHandler.Get)
	api.GET("/newsletters/:id/download", newsletterHandler.Download)
	api.POST("/newsletters", newsletterHandler.Create)
	api.PUT("/newsletters/:id", newsletterHandler.Update)
	api.DELETE("/newsletters/:id", newsletterHandler.Delete)
	api.POST("/newsletters/:id/send", newsletterHandler.Send)
	api.POST("/subscribers", subscriberHandler.Subscribe)
	api.DELETE("/subscribers", subscriberHandler.UnsubscribeByEmail)
	api.DELETE("/subscribers/:id", subscriberHandler.Unsubscribe)

	return &testEnv{
		router:         r,
		newsletterRepo: newsletterRepo,
		subscriberRepo: subscriberRepo,
		store:          store,
		auth:           authService,
	}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// multipartBody builds a multipart form from field values and files
func multipartBody(t *testing.T, fields map[string]string, files map[string][]fileUpload) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for field, uploads := range files {
		for _, upload := range uploads {
			part, err := writer.CreateFormFile(field, upload.name)
			require.NoError(t, err)
			_, err = part.Write(upload.content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

type fileUpload struct {
	name    string
	content []byte
}

func jsonRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
