package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"jumpstart-backend/email"
	"jumpstart-backend/models"

	"github.com/google/uuid"
)

// In-memory fakes for the repository and storage interfaces.

type fakeNewsletterRepo struct {
	mu          sync.Mutex
	records     map[uuid.UUID]*models.Newsletter
	failCreate  error
	markedIDs   []uuid.UUID
	createCalls int
}

func newFakeNewsletterRepo() *fakeNewsletterRepo {
	return &fakeNewsletterRepo{records: map[uuid.UUID]*models.Newsletter{}}
}

func (r *fakeNewsletterRepo) Create(_ context.Context, n *models.Newsletter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.failCreate != nil {
		return r.failCreate
	}
	n.ID = uuid.New()
	clone := *n
	r.records[n.ID] = &clone
	return nil
}

func (r *fakeNewsletterRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Newsletter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.records[id]
	if !ok {
		return nil, models.ErrNewsletterNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *fakeNewsletterRepo) List(_ context.Context, publishedOnly bool) ([]*models.Newsletter, error) {
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

func (r *fakeNewsletterRepo) Update(_ context.Context, n *models.Newsletter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[n.ID]; !ok {
		return models.ErrNewsletterNotFound
	}
	clone := *n
	r.records[n.ID] = &clone
	return nil
}

func (r *fakeNewsletterRepo) MarkNotified(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.records[id]
	if !ok {
		return models.ErrNewsletterNotFound
	}
	n.SubscribersNotified = true
	r.markedIDs = append(r.markedIDs, id)
	return nil
}

func (r *fakeNewsletterRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return models.ErrNewsletterNotFound
	}
	delete(r.records, id)
	return nil
}

type fakeSubscriberRepo struct {
	mu      sync.Mutex
	records map[string]*models.Subscriber
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{records: map[string]*models.Subscriber{}}
}

func (r *fakeSubscriberRepo) Create(_ context.Context, s *models.Subscriber) error {
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

func (r *fakeSubscriberRepo) ListActive(_ context.Context) ([]*models.Subscriber, error) {
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

func (r *fakeSubscriberRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
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

func (r *fakeSubscriberRepo) DeleteByEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[email]; !ok {
		return models.ErrSubscriberNotFound
	}
	delete(r.records, email)
	return nil
}

func (r *fakeSubscriberRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// memStorage implements storage.Storage in memory
type memStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
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
		return nil, errors.New("file not found: " + storagePath)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *memStorage) Delete(_ context.Context, storagePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, storagePath)
	s.deleted = append(s.deleted, storagePath)
	return nil
}

func (s *memStorage) PublicURL(storagePath string) string {
	return "/uploads/" + storagePath
}

func (s *memStorage) has(storagePath string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[storagePath]
	return ok
}

// fakeSender records sends and fails for chosen recipients
type fakeSender struct {
	mu       sync.Mutex
	sent     []string
	failFor  map[string]bool
	failWith error
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: map[string]bool{}, failWith: errors.New("smtp unavailable")}
}

func (s *fakeSender) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[msg.To] {
		return s.failWith
	}
	s.sent = append(s.sent, msg.To)
	return nil
}

func (s *fakeSender) sentTo(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, to := range s.sent {
		if strings.EqualFold(to, email) {
			return true
		}
	}
	return false
}

type fakePostRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{records: map[uuid.UUID]*models.Post{}}
}

func (r *fakePostRepo) Create(_ context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	clone := *p
	r.records[p.ID] = &clone
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[id]
	if !ok {
		return nil, models.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakePostRepo) List(_ context.Context) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Post{}
	for _, p := range r.records {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakePostRepo) Update(_ context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[p.ID]; !ok {
		return models.ErrPostNotFound
	}
	clone := *p
	r.records[p.ID] = &clone
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return models.ErrPostNotFound
	}
	delete(r.records, id)
	return nil
}

type fakeAdminRepo struct {
	admins map[string]*models.AdminUser
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	admin, ok := r.admins[email]
	if !ok {
		return nil, models.ErrAdminNotFound
	}
	clone := *admin
	return &clone, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
