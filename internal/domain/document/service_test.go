package document_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"assistant-server/internal/config"
	"assistant-server/internal/domain/document"
	"assistant-server/internal/utils/platformerrors"
)

// MockRepository is an in-memory document.Repository.
type MockRepository struct {
	mu          sync.Mutex
	docs        map[string]document.Document
	createCalls int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{docs: map[string]document.Document{}}
}

func (m *MockRepository) Create(ctx context.Context, doc *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	m.docs[doc.ID] = *doc
	return nil
}

func (m *MockRepository) Update(ctx context.Context, doc *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = *doc
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc, ok := m.docs[id]; ok {
		return &doc, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "document not found", nil)
}

func (m *MockRepository) List(ctx context.Context) ([]document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []document.Document
	for _, doc := range m.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (m *MockRepository) ListByStatus(ctx context.Context, status document.Status) ([]document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []document.Document
	for _, doc := range m.docs {
		if doc.Status == status {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "document not found", nil)
	}
	delete(m.docs, id)
	return nil
}

// MockStorage is an in-memory document.Storage.
type MockStorage struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	UploadErr  error
	DeleteErr  error
	deleteKeys []string
}

func NewMockStorage() *MockStorage {
	return &MockStorage{blobs: map[string][]byte{}}
}

func (m *MockStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return nil
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, "", errors.New("blob not found")
	}
	return io.NopCloser(strings.NewReader(string(data))), "text/plain", nil
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteKeys = append(m.deleteKeys, key)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.blobs, key)
	return nil
}

func newDocumentService(repo *MockRepository, blobStorage *MockStorage) *document.Service {
	cfg := &config.Config{MaxDocumentBytes: 1024}
	return document.NewService(cfg, repo, blobStorage, zerolog.Nop())
}

func TestUploadRejectsUnsupportedMimeBeforeAnyWrite(t *testing.T) {
	repo := NewMockRepository()
	blobStorage := NewMockStorage()
	service := newDocumentService(repo, blobStorage)

	_, err := service.Upload(context.Background(), []document.Upload{
		{Name: "notes.txt", MimeType: "text/plain", Content: []byte("fine")},
		{Name: "photo.png", MimeType: "image/png", Content: []byte{0x89, 0x50}},
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnsupportedMedia) {
		t.Errorf("error = %v, want UNSUPPORTED_MEDIA", err)
	}
	if repo.createCalls != 0 {
		t.Errorf("create calls = %d, want 0 (validation before any write)", repo.createCalls)
	}
	if len(blobStorage.blobs) != 0 {
		t.Errorf("blobs stored = %d, want 0", len(blobStorage.blobs))
	}
}

func TestUploadRejectsEmptyBatch(t *testing.T) {
	service := newDocumentService(NewMockRepository(), NewMockStorage())
	_, err := service.Upload(context.Background(), nil)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("error = %v, want VALIDATION", err)
	}
}

func TestUploadIngestsSupportedFiles(t *testing.T) {
	repo := NewMockRepository()
	blobStorage := NewMockStorage()
	service := newDocumentService(repo, blobStorage)

	docs, err := service.Upload(context.Background(), []document.Upload{
		{Name: "notes.txt", MimeType: "text/plain", Content: []byte("hello")},
		{Name: "data.json", MimeType: "application/json", Content: []byte(`{"a":1}`)},
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}

	for _, doc := range docs {
		if doc.Status != document.StatusReady {
			t.Errorf("document %s status = %s, want ready", doc.Name, doc.Status)
		}
		if doc.Hash == "" {
			t.Errorf("document %s has no content hash", doc.Name)
		}
		if _, ok := blobStorage.blobs[doc.StoragePath]; !ok {
			t.Errorf("document %s blob missing at %s", doc.Name, doc.StoragePath)
		}
	}
}

func TestUploadResolvesMimeFromExtension(t *testing.T) {
	repo := NewMockRepository()
	service := newDocumentService(repo, NewMockStorage())

	docs, err := service.Upload(context.Background(), []document.Upload{
		{Name: "readme.md", MimeType: "application/octet-stream", Content: []byte("# title")},
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if docs[0].MimeType != "text/markdown" {
		t.Errorf("mime = %q, want text/markdown", docs[0].MimeType)
	}
}

func TestUploadMarksRecordFailedOnBlobError(t *testing.T) {
	repo := NewMockRepository()
	blobStorage := NewMockStorage()
	blobStorage.UploadErr = errors.New("bucket unavailable")
	service := newDocumentService(repo, blobStorage)

	_, err := service.Upload(context.Background(), []document.Upload{
		{Name: "notes.txt", MimeType: "text/plain", Content: []byte("hello")},
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeInternal) {
		t.Errorf("error = %v, want INTERNAL", err)
	}

	if len(repo.docs) != 1 {
		t.Fatalf("got %d records, want the failed record kept", len(repo.docs))
	}
	for _, doc := range repo.docs {
		if doc.Status != document.StatusFailed {
			t.Errorf("status = %s, want failed", doc.Status)
		}
		if doc.Error == "" {
			t.Error("failure reason was not recorded")
		}
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	service := newDocumentService(NewMockRepository(), NewMockStorage())
	_, err := service.Upload(context.Background(), []document.Upload{
		{Name: "big.txt", MimeType: "text/plain", Content: make([]byte, 2048)},
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("error = %v, want VALIDATION", err)
	}
}

func TestRemoveUnknownDocument(t *testing.T) {
	service := newDocumentService(NewMockRepository(), NewMockStorage())
	err := service.Remove(context.Background(), "doc_missing")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestRemoveDeletesRecordAndBlob(t *testing.T) {
	repo := NewMockRepository()
	blobStorage := NewMockStorage()
	service := newDocumentService(repo, blobStorage)

	docs, err := service.Upload(context.Background(), []document.Upload{
		{Name: "notes.txt", MimeType: "text/plain", Content: []byte("hello")},
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if err := service.Remove(context.Background(), docs[0].ID); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if len(repo.docs) != 0 {
		t.Errorf("record count = %d, want 0", len(repo.docs))
	}
	if len(blobStorage.blobs) != 0 {
		t.Errorf("blob count = %d, want 0", len(blobStorage.blobs))
	}
}

func TestRemoveKeepsRecordWhenBlobDeleteFails(t *testing.T) {
	repo := NewMockRepository()
	blobStorage := NewMockStorage()
	service := newDocumentService(repo, blobStorage)

	docs, err := service.Upload(context.Background(), []document.Upload{
		{Name: "notes.txt", MimeType: "text/plain", Content: []byte("hello")},
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	blobStorage.DeleteErr = errors.New("permission denied")
	err = service.Remove(context.Background(), docs[0].ID)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeInternal) {
		t.Errorf("error = %v, want INTERNAL", err)
	}
	if len(repo.docs) != 1 {
		t.Errorf("record count = %d, want the record kept after blob failure", len(repo.docs))
	}
}

func TestRemoveRecordWithoutStoragePath(t *testing.T) {
	repo := NewMockRepository()
	blobStorage := NewMockStorage()
	service := newDocumentService(repo, blobStorage)

	repo.docs["doc_orphan"] = document.Document{ID: "doc_orphan", Name: "orphan", Status: document.StatusFailed}

	if err := service.Remove(context.Background(), "doc_orphan"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if len(repo.docs) != 0 {
		t.Errorf("record count = %d, want 0 (record-only cleanup)", len(repo.docs))
	}
	if len(blobStorage.deleteKeys) != 0 {
		t.Errorf("blob delete attempted for a record with no storage path")
	}
}
