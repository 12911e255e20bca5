package document

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"assistant-server/internal/config"
	"assistant-server/internal/infrastructure/metrics"
	"assistant-server/internal/utils/docid"
	"assistant-server/internal/utils/platformerrors"
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	Create(ctx context.Context, doc *Document) error
	Update(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context) ([]Document, error)
	ListByStatus(ctx context.Context, status Status) ([]Document, error)
	Delete(ctx context.Context, id string) error
}

// Storage defines document blob operations.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// Service orchestrates document ingestion, listing and removal.
type Service struct {
	cfg     *config.Config
	repo    Repository
	storage Storage
	log     zerolog.Logger
}

func NewService(cfg *config.Config, repo Repository, storage Storage, log zerolog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		repo:    repo,
		storage: storage,
		log:     log.With().Str("component", "document-service").Logger(),
	}
}

// Upload validates and ingests a batch of files. Validation runs first so a
// disallowed MIME type rejects the whole batch before any record is written.
// Accepted files are then ingested concurrently with all-or-error semantics.
func (s *Service) Upload(ctx context.Context, uploads []Upload) ([]Document, error) {
	if len(uploads) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "no files provided", nil)
	}

	for i := range uploads {
		if err := s.validateUpload(ctx, &uploads[i]); err != nil {
			return nil, err
		}
	}

	docs := make([]Document, len(uploads))
	group, groupCtx := errgroup.WithContext(ctx)
	for i := range uploads {
		upload := uploads[i]
		index := i
		group.Go(func() error {
			doc, err := s.ingest(groupCtx, upload)
			if err != nil {
				return err
			}
			docs[index] = *doc
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Service) validateUpload(ctx context.Context, upload *Upload) error {
	if strings.TrimSpace(upload.Name) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "file name is required", nil)
	}
	if len(upload.Content) == 0 {
		return platformerrors.NewErrorWithDetails(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "file is empty", nil,
			map[string]any{"name": upload.Name})
	}
	if int64(len(upload.Content)) > s.cfg.MaxDocumentBytes {
		return platformerrors.NewErrorWithDetails(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "file exceeds the maximum allowed size", nil,
			map[string]any{"name": upload.Name, "max_bytes": s.cfg.MaxDocumentBytes})
	}

	upload.MimeType = s.resolveMimeType(upload)
	if !IsSupportedMimeType(upload.MimeType) {
		metrics.RecordUpload(upload.MimeType, "rejected", 0)
		return platformerrors.NewErrorWithDetails(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnsupportedMedia, "unsupported file type", nil,
			map[string]any{"name": upload.Name, "mime_type": upload.MimeType})
	}
	return nil
}

// resolveMimeType normalizes the declared content type, falling back to
// extension and content sniffing when the declaration is absent or generic.
func (s *Service) resolveMimeType(upload *Upload) string {
	declared := strings.TrimSpace(upload.MimeType)
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		declared = mediaType
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	ext := strings.ToLower(filepath.Ext(upload.Name))
	switch ext {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	}

	detected := mimetype.Detect(upload.Content)
	mediaType, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return detected.String()
	}
	return mediaType
}

func (s *Service) ingest(ctx context.Context, upload Upload) (*Document, error) {
	sum := sha256.Sum256(upload.Content)
	doc := &Document{
		ID:       docid.New(),
		Name:     upload.Name,
		MimeType: upload.MimeType,
		Size:     int64(len(upload.Content)),
		Status:   StatusProcessing,
		Hash:     hex.EncodeToString(sum[:]),
	}
	doc.StoragePath = fmt.Sprintf("documents/%s%s", doc.ID, storageExt(upload))

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create document record")
	}

	if err := s.storage.Upload(ctx, doc.StoragePath, bytes.NewReader(upload.Content), doc.Size, doc.MimeType); err != nil {
		doc.Status = StatusFailed
		doc.Error = err.Error()
		if updateErr := s.repo.Update(ctx, doc); updateErr != nil {
			s.log.Error().Err(updateErr).Str("document_id", doc.ID).Msg("failed to mark document as failed")
		}
		metrics.RecordUpload(doc.MimeType, "failed", 0)
		return nil, platformerrors.NewErrorWithDetails(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to store document content", err,
			map[string]any{"document_id": doc.ID})
	}

	doc.Status = StatusReady
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "finalize document record")
	}

	metrics.RecordUpload(doc.MimeType, "success", doc.Size)
	s.log.Info().
		Str("document_id", doc.ID).
		Str("mime_type", doc.MimeType).
		Int64("size", doc.Size).
		Msg("document ingested")
	return doc, nil
}

func storageExt(upload Upload) string {
	if ext := filepath.Ext(upload.Name); ext != "" {
		return strings.ToLower(ext)
	}
	switch upload.MimeType {
	case "application/pdf":
		return ".pdf"
	case "text/markdown":
		return ".md"
	case "application/json":
		return ".json"
	default:
		return ".txt"
	}
}

// List returns all document records, newest first.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list documents")
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// ListReady returns documents eligible for retrieval, oldest first.
func (s *Service) ListReady(ctx context.Context) ([]Document, error) {
	docs, err := s.repo.ListByStatus(ctx, StatusReady)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list ready documents")
	}
	return docs, nil
}

// Content downloads and decodes a document blob as text.
func (s *Service) Content(ctx context.Context, doc Document) (string, error) {
	body, _, err := s.storage.Download(ctx, doc.StoragePath)
	if err != nil {
		return "", platformerrors.NewErrorWithDetails(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to read document content", err,
			map[string]any{"document_id": doc.ID})
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", platformerrors.NewErrorWithDetails(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to read document content", err,
			map[string]any{"document_id": doc.ID})
	}
	return string(data), nil
}

// Remove deletes a document record and its blob. The blob goes first: a blob
// deletion failure keeps the record and surfaces as internal, while a record
// with no storage path is cleaned up record-only.
func (s *Service) Remove(ctx context.Context, id string) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load document")
	}

	if strings.TrimSpace(doc.StoragePath) != "" {
		if err := s.storage.Delete(ctx, doc.StoragePath); err != nil {
			return platformerrors.NewErrorWithDetails(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeInternal, "failed to delete document content", err,
				map[string]any{"document_id": doc.ID})
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete document record")
	}

	s.log.Info().Str("document_id", id).Msg("document removed")
	return nil
}
