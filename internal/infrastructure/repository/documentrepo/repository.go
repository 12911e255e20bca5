package documentrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "assistant-server/internal/domain/document"
	"assistant-server/internal/infrastructure/database/entities"
	"assistant-server/internal/utils/platformerrors"
)

// Repository handles document metadata persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, doc *domain.Document) error {
	entity := mapDomain(doc)
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create document", err)
	}
	doc.CreatedAt = entity.CreatedAt
	doc.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, doc *domain.Document) error {
	entity := mapDomain(doc)
	err := r.db.WithContext(ctx).Save(&entity).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to update document", err)
	}
	doc.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var entity entities.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "document not found", err)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to get document", err)
	}
	doc := mapEntity(entity)
	return &doc, nil
}

// List returns all documents ordered by creation time descending.
func (r *Repository) List(ctx context.Context) ([]domain.Document, error) {
	var rows []entities.Document
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list documents", err)
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, mapEntity(row))
	}
	return docs, nil
}

// ListByStatus returns documents in the given status, oldest first. The
// retrieval layer relies on this ordering for stable context assembly.
func (r *Repository) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Document, error) {
	var rows []entities.Document
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list documents by status", err)
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, mapEntity(row))
	}
	return docs, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Document{})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to delete document", result.Error)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "document not found", nil)
	}
	return nil
}

func mapDomain(doc *domain.Document) entities.Document {
	return entities.Document{
		ID:          doc.ID,
		Name:        doc.Name,
		MimeType:    doc.MimeType,
		Size:        doc.Size,
		Status:      string(doc.Status),
		StoragePath: doc.StoragePath,
		Hash:        doc.Hash,
		Error:       doc.Error,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func mapEntity(entity entities.Document) domain.Document {
	return domain.Document{
		ID:          entity.ID,
		Name:        entity.Name,
		MimeType:    entity.MimeType,
		Size:        entity.Size,
		Status:      domain.Status(entity.Status),
		StoragePath: entity.StoragePath,
		Hash:        entity.Hash,
		Error:       entity.Error,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}
