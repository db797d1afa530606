package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"alfredoptarigan/office-letters/internal/models"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	CreateFiles(ctx context.Context, files []models.DocumentFile) error
	FindByID(ctx context.Context, id uint) (*models.Document, error)
	FindLatest(ctx context.Context, limit int) ([]models.Document, error)
	// WithTx returns a repository bound to tx.
	WithTx(tx *gorm.DB) DocumentRepository
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (d *documentRepository) WithTx(tx *gorm.DB) DocumentRepository {
	return &documentRepository{db: tx}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(ctx context.Context, document *models.Document) error {
	if err := d.db.WithContext(ctx).Omit("Files").Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// CreateFiles implements DocumentRepository.
func (d *documentRepository) CreateFiles(ctx context.Context, files []models.DocumentFile) error {
	if len(files) == 0 {
		return nil
	}
	if err := d.db.WithContext(ctx).Create(&files).Error; err != nil {
		return fmt.Errorf("failed to create document files: %w", err)
	}

	return nil
}

// FindByID implements DocumentRepository.
func (d *documentRepository) FindByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	err := d.db.WithContext(ctx).
		Preload("Files", orderFiles).
		Where("id = ?", id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
		}

		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// FindLatest implements DocumentRepository. Newest first.
func (d *documentRepository) FindLatest(ctx context.Context, limit int) ([]models.Document, error) {
	var docs []models.Document
	err := d.db.WithContext(ctx).
		Preload("Files", orderFiles).
		Order("id DESC").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	return docs, nil
}

func orderFiles(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
