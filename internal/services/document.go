package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"alfredoptarigan/office-letters/internal/models"
	"alfredoptarigan/office-letters/internal/repositories"
)

// DashboardLimit is the number of documents the dashboard lists.
const DashboardLimit = 20

type DocumentService interface {
	// Generate records a document and writes one file per emitter. Either the
	// document, its three file rows and its files all exist afterwards, or none do.
	Generate(ctx context.Context, username string, form models.GenerateForm) (*models.Document, error)
	Latest(ctx context.Context) ([]models.Document, error)
	Get(ctx context.Context, id uint) (*models.Document, error)
}

type documentService struct {
	db       *gorm.DB
	docRepo  repositories.DocumentRepository
	storage  StorageService
	emitters []Emitter
	log      zerolog.Logger
	now      func() time.Time
}

func NewDocumentService(
	db *gorm.DB,
	docRepo repositories.DocumentRepository,
	storage StorageService,
	emitters []Emitter,
	log zerolog.Logger,
) DocumentService {
	return &documentService{
		db:       db,
		docRepo:  docRepo,
		storage:  storage,
		emitters: emitters,
		log:      log,
		now:      time.Now,
	}
}

// WithClock returns a copy of the service that reads time from now.
func (s *documentService) WithClock(now func() time.Time) *documentService {
	c := *s
	c.now = now
	return &c
}

func (s *documentService) Generate(ctx context.Context, username string, form models.GenerateForm) (*models.Document, error) {
	now := s.now()
	letter := Letter{
		CustomerName: form.CustomerName,
		Destination:  form.Destination,
		ReferenceNo:  form.ReferenceNo,
		Date:         now.Format(LetterDateLayout),
	}
	if err := letter.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.EnsureGeneratedDir(); err != nil {
		return nil, err
	}

	doc := &models.Document{
		TemplateType: models.TemplateOfficialLetter,
		CustomerName: form.CustomerName,
		Destination:  form.Destination,
		CreatedAt:    now.UTC(),
		CreatedBy:    username,
	}

	var written []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.docRepo.WithTx(tx)
		if err := repo.Create(ctx, doc); err != nil {
			return err
		}

		files := make([]models.DocumentFile, 0, len(s.emitters))
		for _, emitter := range s.emitters {
			rel, abs := s.storage.GeneratedPath(doc.ID, emitter.FileType())
			written = append(written, rel)
			if err := emitter.Emit(abs, letter); err != nil {
				return fmt.Errorf("failed to emit %s: %w", emitter.FileType(), err)
			}
			files = append(files, models.DocumentFile{
				DocumentID: doc.ID,
				FileType:   emitter.FileType(),
				FilePath:   rel,
			})
		}

		if err := repo.CreateFiles(ctx, files); err != nil {
			return err
		}
		doc.Files = files
		return nil
	})
	if err != nil {
		s.removeFiles(written)
		return nil, fmt.Errorf("failed to generate document: %w", err)
	}

	s.log.Info().
		Uint("document_id", doc.ID).
		Str("created_by", username).
		Msg("document generated")

	return doc, nil
}

func (s *documentService) removeFiles(relPaths []string) {
	for _, rel := range relPaths {
		if err := s.storage.DeleteFile(rel); err != nil {
			s.log.Error().Err(err).Str("path", rel).Msg("failed to remove generated file")
		}
	}
}

func (s *documentService) Latest(ctx context.Context) ([]models.Document, error) {
	return s.docRepo.FindLatest(ctx, DashboardLimit)
}

func (s *documentService) Get(ctx context.Context, id uint) (*models.Document, error) {
	return s.docRepo.FindByID(ctx, id)
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
