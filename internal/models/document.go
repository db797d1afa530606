package models

import (
	"time"
)

const TemplateOfficialLetter = "official_letter"

type FileType string

const (
	FileTypeDOCX FileType = "docx"
	FileTypePDF  FileType = "pdf"
	FileTypeXLSX FileType = "xlsx"
)

// Document records one generate request. Rows are immutable once committed.
type Document struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TemplateType string         `gorm:"type:text;not null" json:"template_type"`
	CustomerName string         `gorm:"type:text;not null" json:"customer_name"`
	Destination  string         `gorm:"type:text;not null" json:"destination"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	CreatedBy    string         `gorm:"type:text;not null" json:"created_by"`
	Files        []DocumentFile `gorm:"foreignKey:DocumentID" json:"files,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

// DocumentFile is one emitted artifact. FilePath is relative to the storage root.
type DocumentFile struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	DocumentID uint     `gorm:"not null;index" json:"document_id"`
	FileType   FileType `gorm:"type:text;not null" json:"file_type"`
	FilePath   string   `gorm:"type:text;not null;uniqueIndex" json:"file_path"`
}

func (DocumentFile) TableName() string {
	return "document_files"
}

// File returns the artifact of the given type, if present.
func (d *Document) File(ft FileType) (DocumentFile, bool) {
	for _, f := range d.Files {
		if f.FileType == ft {
			return f, true
		}
	}
	return DocumentFile{}, false
}
