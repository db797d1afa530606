package services

import (
	"alfredoptarigan/office-letters/internal/models"
)

// Emitter writes one document file for a letter.
type Emitter interface {
	FileType() models.FileType
	Emit(path string, letter Letter) error
}

// DefaultEmitters returns the word-processor, PDF and spreadsheet emitters in
// the order they run for every generate request.
func DefaultEmitters(labels LetterLabels, pdfFontPath string) []Emitter {
	return []Emitter{
		NewDocxEmitter(labels),
		NewPDFEmitter(labels, pdfFontPath),
		NewXlsxEmitter(labels),
	}
}
