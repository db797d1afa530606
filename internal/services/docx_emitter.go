package services

import (
	"fmt"

	"github.com/gomutex/godocx"

	"alfredoptarigan/office-letters/internal/models"
)

type docxEmitter struct {
	labels LetterLabels
}

func NewDocxEmitter(labels LetterLabels) Emitter {
	return &docxEmitter{labels: labels}
}

func (e *docxEmitter) FileType() models.FileType {
	return models.FileTypeDOCX
}

// Emit writes a heading, the four labelled fields and the closing sentence.
func (e *docxEmitter) Emit(path string, letter Letter) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create docx document: %w", err)
	}

	if _, err := doc.AddHeading(e.labels.Title, 1); err != nil {
		return fmt.Errorf("failed to add docx heading: %w", err)
	}
	for _, f := range letter.Fields(e.labels) {
		doc.AddParagraph(f.Line())
	}
	doc.AddParagraph(e.labels.Body)

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save docx: %w", err)
	}
	return nil
}
