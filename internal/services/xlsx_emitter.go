package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/office-letters/internal/models"
)

type xlsxEmitter struct {
	labels LetterLabels
}

func NewXlsxEmitter(labels LetterLabels) Emitter {
	return &xlsxEmitter{labels: labels}
}

func (e *xlsxEmitter) FileType() models.FileType {
	return models.FileTypeXLSX
}

// Emit fills A1:B5 of a single sheet: the template name, then one
// label/value row per letter field.
func (e *xlsxEmitter) Emit(path string, letter Letter) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close xlsx: %w", cerr)
		}
	}()

	sheet := e.labels.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	cells := map[string]string{
		"A1": e.labels.TemplateKind,
		"B1": e.labels.Title,
	}
	for i, field := range letter.Fields(e.labels) {
		row := i + 2
		cells[fmt.Sprintf("A%d", row)] = field.Label
		cells[fmt.Sprintf("B%d", row)] = field.Value
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx: %w", err)
	}
	return nil
}
