package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const LetterDateLayout = "2006-01-02"

var ErrInvalidLetter = errors.New("invalid letter")

// Letter is the record every emitter renders.
type Letter struct {
	CustomerName string `validate:"required"`
	Destination  string `validate:"required"`
	ReferenceNo  string `validate:"required"`
	Date         string `validate:"required,datetime=2006-01-02"`
}

// LetterLabels holds the fixed wording of the official letter template.
type LetterLabels struct {
	Title        string // word-processor heading and spreadsheet template name
	FormTitle    string // first PDF line
	TemplateKind string // spreadsheet A1
	Name         string
	Destination  string
	Date         string
	Reference    string
	Body         string
	SheetName    string
}

var ArabicLabels = LetterLabels{
	Title:        "كتاب رسمي",
	FormTitle:    "نموذج كتاب رسمي",
	TemplateKind: "نوع النموذج",
	Name:         "الاسم",
	Destination:  "الجهة",
	Date:         "التاريخ",
	Reference:    "المرجع",
	Body:         "النص الرسمي: يرجى التفضل بالاطلاع واتخاذ اللازم.",
	SheetName:    "Official Letter",
}

var EnglishLabels = LetterLabels{
	Title:        "Official Letter",
	FormTitle:    "Official Letter Form",
	TemplateKind: "Template",
	Name:         "Name",
	Destination:  "Destination",
	Date:         "Date",
	Reference:    "Reference",
	Body:         "Official text: please review and take the necessary action.",
	SheetName:    "Official Letter",
}

type LetterField struct {
	Label string
	Value string
}

// Line renders the field the way the document body prints it.
func (f LetterField) Line() string {
	return fmt.Sprintf("%s: %s", f.Label, f.Value)
}

var letterValidate = validator.New()

// Validate checks that all four fields are present and that Date is an ISO date.
func (l Letter) Validate() error {
	l.CustomerName = strings.TrimSpace(l.CustomerName)
	l.Destination = strings.TrimSpace(l.Destination)
	l.ReferenceNo = strings.TrimSpace(l.ReferenceNo)
	if err := letterValidate.Struct(l); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: %s", ErrInvalidLetter, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidLetter, err)
	}
	return nil
}

// Fields lists the four labelled values in document order.
func (l Letter) Fields(labels LetterLabels) []LetterField {
	return []LetterField{
		{Label: labels.Name, Value: l.CustomerName},
		{Label: labels.Destination, Value: l.Destination},
		{Label: labels.Date, Value: l.Date},
		{Label: labels.Reference, Value: l.ReferenceNo},
	}
}
