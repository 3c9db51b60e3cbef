// Package render turns a record and its metrics into the generated artifacts:
// the business-case workbook, the process documentation, the leadership
// summary and the blank questionnaire.
package render

import (
	"fmt"
	"path"
	"strings"
	"time"

	"businesscase/internal/domain"
)

// MIME types of the generated files.
const (
	XlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// QuestionnaireFile is the download name of the blank questionnaire.
const QuestionnaireFile = "businesscase_spoergeskema.docx"

// ContentType returns the MIME type for an output file name.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx":
		return XlsxContentType
	case ".docx":
		return DocxContentType
	default:
		return "application/octet-stream"
	}
}

// Renderer produces artifact bytes. The zero value renders without a logo
// using the wall clock.
type Renderer struct {
	Branding Branding
	Now      func() time.Time
}

// New returns a renderer using the given branding.
func New(b Branding) *Renderer {
	return &Renderer{Branding: b, Now: time.Now}
}

// At returns a copy of r whose clock is fixed at t.
func (r *Renderer) At(t time.Time) *Renderer {
	c := *r
	c.Now = func() time.Time { return t }
	return &c
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Render produces the artifact of the given kind.
func (r *Renderer) Render(kind domain.ArtifactKind, rec domain.Record, m domain.Metrics) ([]byte, error) {
	switch kind {
	case domain.ArtifactSpreadsheet:
		return r.Spreadsheet(rec, m)
	case domain.ArtifactProcessDoc:
		return r.ProcessDoc(rec, m)
	case domain.ArtifactLeadership:
		return r.Leadership(rec, m)
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", kind)
	}
}

// Kinds lists the artifacts of one generation in output order.
func Kinds() []domain.ArtifactKind {
	return []domain.ArtifactKind{
		domain.ArtifactSpreadsheet,
		domain.ArtifactProcessDoc,
		domain.ArtifactLeadership,
	}
}
