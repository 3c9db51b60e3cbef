// Package importer rebuilds form records from uploaded Word documents and
// JSON files.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"businesscase/internal/docx"
	"businesscase/internal/domain"
)

// ErrUnreadable is returned when an upload cannot be opened at all.
var ErrUnreadable = errors.New("document unreadable")

// Status tells callers how much of an import succeeded.
type Status string

const (
	// StatusMatched means at least one labelled paragraph was assigned.
	StatusMatched Status = "matched"
	// StatusNoMatch means the document parsed but nothing was recognised;
	// the record holds defaults only.
	StatusNoMatch Status = "no_match"
	// StatusUnreadable means the document could not be opened.
	StatusUnreadable Status = "unreadable"
)

// Result is the outcome of an import.
type Result struct {
	Record  domain.Record
	Status  Status
	Matched int
	Message string
}

// Messages shown to the operator in the raw-data field.
const (
	MsgUnreadableDocument = "Kunne ikke læse Word-filen – tjek formatet."
	MsgNoDocument         = "Ingen Word-fil valgt."
	MsgUnreadableJSON     = "Kunne ikke læse JSON: %v"
)

// ImportDocument walks the body paragraphs of a .docx and assigns every
// "label: value" line whose label is recognised. Unknown labels are dropped.
func ImportDocument(r io.ReaderAt, size int64) (Result, error) {
	paras, err := docx.Paragraphs(r, size)
	if err != nil {
		rec := domain.NewRecord()
		rec[domain.FieldRawData] = MsgUnreadableDocument
		return Result{Record: rec, Status: StatusUnreadable, Message: MsgUnreadableDocument},
			fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return FromParagraphs(paras), nil
}

// ImportDocumentBytes is ImportDocument over an in-memory upload.
func ImportDocumentBytes(data []byte) (Result, error) {
	return ImportDocument(bytes.NewReader(data), int64(len(data)))
}

// FromParagraphs applies the label rules to already extracted paragraphs.
func FromParagraphs(paras []string) Result {
	rec := domain.NewRecord()
	matched := 0
	for _, p := range paras {
		label, value, ok := splitLabeled(p)
		if !ok {
			continue
		}
		field, ok := ClassifyLabel(label)
		if !ok {
			continue
		}
		rec[field] = value
		matched++
	}
	status := StatusMatched
	if matched == 0 {
		status = StatusNoMatch
	}
	return Result{Record: rec, Status: status, Matched: matched}
}
