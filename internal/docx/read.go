package docx

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gomutex/godocx/packager"
	"github.com/gomutex/godocx/wml/ctypes"
)

// ErrNotDocument is returned when the input is not a readable .docx package.
var ErrNotDocument = errors.New("not a word document")

// Paragraphs returns the text of the top-level body paragraphs in document
// order. Tabs and line breaks inside a paragraph become "\t" and "\n".
func Paragraphs(r io.ReaderAt, size int64) ([]string, error) {
	data, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocument, err)
	}
	return ParagraphsFromBytes(data)
}

// ParagraphsFromBytes is Paragraphs over an in-memory package.
func ParagraphsFromBytes(data []byte) ([]string, error) {
	root, err := packager.Unpack(&data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocument, err)
	}
	if root.Document == nil || root.Document.Body == nil {
		return nil, fmt.Errorf("%w: document body missing", ErrNotDocument)
	}
	var out []string
	for _, child := range root.Document.Body.Children {
		if child.Para == nil {
			continue
		}
		var b strings.Builder
		for _, c := range child.Para.GetCT().Children {
			if c.Run != nil {
				writeRunText(&b, c.Run)
			}
		}
		out = append(out, b.String())
	}
	return out, nil
}

func writeRunText(b *strings.Builder, r *ctypes.Run) {
	for _, c := range r.Children {
		switch {
		case c.Text != nil:
			b.WriteString(c.Text.Text)
		case c.Tab != nil:
			b.WriteByte('\t')
		case c.Break != nil, c.CarrRtn != nil:
			b.WriteByte('\n')
		}
	}
}
