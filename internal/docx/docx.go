// Package docx builds and reads the Word documents of a business case on top
// of godocx: headings, paragraphs with bold runs, grid tables and an optional
// logo in the page header.
package docx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/gomutex/godocx"
	godocxdoc "github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
)

// ErrUnsupportedImage is returned for header images that are not PNG, JPEG
// or GIF.
var ErrUnsupportedImage = errors.New("unsupported image format")

// Run is a span of text with uniform formatting.
type Run struct {
	Text string
	Bold bool
}

// Plain returns a regular run.
func Plain(s string) Run { return Run{Text: s} }

// Bold returns a bold run.
func Bold(s string) Run { return Run{Text: s, Bold: true} }

// Document accumulates body content in order.
type Document struct {
	root   *godocxdoc.RootDoc
	err    error
	header *headerImage
}

// New returns an empty document based on the godocx default template.
func New() *Document {
	root, err := godocx.NewDocument()
	return &Document{root: root, err: err}
}

// SetHeaderImage places img in the default page header, scaled to widthInches
// with its aspect ratio kept.
func (d *Document) SetHeaderImage(img []byte, widthInches float64) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	d.header = newHeaderImage(img, format, widthInches, cfg.Width, cfg.Height)
	return nil
}

// Heading adds a heading paragraph; level is clamped to 1..3.
func (d *Document) Heading(text string, level int) {
	if d.err != nil {
		return
	}
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	_, d.err = d.root.AddHeading(text, uint(level))
}

// Paragraph adds a paragraph made of runs.
func (d *Document) Paragraph(runs ...Run) {
	if d.err != nil {
		return
	}
	p := d.root.AddEmptyParagraph().GetCT()
	for _, r := range runs {
		p.Children = append(p.Children, ctypes.ParagraphChild{Run: run(r)})
	}
}

// Text adds a plain paragraph.
func (d *Document) Text(text string) {
	d.Paragraph(Plain(text))
}

// Table adds a grid table. Short rows are padded with empty cells.
func (d *Document) Table(rows [][]string) {
	if d.err != nil || len(rows) == 0 {
		return
	}
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	tbl := d.root.AddTable()
	tbl.Style("TableGrid")
	for _, r := range rows {
		row := tbl.AddRow()
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(r) {
				cell = r[i]
			}
			row.AddCell().AddParagraph(cell)
		}
	}
}

// run converts r to a WordprocessingML run. Newlines become breaks and tabs
// become tab characters.
func run(r Run) *ctypes.Run {
	out := &ctypes.Run{}
	if r.Bold {
		out.Property = &ctypes.RunProperty{Bold: ctypes.OnOffFromBool(true)}
	}
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			out.Children = append(out.Children, ctypes.RunChild{Break: &ctypes.Break{}})
		}
		for j, seg := range strings.Split(line, "\t") {
			if j > 0 {
				out.Children = append(out.Children, ctypes.RunChild{Tab: &ctypes.Empty{}})
			}
			if seg == "" {
				continue
			}
			out.Children = append(out.Children, ctypes.RunChild{Text: ctypes.TextFromString(seg)})
		}
	}
	return out
}

// Bytes renders the document package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the .docx zip package to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.header != nil {
		if err := d.header.attach(d.root); err != nil {
			return 0, err
		}
		d.header = nil
	}
	cw := &countingWriter{w: w}
	if err := d.root.Write(cw); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
