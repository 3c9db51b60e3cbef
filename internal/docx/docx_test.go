package docx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func zipEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func TestRoundTripParagraphs(t *testing.T) {
	d := New()
	d.Heading("Titel", 1)
	d.Paragraph(Bold("Procesnavn: "), Plain("Onboarding"))
	d.Text("linje 1\nlinje 2\tmed tab")
	d.Table([][]string{{"a", "b"}, {"c"}})
	d.Text(`<tegn> & "citat"`)
	d.Text("")

	data, err := d.Bytes()
	require.NoError(t, err)

	paras, err := ParagraphsFromBytes(data)
	require.NoError(t, err)
	// table cell paragraphs are not top-level body paragraphs
	assert.Equal(t, []string{
		"Titel",
		"Procesnavn: Onboarding",
		"linje 1\nlinje 2\tmed tab",
		`<tegn> & "citat"`,
		"",
	}, paras)
}

func TestHeaderImage(t *testing.T) {
	d := New()
	require.NoError(t, d.SetHeaderImage(pngBytes(t, 200, 100), 1.3))
	d.Text("body")
	data, err := d.Bytes()
	require.NoError(t, err)

	entries := zipEntries(t, data)
	assert.Contains(t, entries, "word/header1.xml")
	assert.Contains(t, entries, "word/media/logo.png")
	assert.Contains(t, entries["word/document.xml"], `<w:headerReference w:type="default" r:id="rId9">`)
	assert.Contains(t, entries["word/_rels/document.xml.rels"], `Id="rId9"`)
	assert.Contains(t, entries["word/_rels/document.xml.rels"], `Target="header1.xml"`)
	assert.Contains(t, entries["word/_rels/header1.xml.rels"], `Target="media/logo.png"`)
	assert.Contains(t, entries["word/header1.xml"], `cx="1188720" cy="594360"`)
	assert.Contains(t, entries["[Content_Types].xml"], "/word/header1.xml")
	assert.Contains(t, entries["[Content_Types].xml"], `Extension="png"`)

	paras, err := ParagraphsFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"body"}, paras)
}

func TestTableStyleAndPadding(t *testing.T) {
	d := New()
	d.Table([][]string{{"Nøgletal", "Værdi"}, {"kun én"}})
	data, err := d.Bytes()
	require.NoError(t, err)

	doc := zipEntries(t, data)["word/document.xml"]
	assert.Contains(t, doc, `<w:tblStyle w:val="TableGrid">`)
	assert.Equal(t, 4, strings.Count(doc, "<w:tc>"))
	assert.Contains(t, doc, "Nøgletal")
}

func TestNoHeaderWithoutImage(t *testing.T) {
	data, err := New().Bytes()
	require.NoError(t, err)
	entries := zipEntries(t, data)
	assert.NotContains(t, entries, "word/header1.xml")
	assert.NotContains(t, entries["word/document.xml"], "headerReference")
}

func TestSetHeaderImageRejectsGarbage(t *testing.T) {
	err := New().SetHeaderImage([]byte("not an image"), 1.3)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestHeadingLevelsAreClamped(t *testing.T) {
	d := New()
	d.Heading("lav", 0)
	d.Heading("høj", 7)
	data, err := d.Bytes()
	require.NoError(t, err)

	doc := zipEntries(t, data)["word/document.xml"]
	assert.Contains(t, doc, `<w:pStyle w:val="Heading1">`)
	assert.Contains(t, doc, `<w:pStyle w:val="Heading3">`)
	assert.NotContains(t, doc, "Heading7")
}

func TestParagraphsRejectsNonDocuments(t *testing.T) {
	_, err := ParagraphsFromBytes([]byte("plain text"))
	assert.ErrorIs(t, err, ErrNotDocument)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("other.xml")
	f.Write([]byte("<x/>"))
	require.NoError(t, zw.Close())
	_, err = ParagraphsFromBytes(buf.Bytes())
	assert.ErrorIs(t, err, ErrNotDocument)

	buf.Reset()
	zw = zip.NewWriter(&buf)
	f, _ = zw.Create("word/document.xml")
	f.Write([]byte("<w:document><w:body><w:p>"))
	require.NoError(t, zw.Close())
	_, err = ParagraphsFromBytes(buf.Bytes())
	assert.ErrorIs(t, err, ErrNotDocument)
}
