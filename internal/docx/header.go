package docx

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/gomutex/godocx/common/constants"
	"github.com/gomutex/godocx/common/units"
	godocxdoc "github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
	"github.com/gomutex/godocx/wml/stypes"
)

// godocx has no header parts, so the header, its relationships and the
// image are added to the package by hand.
const (
	headerPart     = "word/header1.xml"
	headerRelsPart = "word/_rels/header1.xml.rels"
	headerType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	relHeader      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relsNS         = "http://schemas.openxmlformats.org/package/2006/relationships"
)

type headerImage struct {
	data   []byte
	format string
	cx, cy int64
}

func newHeaderImage(data []byte, format string, widthInches float64, w, h int) *headerImage {
	cx := int64(units.Inch(widthInches).ToEmu())
	return &headerImage{data: data, format: format, cx: cx, cy: cx * int64(h) / int64(w)}
}

func (h *headerImage) mediaName() string {
	return "logo." + h.format
}

// attach stores the header part and the image in root and references the
// header from the final section.
func (h *headerImage) attach(root *godocxdoc.RootDoc) error {
	mime, err := godocxdoc.MIMEFromExt(h.format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if !hasExtension(root.ContentType, h.format) {
		_ = root.ContentType.AddExtension(h.format, mime)
	}
	_ = root.ContentType.AddOverride("/"+headerPart, headerType)

	doc := root.Document
	id := "rId" + strconv.Itoa(doc.IncRelationID())
	doc.DocRels.Relationships = append(doc.DocRels.Relationships, &godocxdoc.Relationship{
		ID:     id,
		Type:   relHeader,
		Target: "header1.xml",
	})

	root.FileMap.Store(headerPart, []byte(h.headerXML()))
	root.FileMap.Store(headerRelsPart, []byte(h.headerRels()))
	root.FileMap.Store(constants.MediaPath+h.mediaName(), h.data)

	if doc.Body.SectPr == nil {
		doc.Body.SectPr = ctypes.NewSectionProper()
	}
	doc.Body.SectPr.HeaderReference = &ctypes.HeaderReference{Type: stypes.HdrFtrDefault, ID: id}
	return nil
}

func hasExtension(ct godocxdoc.ContentTypes, ext string) bool {
	for _, d := range ct.Default {
		if d.Extension == ext {
			return true
		}
	}
	return false
}

func (h *headerImage) headerRels() string {
	return xml.Header + `<Relationships xmlns="` + relsNS + `">` +
		`<Relationship Id="rId1" Type="` + constants.SourceRelationshipImage + `" Target="media/` + h.mediaName() + `"/>` +
		`</Relationships>`
}

func (h *headerImage) headerXML() string {
	return fmt.Sprintf(xml.Header+`<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`+
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`+
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"`+
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`+
		` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[1]d" cy="%[2]d"/><wp:docPr id="1" name="Logo"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic><pic:nvPicPr><pic:cNvPr id="0" name="%[3]s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="rId1"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p></w:hdr>`,
		h.cx, h.cy, h.mediaName())
}
