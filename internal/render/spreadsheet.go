package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"businesscase/internal/domain"
	"businesscase/internal/numeric"
)

// Sheet names of the business-case workbook, in order.
const (
	SheetCover      = "Forside"
	SheetQuestions  = "Spørgsmål"
	SheetAsIs       = "PDD (AS-IS)"
	SheetToBe       = "RTS (TO-BE)"
	SheetEconomy    = "Økonomi"
	SheetCase       = "Business Case"
	SheetLeadership = "Ledelse"
)

// DateLayout is the cover-sheet date format.
const DateLayout = "02-01-2006"

const (
	logoCell   = "D1"
	logoWidth  = 180.0
	logoHeight = 90.0
)

// SheetNames returns the workbook sheets in order.
func SheetNames() []string {
	return []string{SheetCover, SheetQuestions, SheetAsIs, SheetToBe, SheetEconomy, SheetCase, SheetLeadership}
}

type cell struct {
	ref   string
	value any
}

// Spreadsheet renders the business-case workbook. Metric cells hold numbers,
// not formatted text.
func (r *Renderer) Spreadsheet(rec domain.Record, m domain.Metrics) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCover); err != nil {
		return nil, fmt.Errorf("rename cover sheet: %w", err)
	}
	for _, name := range SheetNames()[1:] {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}
	investment := numeric.Normalize(rec.Get(domain.FieldInvestment), 0)

	content := map[string][]cell{
		SheetCover: {
			{"A1", "RPA Business Case"},
			{"A3", "Procesnavn"}, {"B3", rec.Get(domain.FieldProcessName)},
			{"A4", "Formål"}, {"B4", rec.Get(domain.FieldObjective)},
			{"A5", "Procesejer"}, {"B5", rec.Get(domain.FieldProcessOwner)},
			{"A6", "Dato"}, {"B6", r.now().Format(DateLayout)},
		},
		SheetAsIs: {
			{"A1", "AS-IS beskrivelse"},
			{"A2", rec.Get(domain.FieldAsIs)},
		},
		SheetToBe: {
			{"A1", "TO-BE beskrivelse"},
			{"A2", rec.Get(domain.FieldToBe)},
		},
		SheetEconomy: {
			{"A1", "Parameter"}, {"B1", "Værdi"},
			{"A2", "Minutter pr. år"}, {"B2", m.MinutesPerYear},
			{"A3", "Timer pr. år"}, {"B3", m.HoursPerYear},
			{"A4", "Årlig omkostning før"}, {"B4", m.CostBefore},
			{"A5", "Årlig omkostning efter"}, {"B5", m.CostAfter},
			{"A6", "Årlig besparelse"}, {"B6", m.AnnualSavings},
			{"A7", "Investering"}, {"B7", investment},
			{"A8", "Break-even (år)"}, {"B8", m.BreakEvenYears},
		},
		SheetCase: {
			{"A1", "Business Case – samlet vurdering"},
			{"A3", "Anbefaling"}, {"B3", "Automatisering anbefales – lav risiko, hurtig gevinst."},
			{"A5", "Kvalitative gevinster"}, {"B5", rec.Get(domain.FieldBenefits)},
		},
		SheetLeadership: {
			{"A1", "Ledelsesoverblik"},
			{"A3", "Procesnavn"}, {"B3", rec.Get(domain.FieldProcessName)},
			{"A4", "Årlig besparelse"}, {"B4", m.AnnualSavings},
			{"A5", "Investering"}, {"B5", investment},
			{"A6", "Break-even (år)"}, {"B6", m.BreakEvenYears},
			{"A8", "Anbefaling"}, {"B8", "Automatisering anbefales – lav risiko, tydelig effekt."},
		},
	}

	questions := []cell{{"A1", "Felt"}, {"B1", "Værdi"}}
	for i, spec := range domain.Fields() {
		row := i + 2
		questions = append(questions,
			cell{fmt.Sprintf("A%d", row), string(spec.Key)},
			cell{fmt.Sprintf("B%d", row), rec.Get(spec.Key)},
		)
	}
	content[SheetQuestions] = questions

	for _, sheet := range SheetNames() {
		for _, c := range content[sheet] {
			if err := f.SetCellValue(sheet, c.ref, c.value); err != nil {
				return nil, fmt.Errorf("%s!%s: %w", sheet, c.ref, err)
			}
		}
	}

	layout := []struct {
		sheet, from, to string
		style           int
	}{
		{SheetCover, "A1", "A1", styles.title},
		{SheetQuestions, "A1", "B1", styles.header},
		{SheetEconomy, "A1", "B1", styles.header},
		{SheetAsIs, "A2", "A2", styles.wrap},
		{SheetToBe, "A2", "A2", styles.wrap},
		{SheetEconomy, "B2", "B8", styles.number},
		{SheetLeadership, "A1", "A1", styles.subtitle},
		{SheetLeadership, "B4", "B6", styles.number},
	}
	for _, l := range layout {
		if err := f.SetCellStyle(l.sheet, l.from, l.to, l.style); err != nil {
			return nil, fmt.Errorf("style %s!%s: %w", l.sheet, l.from, err)
		}
	}

	widths := []struct {
		sheet, col string
		width      float64
	}{
		{SheetCover, "A", 18},
		{SheetCover, "B", 40},
		{SheetQuestions, "A", 35},
		{SheetQuestions, "B", 80},
		{SheetAsIs, "A", 100},
		{SheetToBe, "A", 100},
		{SheetEconomy, "A", 28},
		{SheetEconomy, "B", 18},
		{SheetCase, "A", 28},
		{SheetCase, "B", 60},
		{SheetLeadership, "A", 28},
		{SheetLeadership, "B", 50},
	}
	for _, w := range widths {
		if err := f.SetColWidth(w.sheet, w.col, w.col, w.width); err != nil {
			return nil, fmt.Errorf("width %s!%s: %w", w.sheet, w.col, err)
		}
	}

	if r.Branding.HasLogo() {
		sx, sy := r.Branding.scaleTo(logoWidth, logoHeight)
		// a broken logo never fails the workbook
		_ = f.AddPictureFromBytes(SheetCover, logoCell, &excelize.Picture{
			Extension: r.Branding.Extension(),
			File:      r.Branding.Logo,
			Format:    &excelize.GraphicOptions{ScaleX: sx, ScaleY: sy},
		})
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	title, subtitle, header, wrap, number int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&s.subtitle, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&s.header, &excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F2F2F2"}},
		}},
		{&s.wrap, &excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}}},
		{&s.number, &excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF2CC"}},
			NumFmt: 4,
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return sheetStyles{}, fmt.Errorf("new style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}
