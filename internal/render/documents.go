package render

import (
	"fmt"

	"businesscase/internal/docx"
	"businesscase/internal/domain"
	"businesscase/internal/numeric"
)

// HeaderLogoInches is the width of the logo in document headers.
const HeaderLogoInches = 1.3

func (r *Renderer) newDocument() *docx.Document {
	d := docx.New()
	if r.Branding.HasLogo() {
		// unusable logos are skipped silently
		_ = d.SetHeaderImage(r.Branding.Logo, HeaderLogoInches)
	}
	return d
}

// ProcessDoc renders the process definition and robot specification
// document (PDD / RTS).
func (r *Renderer) ProcessDoc(rec domain.Record, m domain.Metrics) ([]byte, error) {
	d := r.newDocument()

	d.Heading("PDD / RTS – "+rec.Or(domain.FieldProcessName, "Proces"), 1)

	d.Heading("Overblik", 2)
	d.Text("Område: " + rec.Or(domain.FieldObjective, "HR / IT / Forretning"))
	d.Text("Procesejer: " + rec.Get(domain.FieldProcessOwner))
	d.Text("Sponsor: " + rec.Get(domain.FieldSponsor))
	d.Text("Udførende i dag: " + rec.Get(domain.FieldPerformer))
	d.Text("Systemer: " + rec.Get(domain.FieldSystems))

	d.Heading("Formål", 2)
	d.Text("At dokumentere den nuværende (AS-IS) proces og beskrive den fremtidige (TO-BE) automatiserede proces, " +
		"så RPA-udvikleren kan bygge, og ledelsen kan godkende.")

	d.Heading("Interessenter", 2)
	d.Text("- Procesejer / godkender: " + rec.Get(domain.FieldProcessOwner))
	d.Text("- SME / procesekspert: " + rec.Get(domain.FieldExpert))
	d.Text("- RPA-udvikler: " + rec.Get(domain.FieldDeveloper))
	d.Text("- Sponsor / ledelse: " + rec.Get(domain.FieldSponsor))

	d.Heading("AS-IS proces", 2)
	d.Text(rec.Or(domain.FieldAsIs, "Manuel proces med flere aktører."))

	d.Heading("TO-BE proces (RPA / PAD)", 2)
	d.Text(rec.Or(domain.FieldToBe, "Proces automatiseres, robotten henter input, opretter i systemer og logger resultat."))

	d.Heading("Input", 3)
	d.Text(rec.Get(domain.FieldInput))
	d.Heading("Output", 3)
	d.Text(rec.Get(domain.FieldOutput))
	d.Heading("Fejl / undtagelser", 3)
	d.Text(rec.Get(domain.FieldFailureModes))

	d.Heading("Økonomi (nøgletal)", 2)
	d.Text(fmt.Sprintf("Årligt tidsforbrug før automation: %s timer", numeric.Format(m.HoursPerYear, 1)))
	d.Text("Årlig besparelse: " + numeric.FormatCurrency(m.AnnualSavings, 0))
	d.Text("Investering: " + numeric.FormatCurrency(rec.Get(domain.FieldInvestment), 0))
	d.Text(fmt.Sprintf("Break-even: %s år", numeric.Format(m.BreakEvenYears, 1)))

	return d.Bytes()
}

// Leadership renders the management decision document. A non-empty raw-data
// field is attached as an appendix.
func (r *Renderer) Leadership(rec domain.Record, m domain.Metrics) ([]byte, error) {
	d := r.newDocument()

	d.Heading("Ledelsesbeskrivelse – "+rec.Or(domain.FieldProcessName, "Proces"), 1)
	d.Text("Formålet med dette dokument er at give ledelsen et klart beslutningsgrundlag for at automatisere processen.")

	d.Text("")
	d.Paragraph(docx.Bold("Executive summary:"))
	d.Table(ExecutiveSummary(rec, m))

	d.Heading("1. Baggrund og formål", 2)
	d.Text("Processen udføres i dag manuelt af én eller flere roller. Det giver risiko for manglende data, dobbeltindtastning og ventetid. " +
		"Automatiseringen skal standardisere opgaven og frigive tid til andre opgaver.")

	d.Heading("2. Procesbeskrivelse (AS-IS → TO-BE)", 2)
	d.Paragraph(docx.Bold("AS-IS:"))
	d.Text(rec.Or(domain.FieldAsIs, "Manuel proces uden standardisering."))
	d.Paragraph(docx.Bold("TO-BE:"))
	d.Text(rec.Or(domain.FieldToBe, "Proces køres som RPA-flow/PAD med faste input og logning."))

	d.Heading("3. Økonomi", 2)
	d.Text(fmt.Sprintf("Årligt tidsforbrug før automation: %s timer.", numeric.Format(m.HoursPerYear, 1)))
	d.Text(fmt.Sprintf("Årlig omkostning før: %s.", numeric.FormatCurrency(m.CostBefore, 0)))
	d.Text(fmt.Sprintf("Årlig omkostning efter: %s.", numeric.FormatCurrency(m.CostAfter, 0)))
	d.Text(fmt.Sprintf("Forventet årlig besparelse: %s.", numeric.FormatCurrency(m.AnnualSavings, 0)))
	d.Text(fmt.Sprintf("Investering: %s.", numeric.FormatCurrency(rec.Get(domain.FieldInvestment), 0)))
	d.Text(fmt.Sprintf("Break-even: %s år.", numeric.Format(m.BreakEvenYears, 1)))

	d.Heading("4. Roller og ansvar", 2)
	d.Text("Procesejer: " + rec.Get(domain.FieldProcessOwner))
	d.Text("Sponsor: " + rec.Get(domain.FieldSponsor))
	d.Text("SME / procesekspert: " + rec.Get(domain.FieldExpert))
	d.Text("RPA-udvikler: " + rec.Get(domain.FieldDeveloper))

	d.Heading("5. Gevinster (kvalitative)", 2)
	d.Text(rec.Or(domain.FieldBenefits, "Hurtigere levering, færre fejl, bedre datakvalitet, tilfredse medarbejdere."))

	d.Heading("6. Risiko og afhængigheder", 2)
	d.Text(rec.Or(domain.FieldDependencies, "Afhænger af adgang til HR-/fagsystemer og licenser."))

	d.Heading("7. Konklusion og anbefaling", 2)
	d.Text("Automatiseringen kan gennemføres med lav til middel risiko og med tydelig økonomisk effekt. " +
		"Det anbefales, at ledelsen godkender projektet og igangsætter udviklingen.")

	if raw := rec.Get(domain.FieldRawData); raw != "" {
		d.Heading("Bilag – rådata fra formular/upload", 2)
		d.Text(raw)
	}

	return d.Bytes()
}

// ExecutiveSummary returns the two-column summary table of the leadership
// document.
func ExecutiveSummary(rec domain.Record, m domain.Metrics) [][]string {
	return [][]string{
		{"Problem / nuværende situation", rec.Or(domain.FieldObjective, "Manuel proces med spildtid og fejl.")},
		{"Løsning", "Automatiseret RPA/PAD-flow i " + rec.Or(domain.FieldSystems, "relevante systemer")},
		{"Tidsforbrug før", fmt.Sprintf("%s min × %s pr. uge", rec.Or(domain.FieldDuration, "?"), rec.Or(domain.FieldFrequency, "?"))},
		{"Automationsgrad", rec.Or(domain.FieldAutomationPct, "80") + " %"},
		{"Årlig besparelse", numeric.FormatCurrency(m.AnnualSavings, 0)},
		{"Investering", numeric.FormatCurrency(rec.Get(domain.FieldInvestment), 0)},
		{"Break-even", numeric.Format(m.BreakEvenYears, 1) + " år"},
		{"Kvalitative gevinster", rec.Or(domain.FieldBenefits, "Færre fejl, hurtigere levering, bedre service")},
	}
}
