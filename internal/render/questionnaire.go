package render

import (
	"businesscase/internal/docx"
	"businesscase/internal/domain"
)

// Question is one line of the questionnaire.
type Question struct {
	Label string
	Field domain.Field
}

// Questions are worded so the document importer maps every label back to
// its field.
var Questions = []Question{
	{"Procesnavn", domain.FieldProcessName},
	{"Formål", domain.FieldObjective},
	{"Udførende (roller/navne)", domain.FieldPerformer},
	{"Procesejer", domain.FieldProcessOwner},
	{"Sponsor / bestiller", domain.FieldSponsor},
	{"SME / procesekspert", domain.FieldExpert},
	{"RPA-udvikler", domain.FieldDeveloper},
	{"Systemer i brug", domain.FieldSystems},
	{"Varighed pr. opgave (min)", domain.FieldDuration},
	{"Frekvens (gange/uge)", domain.FieldFrequency},
	{"Arbejdsdage pr. år", domain.FieldWorkingDays},
	{"Årsløn (kr)", domain.FieldSalary},
	{"Automatiseringsgrad (%)", domain.FieldAutomationPct},
	{"Investering (kr)", domain.FieldInvestment},
	{"Årlig licens/drift (kr)", domain.FieldOperatingCost},
	{"Input", domain.FieldInput},
	{"Output", domain.FieldOutput},
	{"Typiske fejl/undtagelser", domain.FieldFailureModes},
	{"Kvalitative gevinster", domain.FieldBenefits},
	{"AS-IS beskrivelse (sådan gør vi i dag)", domain.FieldAsIs},
	{"TO-BE beskrivelse (sådan skal robotten gøre)", domain.FieldToBe},
	{"Afhængigheder", domain.FieldDependencies},
}

// Questionnaire renders the fill-in document. With a nil record the answers
// are left blank; otherwise they are prefilled.
func (r *Renderer) Questionnaire(rec domain.Record) ([]byte, error) {
	d := r.newDocument()
	d.Heading("Business Case – spørgeskema", 1)
	d.Text("Udfyld felterne og upload dokumentet i BusinessCaseGPT.")
	for _, q := range Questions {
		d.Paragraph(docx.Bold(q.Label+": "), docx.Plain(rec.Get(q.Field)))
	}
	return d.Bytes()
}
