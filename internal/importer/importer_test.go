package importer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businesscase/internal/docx"
	"businesscase/internal/domain"
)

func TestClassifyLabel(t *testing.T) {
	cases := []struct {
		label string
		want  domain.Field
		ok    bool
	}{
		{"Procesnavn", domain.FieldProcessName, true},
		{"  FORMÅL ", domain.FieldObjective, true},
		{"Formaal", domain.FieldObjective, true},
		{"Udførende (roller/navne)", domain.FieldPerformer, true},
		{"Proces-ejer", domain.FieldProcessOwner, true},
		{"Sponsor / bestiller", domain.FieldSponsor, true},
		{"SME / procesekspert", domain.FieldExpert, true},
		{"RPA-udvikler", domain.FieldDeveloper, true},
		{"Systemer i brug", domain.FieldSystems, true},
		{"Varighed pr. opgave (min)", domain.FieldDuration, true},
		{"Frekvens (gange/uge)", domain.FieldFrequency, true},
		{"Arbejdsdage pr. år", domain.FieldWorkingDays, true},
		{"Årsløn (kr)", domain.FieldSalary, true},
		{"Automatiseringsgrad (%)", domain.FieldAutomationPct, true},
		{"Investering (kr)", domain.FieldInvestment, true},
		{"Årlig licens/drift (kr)", domain.FieldOperatingCost, true},
		{"Input", domain.FieldInput, true},
		{"Output", domain.FieldOutput, true},
		{"Typiske fejl/undtagelser", domain.FieldFailureModes, true},
		{"Kvalitative gevinster", domain.FieldBenefits, true},
		{"AS-IS beskrivelse (sådan gør vi i dag)", domain.FieldAsIs, true},
		{"TO-BE beskrivelse (sådan skal robotten gøre)", domain.FieldToBe, true},
		{"Afhængigheder", domain.FieldDependencies, true},
		// earlier rules win
		{"Investering i licens", domain.FieldInvestment, true},
		{"Procesnavn for drift", domain.FieldProcessName, true},
		// input/output are prefix rules
		{"Data input", "", false},
		{"Bemærkninger", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			got, ok := ClassifyLabel(tc.label)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func buildDocument(t *testing.T, lines ...string) []byte {
	t.Helper()
	d := docx.New()
	d.Heading("Spørgeskema", 1)
	for _, l := range lines {
		d.Text(l)
	}
	data, err := d.Bytes()
	require.NoError(t, err)
	return data
}

func TestImportDocumentSingleField(t *testing.T) {
	res, err := ImportDocumentBytes(buildDocument(t, "Procesnavn: Onboarding"))
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, res.Status)
	assert.Equal(t, 1, res.Matched)

	want := domain.NewRecord()
	want[domain.FieldProcessName] = "Onboarding"
	if diff := cmp.Diff(want, res.Record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestImportDocumentValueAfterFirstColon(t *testing.T) {
	res, err := ImportDocumentBytes(buildDocument(t,
		"Formål:  Hurtigere onboarding: færre fejl  ",
		"Årsløn (kr): 500.000",
		"Ukendt felt: ignoreres",
		"Ingen kolon her",
	))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, "Hurtigere onboarding: færre fejl", res.Record[domain.FieldObjective])
	assert.Equal(t, "500.000", res.Record[domain.FieldSalary])
}

func TestImportDocumentLaterLineWins(t *testing.T) {
	res, err := ImportDocumentBytes(buildDocument(t, "Procesnavn: A", "Procesnavn: B"))
	require.NoError(t, err)
	assert.Equal(t, "B", res.Record[domain.FieldProcessName])
}

func TestImportDocumentNoMatch(t *testing.T) {
	res, err := ImportDocumentBytes(buildDocument(t, "Bare tekst", "Noget: andet"))
	require.NoError(t, err)
	assert.Equal(t, StatusNoMatch, res.Status)
	if diff := cmp.Diff(domain.NewRecord(), res.Record); diff != "" {
		t.Fatalf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestImportDocumentUnreadable(t *testing.T) {
	res, err := ImportDocumentBytes([]byte("not a zip"))
	require.ErrorIs(t, err, ErrUnreadable)
	assert.Equal(t, StatusUnreadable, res.Status)
	assert.Equal(t, MsgUnreadableDocument, res.Record[domain.FieldRawData])
	assert.Equal(t, domain.NewRecord()[domain.FieldProcessName], res.Record[domain.FieldProcessName])
}

func TestImportJSONDirectFields(t *testing.T) {
	raw := []byte(`{"procesnavn": "Løn", "varighed_min": 12, "kritikalitet": null, "ukendt": "x", "systemer": ["SAP", "Excel"]}`)
	res, err := ImportJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, res.Status)
	assert.Equal(t, "Løn", res.Record[domain.FieldProcessName])
	assert.Equal(t, "12", res.Record[domain.FieldDuration])
	assert.Equal(t, "Middel", res.Record[domain.FieldCriticality])
	assert.Equal(t, "SAP, Excel", res.Record[domain.FieldSystems])
	assert.NotContains(t, res.Record, domain.Field("ukendt"))
}

func TestImportJSONNestedConventions(t *testing.T) {
	raw := []byte(`{
  "process_overview": {"process_name": "Onboarding", "objective": "Hurtigere", "systems_in_scope": ["AD", "Outlook"], "workdays_per_year": 220},
  "timing_analysis": {"minutes_per_hire": 45, "frequency_per_week": 0}
}`)
	res, err := ImportJSON(raw)
	require.NoError(t, err)
	rec := res.Record
	assert.Equal(t, "Onboarding", rec[domain.FieldProcessName])
	assert.Equal(t, "Hurtigere", rec[domain.FieldObjective])
	assert.Equal(t, "AD, Outlook", rec[domain.FieldSystems])
	assert.Equal(t, "45", rec[domain.FieldDuration])
	assert.Equal(t, "220", rec[domain.FieldWorkingDays])
	// zero frequency is ignored
	assert.Equal(t, "3", rec[domain.FieldFrequency])
}

func TestImportJSONKeepsPayloadPretty(t *testing.T) {
	res, err := ImportJSON([]byte(`{"b":1,"a":{"x":"æ"}}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": {\n    \"x\": \"æ\"\n  }\n}", res.Record[domain.FieldRawData])
}

func TestImportJSONMalformed(t *testing.T) {
	for _, raw := range []string{`{"a":`, `[1,2]`, `"text"`, ``} {
		res, err := ImportJSON([]byte(raw))
		require.ErrorIs(t, err, ErrMalformedJSON, raw)
		assert.Equal(t, StatusUnreadable, res.Status)
		assert.Contains(t, res.Record[domain.FieldRawData], "Kunne ikke læse JSON: ")
		assert.Equal(t, "35", res.Record[domain.FieldDuration])
	}
}
