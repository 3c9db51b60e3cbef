package domain

import "strings"

// Field is the wire key of a form field. Keys match the form input names so
// previously exported JSON files keep importing.
type Field string

const (
	FieldProcessName   Field = "procesnavn"
	FieldObjective     Field = "formaal"
	FieldPerformer     Field = "udfoerende"
	FieldProcessOwner  Field = "proces_ejer"
	FieldExpert        Field = "sme"
	FieldDeveloper     Field = "rpa_udvikler"
	FieldSponsor       Field = "sponsor"
	FieldSystems       Field = "systemer"
	FieldAsIs          Field = "as_is_beskrivelse"
	FieldToBe          Field = "to_be_beskrivelse"
	FieldDuration      Field = "varighed_min"
	FieldFrequency     Field = "frekvens_pr_uge"
	FieldWorkingDays   Field = "arbejdsdage_pr_aar"
	FieldSalary        Field = "aarSloen_kr"
	FieldAutomationPct Field = "automationsgrad_pct"
	FieldInvestment    Field = "investering_kr"
	FieldOperatingCost Field = "drift_aarlig_kr"
	FieldCriticality   Field = "kritikalitet"
	FieldInput         Field = "input"
	FieldOutput        Field = "output"
	FieldFailureModes  Field = "fejl"
	FieldBenefits      Field = "kvalitative"
	FieldRuleScore     Field = "rst_regel"
	FieldStableScore   Field = "rst_stabil"
	FieldTimeScore     Field = "rst_tid"
	FieldDependencies  Field = "afhaengigheder"
	FieldRawData       Field = "extra_json"
)

// FieldGroup classifies a field for documentation and UI purposes.
type FieldGroup string

const (
	GroupIdentity  FieldGroup = "identity"
	GroupNumeric   FieldGroup = "numeric"
	GroupNarrative FieldGroup = "narrative"
	GroupRaw       FieldGroup = "raw"
)

// FieldSpec describes one field of the record.
type FieldSpec struct {
	Key     Field      `json:"key"`
	Label   string     `json:"label"`
	Group   FieldGroup `json:"group"`
	Default string     `json:"default"`
}

var fieldSpecs = []FieldSpec{
	{FieldProcessName, "Procesnavn", GroupIdentity, ""},
	{FieldObjective, "Formål", GroupIdentity, ""},
	{FieldPerformer, "Udførende", GroupIdentity, ""},
	{FieldProcessOwner, "Procesejer", GroupIdentity, ""},
	{FieldExpert, "SME / procesekspert", GroupIdentity, ""},
	{FieldDeveloper, "RPA-udvikler", GroupIdentity, ""},
	{FieldSponsor, "Sponsor", GroupIdentity, ""},
	{FieldSystems, "Systemer i brug", GroupIdentity, "Excel, Outlook, SharePoint, Power Automate"},
	{FieldAsIs, "AS-IS beskrivelse", GroupNarrative, ""},
	{FieldToBe, "TO-BE beskrivelse", GroupNarrative, ""},
	{FieldDuration, "Varighed pr. opgave (min)", GroupNumeric, "35"},
	{FieldFrequency, "Frekvens (gange/uge)", GroupNumeric, "3"},
	{FieldWorkingDays, "Arbejdsdage pr. år", GroupNumeric, "250"},
	{FieldSalary, "Årsløn (kr)", GroupNumeric, "450000"},
	{FieldAutomationPct, "Automationsgrad (%)", GroupNumeric, "80"},
	{FieldInvestment, "Investering (kr)", GroupNumeric, "60000"},
	{FieldOperatingCost, "Årlig drift/licens (kr)", GroupNumeric, "0"},
	{FieldCriticality, "Proceskritikalitet", GroupIdentity, "Middel"},
	{FieldInput, "Input", GroupNarrative, "Mail fra teamleder, Excel med medarbejderdata"},
	{FieldOutput, "Output", GroupNarrative, "Beregnet regneark, statusmail, logfil"},
	{FieldFailureModes, "Typiske fejl/undtagelser", GroupNarrative, "Manglende data, forkert systemvalg, dobbeltindtastning"},
	{FieldBenefits, "Kvalitative gevinster", GroupNarrative, "Færre fejl, hurtigere levering, bedre kvalitet"},
	{FieldRuleScore, "Regelbaseret (1-5)", GroupNumeric, "4"},
	{FieldStableScore, "Stabilitet (1-5)", GroupNumeric, "3"},
	{FieldTimeScore, "Tidsbesparelse (1-5)", GroupNumeric, "3"},
	{FieldDependencies, "Afhængigheder", GroupNarrative, "Afhænger af HR-data, licens, godkendelse fra IT"},
	{FieldRawData, "Ekstra JSON / rå data", GroupRaw, ""},
}

var knownFields = func() map[Field]FieldSpec {
	m := make(map[Field]FieldSpec, len(fieldSpecs))
	for _, s := range fieldSpecs {
		m[s.Key] = s
	}
	return m
}()

// Fields returns the field catalogue in canonical order.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(fieldSpecs))
	copy(out, fieldSpecs)
	return out
}

// IsField reports whether key names a known field.
func IsField(key string) bool {
	_, ok := knownFields[Field(key)]
	return ok
}

// Record is the process description filled in by the operator.
// A Record built by NewRecord always carries every field.
type Record map[Field]string

// NewRecord returns a record populated with every default.
func NewRecord() Record {
	r := make(Record, len(fieldSpecs))
	for _, s := range fieldSpecs {
		r[s.Key] = s.Default
	}
	return r
}

// RecordFromValues overlays values on the defaults. Unknown keys are ignored
// and values are trimmed.
func RecordFromValues(values map[string]string) Record {
	r := NewRecord()
	for k, v := range values {
		if !IsField(k) {
			continue
		}
		r[Field(k)] = strings.TrimSpace(v)
	}
	return r
}

// Get returns the value of f, or "" when the key is absent.
func (r Record) Get(f Field) string {
	return r[f]
}

// Or returns the value of f, or fallback when it is blank.
func (r Record) Or(f Field, fallback string) string {
	if v := strings.TrimSpace(r[f]); v != "" {
		return r[f]
	}
	return fallback
}

// Clone returns an independent copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Values returns the record as a plain string map, the shape used on the wire.
func (r Record) Values() map[string]string {
	out := make(map[string]string, len(r))
	for k, v := range r {
		out[string(k)] = v
	}
	return out
}

// Metrics are the derived return-on-investment figures for a record.
type Metrics struct {
	MinutesPerYear float64 `json:"minutes_per_year"`
	HoursPerYear   float64 `json:"hours_per_year"`
	FTE            float64 `json:"fte"`
	HourlyRate     float64 `json:"hourly_rate"`
	CostBefore     float64 `json:"cost_before"`
	HoursAfter     float64 `json:"hours_after"`
	CostAfter      float64 `json:"cost_after"`
	AnnualSavings  float64 `json:"annual_savings"`
	BreakEvenYears float64 `json:"break_even_years"`
}

// ArtifactKind tags a generated file.
type ArtifactKind string

const (
	ArtifactSpreadsheet ArtifactKind = "BC"
	ArtifactProcessDoc  ArtifactKind = "PDD_RTS"
	ArtifactLeadership  ArtifactKind = "Ledelsesbeskrivelse"
)

// Artifact is one file written by a generation.
type Artifact struct {
	Kind ArtifactKind `json:"kind"`
	Name string       `json:"name"`
	Path string       `json:"path"`
	Size int64        `json:"size"`
}

// Generation summarises one generation request.
type Generation struct {
	ID          string     `json:"id"`
	ProcessName string     `json:"process_name"`
	CreatedAt   string     `json:"created_at" format:"date-time"`
	Metrics     Metrics    `json:"metrics"`
	Artifacts   []Artifact `json:"artifacts"`
}

// Event is an entry of the session journal.
type Event struct {
	ID       int64  `json:"id"`
	TS       string `json:"ts" format:"date-time"`
	Type     string `json:"type"`
	EntityID string `json:"entity_id,omitempty"`
	Payload  string `json:"payload_json"`
}
