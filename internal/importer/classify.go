package importer

import (
	"strings"

	"businesscase/internal/domain"
)

type rule struct {
	field    domain.Field
	contains []string
	prefix   string
}

func (r rule) matches(label string) bool {
	if r.prefix != "" && strings.HasPrefix(label, r.prefix) {
		return true
	}
	for _, kw := range r.contains {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}

// rules are evaluated top to bottom; the first match wins. The order is part
// of the import behaviour and must not be changed.
var rules = []rule{
	{field: domain.FieldProcessName, contains: []string{"procesnavn"}},
	{field: domain.FieldObjective, contains: []string{"formål", "formaal"}},
	{field: domain.FieldPerformer, contains: []string{"udførende", "udfoerende"}},
	{field: domain.FieldProcessOwner, contains: []string{"procesejer", "proces-ejer"}},
	{field: domain.FieldSponsor, contains: []string{"sponsor"}},
	{field: domain.FieldExpert, contains: []string{"sme"}},
	{field: domain.FieldDeveloper, contains: []string{"rpa"}},
	{field: domain.FieldSystems, contains: []string{"systemer"}},
	{field: domain.FieldDuration, contains: []string{"varighed"}},
	{field: domain.FieldFrequency, contains: []string{"frekvens"}},
	{field: domain.FieldWorkingDays, contains: []string{"arbejdsdage"}},
	{field: domain.FieldSalary, contains: []string{"årsløn", "aarsløn", "årsloen"}},
	{field: domain.FieldAutomationPct, contains: []string{"automatiseringsgrad"}},
	{field: domain.FieldInvestment, contains: []string{"investering"}},
	{field: domain.FieldOperatingCost, contains: []string{"licens", "drift"}},
	{field: domain.FieldInput, prefix: "input"},
	{field: domain.FieldOutput, prefix: "output"},
	{field: domain.FieldFailureModes, contains: []string{"fejl", "undtagelser"}},
	{field: domain.FieldBenefits, contains: []string{"kvalitative"}},
	{field: domain.FieldAsIs, contains: []string{"as-is"}},
	{field: domain.FieldToBe, contains: []string{"to-be"}},
	{field: domain.FieldDependencies, contains: []string{"afhæng", "afhaeng"}},
}

// ClassifyLabel maps the text before the colon of a "label: value" line to a
// field. Matching is case-insensitive and substring based.
func ClassifyLabel(label string) (domain.Field, bool) {
	key := strings.TrimSpace(strings.ToLower(label))
	if key == "" {
		return "", false
	}
	for _, r := range rules {
		if r.matches(key) {
			return r.field, true
		}
	}
	return "", false
}

// splitLabeled splits "label: value" at the first colon.
func splitLabeled(line string) (label, value string, ok bool) {
	line = strings.TrimSpace(line)
	label, value, found := strings.Cut(line, ":")
	if !found || strings.TrimSpace(label) == "" {
		return "", "", false
	}
	return label, strings.TrimSpace(value), true
}
