// Package roi computes the return-on-investment figures for automating a
// process.
package roi

import (
	"businesscase/internal/domain"
	"businesscase/internal/numeric"
)

const (
	// WeeksPerYear scales weekly frequency to a year.
	WeeksPerYear = 52
	// HoursPerFTE is the productive hours of one full-time employee per year.
	HoursPerFTE = 1540.0
)

// Defaults applied when a numeric driver is empty or unparseable.
const (
	DefaultDuration      = 0.0
	DefaultFrequency     = 0.0
	DefaultSalary        = 450000.0
	DefaultAutomationPct = 80.0
	DefaultInvestment    = 60000.0
	DefaultOperatingCost = 0.0
)

// Calculate derives the metrics for r. It is a pure function of the numeric
// fields of r.
func Calculate(r domain.Record) domain.Metrics {
	duration := numeric.Normalize(r.Get(domain.FieldDuration), DefaultDuration)
	frequency := numeric.Normalize(r.Get(domain.FieldFrequency), DefaultFrequency)
	salary := numeric.Normalize(r.Get(domain.FieldSalary), DefaultSalary)
	automation := numeric.Normalize(r.Get(domain.FieldAutomationPct), DefaultAutomationPct)
	investment := numeric.Normalize(r.Get(domain.FieldInvestment), DefaultInvestment)
	operating := numeric.Normalize(r.Get(domain.FieldOperatingCost), DefaultOperatingCost)

	var m domain.Metrics
	m.MinutesPerYear = duration * frequency * WeeksPerYear
	m.HoursPerYear = m.MinutesPerYear / 60.0
	if m.HoursPerYear > 0 {
		m.FTE = m.HoursPerYear / HoursPerFTE
	}
	if salary > 0 {
		m.HourlyRate = salary / HoursPerFTE
	}
	m.CostBefore = m.HoursPerYear * m.HourlyRate
	m.HoursAfter = m.HoursPerYear * (1 - automation/100.0)
	m.CostAfter = m.HoursAfter*m.HourlyRate + operating
	m.AnnualSavings = m.CostBefore - m.CostAfter
	// 0 means no break-even: savings are not positive.
	if m.AnnualSavings > 0 {
		m.BreakEvenYears = investment / m.AnnualSavings
	}
	return m
}
