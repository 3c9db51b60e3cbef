package server

import (
	"path"

	"businesscase/internal/domain"
	"businesscase/internal/importer"
	"businesscase/internal/numeric"
)

// Request payloads

// RecordRequest carries form values keyed by field key. Unknown keys are
// ignored and missing keys take their defaults.
type RecordRequest struct {
	Values map[string]string `json:"values" doc:"Field values keyed by field key" example:"{\"procesnavn\":\"Onboarding\",\"varighed_min\":\"35\"}"`
}

func (r RecordRequest) Record() domain.Record {
	return domain.RecordFromValues(r.Values)
}

// Response payloads

type FieldResponse struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Group   string `json:"group"`
	Default string `json:"default"`
}

type MetricsResponse struct {
	Metrics   domain.Metrics    `json:"metrics"`
	Formatted map[string]string `json:"formatted"`
}

type ArtifactResponse struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

type GenerationResponse struct {
	ID          string             `json:"id"`
	ProcessName string             `json:"process_name"`
	CreatedAt   string             `json:"created_at" format:"date-time"`
	Metrics     domain.Metrics     `json:"metrics"`
	Artifacts   []ArtifactResponse `json:"artifacts"`
	RequestedBy string             `json:"requested_by,omitempty" doc:"Token subject when the API is protected"`
}

type ImportResponse struct {
	Status  string            `json:"status" enum:"matched,no_match,unreadable"`
	Matched int               `json:"matched"`
	Values  map[string]string `json:"values"`
	Error   string            `json:"error,omitempty"`
}

type EventResponse struct {
	ID       int64  `json:"id"`
	TS       string `json:"ts" format:"date-time"`
	Type     string `json:"type"`
	EntityID string `json:"entity_id,omitempty"`
	Payload  string `json:"payload_json"`
}

// Mapping helpers

func fieldResponses(specs []domain.FieldSpec) []FieldResponse {
	out := make([]FieldResponse, 0, len(specs))
	for _, s := range specs {
		out = append(out, FieldResponse{Key: string(s.Key), Label: s.Label, Group: string(s.Group), Default: s.Default})
	}
	return out
}

func metricsResponse(m domain.Metrics) MetricsResponse {
	return MetricsResponse{
		Metrics: m,
		Formatted: map[string]string{
			"minutes_per_year": numeric.Format(m.MinutesPerYear, 0),
			"hours_per_year":   numeric.Format(m.HoursPerYear, 1),
			"fte":              numeric.Format(m.FTE, 2),
			"hourly_rate":      numeric.FormatCurrency(m.HourlyRate, 2),
			"cost_before":      numeric.FormatCurrency(m.CostBefore, 0),
			"hours_after":      numeric.Format(m.HoursAfter, 1),
			"cost_after":       numeric.FormatCurrency(m.CostAfter, 0),
			"annual_savings":   numeric.FormatCurrency(m.AnnualSavings, 0),
			"break_even_years": numeric.Format(m.BreakEvenYears, 1),
		},
	}
}

// downloadPath is the UI route serving a generated file.
func downloadPath(name string) string {
	return path.Join("/output", name)
}

func generationResponse(g domain.Generation) GenerationResponse {
	resp := GenerationResponse{
		ID:          g.ID,
		ProcessName: g.ProcessName,
		CreatedAt:   g.CreatedAt,
		Metrics:     g.Metrics,
		Artifacts:   []ArtifactResponse{},
	}
	for _, a := range g.Artifacts {
		resp.Artifacts = append(resp.Artifacts, ArtifactResponse{
			Kind:        string(a.Kind),
			Name:        a.Name,
			Size:        a.Size,
			DownloadURL: downloadPath(a.Name),
		})
	}
	return resp
}

func generationResponses(items []domain.Generation) []GenerationResponse {
	out := make([]GenerationResponse, 0, len(items))
	for _, g := range items {
		out = append(out, generationResponse(g))
	}
	return out
}

func importResponse(res importer.Result, err error) ImportResponse {
	resp := ImportResponse{
		Status:  string(res.Status),
		Matched: res.Matched,
		Values:  res.Record.Values(),
	}
	if err != nil {
		resp.Error = err.Error()
		if res.Message != "" {
			resp.Error = res.Message
		}
	}
	return resp
}

func eventResponses(items []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(items))
	for _, e := range items {
		out = append(out, EventResponse{ID: e.ID, TS: e.TS, Type: e.Type, EntityID: e.EntityID, Payload: e.Payload})
	}
	return out
}
