package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"businesscase/internal/domain"
)

// ErrMalformedJSON is returned when an upload is not a JSON object.
var ErrMalformedJSON = errors.New("malformed json")

// ImportJSON overlays a previously exported JSON object on the defaults.
// Top-level keys that name a field are copied as strings; the
// process_overview and timing_analysis objects are read when present. The
// whole payload is kept pretty-printed in the raw-data field.
//
// A malformed payload yields a default record whose raw-data field carries
// the parse error, together with an error wrapping ErrMalformedJSON.
func ImportJSON(raw []byte) (Result, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	err := dec.Decode(&data)
	if err == nil && data == nil {
		err = errors.New("top-level value is not an object")
	}
	if err == nil && dec.More() {
		err = errors.New("trailing data after object")
	}
	if err != nil {
		rec := domain.NewRecord()
		msg := fmt.Sprintf(MsgUnreadableJSON, err)
		rec[domain.FieldRawData] = msg
		return Result{Record: rec, Status: StatusUnreadable, Message: msg},
			fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	rec := domain.NewRecord()
	matched := 0
	for _, spec := range domain.Fields() {
		v, ok := data[string(spec.Key)]
		if !ok {
			continue
		}
		if s, ok := scalarString(v); ok {
			rec[spec.Key] = s
			matched++
		}
	}

	po, _ := data["process_overview"].(map[string]any)
	if len(po) > 0 {
		if s, ok := scalarString(po["process_name"]); ok {
			rec[domain.FieldProcessName] = s
			matched++
		}
		if s, ok := scalarString(po["objective"]); ok {
			rec[domain.FieldObjective] = s
			matched++
		}
		switch systems := po["systems_in_scope"].(type) {
		case []any:
			rec[domain.FieldSystems] = joinList(systems)
			matched++
		case string:
			rec[domain.FieldSystems] = systems
			matched++
		}
	}

	ta, _ := data["timing_analysis"].(map[string]any)
	if len(ta) > 0 {
		if s, ok := scalarString(ta["minutes_per_hire"]); ok {
			rec[domain.FieldDuration] = s
			matched++
		}
		workdays := truthy(po["workdays_per_year"])
		if workdays == "" {
			workdays = truthy(ta["workdays_per_year"])
		}
		if workdays != "" {
			rec[domain.FieldWorkingDays] = workdays
			matched++
		}
		if freq := truthy(ta["frequency_per_week"]); freq != "" {
			rec[domain.FieldFrequency] = freq
			matched++
		}
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(raw), "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(bytes.TrimSpace(raw))
	}
	rec[domain.FieldRawData] = pretty.String()

	status := StatusMatched
	if matched == 0 {
		status = StatusNoMatch
	}
	return Result{Record: rec, Status: status, Matched: matched}, nil
}

// scalarString renders a decoded JSON scalar. Objects and null are not
// scalars; arrays are joined with ", ".
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case []any:
		return joinList(t), true
	default:
		return "", false
	}
}

// truthy returns the scalar form of v unless it is empty, zero or false.
func truthy(v any) string {
	s, ok := scalarString(v)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return ""
		}
	case bool:
		if !t {
			return ""
		}
	}
	return s
}

func joinList(items []any) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := scalarString(it); ok {
			parts = append(parts, s)
			continue
		}
		b, err := json.Marshal(it)
		if err == nil {
			parts = append(parts, string(b))
		}
	}
	return strings.Join(parts, ", ")
}
