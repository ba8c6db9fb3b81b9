package model

import (
	"strconv"
	"strings"
)

// Row is a loosely-typed record as it arrives from external intake:
// column names vary in spelling and case across data sources, and
// numbers may arrive as strings. Rows are normalized into typed records
// here, at the boundary; nothing downstream ever reads a raw bag.
type Row map[string]interface{}

// lookup finds the first alias present in the row, comparing keys
// case-insensitively with surrounding whitespace ignored.
func (r Row) lookup(aliases ...string) (interface{}, bool) {
	for _, alias := range aliases {
		for k, v := range r {
			if strings.EqualFold(strings.TrimSpace(k), alias) {
				return v, true
			}
		}
	}
	return nil, false
}

// Str reads a string field through its alias chain, returning "" when
// no alias is present.
func (r Row) Str(aliases ...string) string {
	v, ok := r.lookup(aliases...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	default:
		return ""
	}
}

// Num reads a numeric field through its alias chain, tolerating string
// encodings. Unreadable values yield 0.
func (r Row) Num(aliases ...string) float64 {
	v, ok := r.lookup(aliases...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Bool reads a boolean field through its alias chain, tolerating string
// and numeric encodings.
func (r Row) Bool(aliases ...string) bool {
	v, ok := r.lookup(aliases...)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	case float64:
		return b != 0
	case int:
		return b != 0
	default:
		return false
	}
}

// KPIRecordFromRow normalizes a loose row into a typed KPI record.
func KPIRecordFromRow(r Row) KPIRecord {
	return KPIRecord{
		ProjectCode:     r.Str("project_code", "projectcode", "code"),
		ProjectFullCode: r.Str("project_full_code", "full_code", "projectfullcode"),
		ActivityName:    r.Str("activity_name", "activity", "activityname"),
		Zone:            r.Str("zone", "area", "section"),
		InputType:       r.Str("input_type", "inputtype", "type"),
		Quantity:        r.Num("quantity", "qty"),
		PlannedValue:    r.Num("planned_value", "plannedvalue", "plan_value"),
		ActualValue:     r.Num("actual_value", "actualvalue"),
		Value:           r.Num("value", "kpi_value", "amount"),
		Status:          r.Str("status", "state"),
	}
}

// ActivityFromRow normalizes a loose row into a typed activity.
func ActivityFromRow(r Row) Activity {
	return Activity{
		ProjectCode:       r.Str("project_code", "projectcode", "code"),
		ProjectFullCode:   r.Str("project_full_code", "full_code", "projectfullcode"),
		ActivityName:      r.Str("activity_name", "activity", "activityname"),
		Zone:              r.Str("zone", "area", "section"),
		TotalUnits:        r.Num("total_units", "totalunits", "units"),
		PlannedUnits:      r.Num("planned_units", "plannedunits"),
		TotalValue:        r.Num("total_value", "totalvalue"),
		PlannedValue:      r.Num("planned_value", "plannedvalue"),
		ActualUnits:       r.Num("actual_units", "actualunits"),
		ActivityCompleted: r.Bool("activity_completed", "completed"),
		ActivityOnTrack:   r.Bool("activity_on_track", "on_track"),
		ActivityDelayed:   r.Bool("activity_delayed", "delayed"),
	}
}
