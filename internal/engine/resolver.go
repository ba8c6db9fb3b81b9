package engine

import (
	"strings"

	"construction-analytics/internal/model"
)

// Value sources reported alongside resolved KPI contributions.
const (
	SourcePlannedValue = "planned_value"
	SourceGenericValue = "value"
	SourceActivityRate = "activity_rate"
	SourceActualValue  = "actual_value"
	SourceNone         = "none"
)

// trivialZones are sentinel zone values meaning "not zoned". They are
// ignored when matching a KPI record to an activity.
var trivialZones = map[string]struct{}{
	"":        {},
	"-":       {},
	"n/a":     {},
	"na":      {},
	"general": {},
	"all":     {},
}

func normalizeZone(zone string) string {
	z := strings.ToLower(strings.TrimSpace(zone))
	if _, ok := trivialZones[z]; ok {
		return ""
	}
	return z
}

func isPlannedKPI(k *model.KPIRecord) bool {
	return strings.EqualFold(strings.TrimSpace(k.InputType), model.InputTypePlanned)
}

func isActualKPI(k *model.KPIRecord) bool {
	return strings.EqualFold(strings.TrimSpace(k.InputType), model.InputTypeActual)
}

// valueResolver is one tier of the KPI value fallback chain. It returns
// the resolved value and whether it produced a usable (non-zero) result.
type valueResolver struct {
	source  string
	resolve func(k *model.KPIRecord, activities []model.Activity) (float64, bool)
}

// kpiValueResolvers is the ordered fallback chain for resolving a KPI
// record's monetary contribution. Tiers are tried in sequence and the
// first non-zero result wins.
var kpiValueResolvers = []valueResolver{
	{SourcePlannedValue, resolvePlannedValue},
	{SourceGenericValue, resolveGenericValue},
	{SourceActivityRate, resolveActivityRate},
	{SourceActualValue, resolveActualValue},
}

func resolvePlannedValue(k *model.KPIRecord, _ []model.Activity) (float64, bool) {
	if isPlannedKPI(k) && k.PlannedValue > 0 {
		return k.PlannedValue, true
	}
	return 0, false
}

func resolveGenericValue(k *model.KPIRecord, _ []model.Activity) (float64, bool) {
	if k.Value > 0 {
		return k.Value, true
	}
	return 0, false
}

func resolveActivityRate(k *model.KPIRecord, activities []model.Activity) (float64, bool) {
	if !isActualKPI(k) || k.Quantity <= 0 {
		return 0, false
	}
	a := FindMatchingActivity(k.ActivityName, k.Zone, activities)
	if a == nil {
		return 0, false
	}
	rate := ActivityRate(a)
	if rate <= 0 {
		return 0, false
	}
	return rate * k.Quantity, true
}

func resolveActualValue(k *model.KPIRecord, _ []model.Activity) (float64, bool) {
	if k.ActualValue > 0 {
		return k.ActualValue, true
	}
	return 0, false
}

// ResolveKPIValue resolves the monetary contribution of one KPI record
// already matched to a project, walking the fallback chain. It returns
// the value and the source tier that produced it; an exhausted chain
// yields 0 with source "none". The record's quantity contribution is
// independent of which tier fired.
func ResolveKPIValue(k *model.KPIRecord, activities []model.Activity) (float64, string) {
	for _, r := range kpiValueResolvers {
		if v, ok := r.resolve(k, activities); ok {
			return v, r.source
		}
	}
	return 0, SourceNone
}

// activity match scores; name agreement dominates zone agreement
const (
	nameEqualScore    = 8
	nameContainsScore = 4
	zoneEqualScore    = 2
	zoneContainsScore = 1
)

// FindMatchingActivity returns the single best-matching activity for a
// KPI record's activity name and zone, or nil when nothing matches.
// Names match on case-insensitive equality or substring containment in
// either direction. When both the record and a candidate carry a
// non-trivial zone the zones must also agree (equality or substring);
// a zone mismatch disqualifies the candidate outright. Equality always
// outranks containment, and ties keep the earliest candidate.
func FindMatchingActivity(name, zone string, activities []model.Activity) *model.Activity {
	kn := strings.ToLower(strings.TrimSpace(name))
	if kn == "" {
		return nil
	}
	kz := normalizeZone(zone)

	var best *model.Activity
	bestScore := 0
	for i := range activities {
		a := &activities[i]
		an := strings.ToLower(strings.TrimSpace(a.ActivityName))
		if an == "" {
			continue
		}

		var nameScore int
		switch {
		case an == kn:
			nameScore = nameEqualScore
		case strings.Contains(an, kn) || strings.Contains(kn, an):
			nameScore = nameContainsScore
		default:
			continue
		}

		zoneScore := 0
		az := normalizeZone(a.Zone)
		if kz != "" && az != "" {
			switch {
			case az == kz:
				zoneScore = zoneEqualScore
			case strings.Contains(az, kz) || strings.Contains(kz, az):
				zoneScore = zoneContainsScore
			default:
				continue
			}
		}

		if score := nameScore + zoneScore; score > bestScore {
			bestScore = score
			best = a
		}
	}
	return best
}
