package engine

import (
	"math"

	"construction-analytics/internal/model"
)

// ProjectAnalytics is the derived, disposable earned-value view of one
// project. It is recomputed in full from the input snapshot on every
// request and never mutated afterwards.
type ProjectAnalytics struct {
	ProjectID       uint    `json:"project_id"`
	ProjectCode     string  `json:"project_code"`
	ProjectSubCode  string  `json:"project_sub_code,omitempty"`
	ProjectFullCode string  `json:"project_full_code"`
	ProjectName     string  `json:"project_name,omitempty"`
	ContractAmount  float64 `json:"contract_amount"`
	Status          string  `json:"status"`

	TotalActivities     int `json:"total_activities"`
	CompletedActivities int `json:"completed_activities"`
	OnTrackActivities   int `json:"on_track_activities"`
	DelayedActivities   int `json:"delayed_activities"`

	TotalKPIRecords        int `json:"total_kpi_records"`
	PlannedKPIRecords      int `json:"planned_kpi_records"`
	ActualKPIRecords       int `json:"actual_kpi_records"`
	UnclassifiedKPIRecords int `json:"unclassified_kpi_records"`
	AtRiskKPIRecords       int `json:"at_risk_kpi_records"`

	TotalValue          float64 `json:"total_value"`
	TotalPlannedValue   float64 `json:"total_planned_value"`
	TotalEarnedValue    float64 `json:"total_earned_value"`
	TotalRemainingValue float64 `json:"total_remaining_value"`
	Variance            float64 `json:"variance"`

	TotalQuantity          float64 `json:"total_quantity"`
	TotalPlannedQuantity   float64 `json:"total_planned_quantity"`
	TotalEarnedQuantity    float64 `json:"total_earned_quantity"`
	TotalRemainingQuantity float64 `json:"total_remaining_quantity"`
	QuantityVariance       float64 `json:"quantity_variance"`

	PlannedProgress float64 `json:"planned_progress"`
	ActualProgress  float64 `json:"actual_progress"`
	OverallProgress float64 `json:"overall_progress"`

	VariancePercentage float64  `json:"variance_percentage"`
	ProjectStatus      string   `json:"project_status"`
	ProjectHealth      string   `json:"project_health"`
	RiskLevel          string   `json:"risk_level"`
	Recommendations    []string `json:"recommendations"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clampPercent limits a reported progress percentage to [0, 100].
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// percentOf computes part/whole*100 with a guarded denominator.
func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// MatchActivities filters the global activity collection down to the
// activities attributable to the given project.
func MatchActivities(key ProjectKey, activities []model.Activity) []model.Activity {
	var out []model.Activity
	for i := range activities {
		if MatchesProject(ActivityCodes(&activities[i]), key) {
			out = append(out, activities[i])
		}
	}
	return out
}

// MatchKPIRecords filters the global KPI collection down to the records
// attributable to the given project.
func MatchKPIRecords(key ProjectKey, kpis []model.KPIRecord) []model.KPIRecord {
	var out []model.KPIRecord
	for i := range kpis {
		if MatchesProject(KPICodes(&kpis[i]), key) {
			out = append(out, kpis[i])
		}
	}
	return out
}

// AnalyzeProject computes the full earned-value metric set for one
// project from the global activity and KPI collections. The computation
// is pure: it only reads its inputs and allocates a fresh result, so it
// is safe to invoke repeatedly and concurrently.
func AnalyzeProject(p *model.Project, activities []model.Activity, kpis []model.KPIRecord) ProjectAnalytics {
	key := NewProjectKey(p.Code, p.SubCode)
	matchedActivities := MatchActivities(key, activities)
	matchedKPIs := MatchKPIRecords(key, kpis)
	return aggregateProject(p, key, matchedActivities, matchedKPIs)
}

// aggregateProject sums resolved values and quantities over a project's
// matched records and derives the classification fields.
func aggregateProject(p *model.Project, key ProjectKey, activities []model.Activity, kpis []model.KPIRecord) ProjectAnalytics {
	out := ProjectAnalytics{
		ProjectID:       p.ID,
		ProjectCode:     key.Code,
		ProjectSubCode:  key.SubCode,
		ProjectFullCode: key.FullCode,
		ProjectName:     p.Name,
		ContractAmount:  p.ContractAmount,
		Status:          p.Status,
		TotalActivities: len(activities),
		TotalKPIRecords: len(kpis),
	}

	for i := range activities {
		a := &activities[i]
		switch {
		case a.ActivityCompleted:
			out.CompletedActivities++
		case a.ActivityDelayed:
			out.DelayedActivities++
		case a.ActivityOnTrack:
			out.OnTrackActivities++
		}
	}

	var plannedValue, earnedValue float64
	var plannedQty, earnedQty float64
	for i := range kpis {
		k := &kpis[i]
		if k.Status == model.KPIStatusAtRisk {
			out.AtRiskKPIRecords++
		}
		// Quantity accumulates in parallel with value so a record with an
		// unresolvable value never silently drops out of quantity totals.
		switch {
		case isPlannedKPI(k):
			out.PlannedKPIRecords++
			v, _ := ResolveKPIValue(k, activities)
			plannedValue += v
			plannedQty += k.Quantity
		case isActualKPI(k):
			out.ActualKPIRecords++
			v, _ := ResolveKPIValue(k, activities)
			earnedValue += v
			earnedQty += k.Quantity
		default:
			// Missing or unrecognized input type: excluded from both
			// totals rather than guessed, surfaced as a data-quality count.
			out.UnclassifiedKPIRecords++
		}
	}

	// The sum of all planned KPI value is the authoritative total scope
	// value, even when activities carry a different total. Quantity works
	// the other way around: activity unit sums are the quantity of record
	// when present. Intentional asymmetry; do not "fix".
	out.TotalPlannedValue = round2(plannedValue)
	out.TotalEarnedValue = round2(earnedValue)
	out.TotalValue = out.TotalPlannedValue
	out.TotalRemainingValue = round2(out.TotalValue - out.TotalEarnedValue)
	out.Variance = round2(out.TotalEarnedValue - out.TotalPlannedValue)

	var activityUnitsSum float64
	for i := range activities {
		activityUnitsSum += activityUnits(&activities[i])
	}
	out.TotalPlannedQuantity = round2(plannedQty)
	out.TotalEarnedQuantity = round2(earnedQty)
	if len(activities) > 0 && activityUnitsSum > 0 {
		out.TotalQuantity = round2(activityUnitsSum)
	} else {
		out.TotalQuantity = out.TotalPlannedQuantity
	}
	out.TotalRemainingQuantity = round2(out.TotalQuantity - out.TotalEarnedQuantity)
	out.QuantityVariance = round2(out.TotalEarnedQuantity - out.TotalPlannedQuantity)

	// Classification sees the raw percentages; clamping applies only to
	// the reported progress fields, so overachievement still reads as
	// ahead of schedule.
	rawActual := percentOf(out.TotalEarnedValue, out.TotalValue)
	rawPlanned := percentOf(out.TotalPlannedValue, out.TotalValue)
	out.ActualProgress = round2(clampPercent(rawActual))
	out.PlannedProgress = round2(clampPercent(rawPlanned))
	out.OverallProgress = out.ActualProgress

	out.VariancePercentage = VariancePercentage(rawActual, rawPlanned)
	out.ProjectStatus = ScheduleStatus(out.VariancePercentage)
	out.ProjectHealth = HealthTier(out.OverallProgress, out.DelayedActivities, out.TotalActivities)
	out.RiskLevel = RiskTier(out.DelayedActivities, out.TotalActivities, AverageDelayPercent(activities))
	out.Recommendations = Recommendations(&out)

	return out
}
