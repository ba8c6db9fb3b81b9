package engine

import (
	"construction-analytics/internal/model"
)

// DataQuality counts records that could not be attributed or classified.
// These are surfaced as signals, never raised as errors: a malformed
// record degrades one project's numbers, not the whole portfolio.
type DataQuality struct {
	UnmatchedActivities    int `json:"unmatched_activities"`
	UnmatchedKPIRecords    int `json:"unmatched_kpi_records"`
	UnclassifiedKPIRecords int `json:"unclassified_kpi_records"`
}

// PortfolioSummary combines per-project analytics into portfolio totals,
// a health-tier distribution and de-duplicated recommendations.
type PortfolioSummary struct {
	TotalProjects int `json:"total_projects"`

	TotalValue          float64 `json:"total_value"`
	TotalPlannedValue   float64 `json:"total_planned_value"`
	TotalEarnedValue    float64 `json:"total_earned_value"`
	TotalRemainingValue float64 `json:"total_remaining_value"`
	Variance            float64 `json:"variance"`

	OverallProgress float64 `json:"overall_progress"`

	HealthDistribution map[string]int `json:"health_distribution"`
	StatusDistribution map[string]int `json:"status_distribution"`
	Recommendations    []string       `json:"recommendations"`

	DataQuality DataQuality `json:"data_quality"`
}

// RollupPortfolio combines already-computed per-project analytics into a
// portfolio summary. Totals are summed from the per-project results, not
// recomputed from raw records.
func RollupPortfolio(results []ProjectAnalytics) PortfolioSummary {
	summary := PortfolioSummary{
		TotalProjects:      len(results),
		HealthDistribution: make(map[string]int),
		StatusDistribution: make(map[string]int),
	}

	seen := make(map[string]struct{})
	for i := range results {
		pa := &results[i]
		summary.TotalValue += pa.TotalValue
		summary.TotalPlannedValue += pa.TotalPlannedValue
		summary.TotalEarnedValue += pa.TotalEarnedValue
		summary.TotalRemainingValue += pa.TotalRemainingValue
		summary.Variance += pa.Variance
		summary.HealthDistribution[pa.ProjectHealth]++
		summary.StatusDistribution[pa.ProjectStatus]++
		summary.DataQuality.UnclassifiedKPIRecords += pa.UnclassifiedKPIRecords
		for _, rec := range pa.Recommendations {
			if _, ok := seen[rec]; ok {
				continue
			}
			seen[rec] = struct{}{}
			summary.Recommendations = append(summary.Recommendations, rec)
		}
	}

	summary.TotalValue = round2(summary.TotalValue)
	summary.TotalPlannedValue = round2(summary.TotalPlannedValue)
	summary.TotalEarnedValue = round2(summary.TotalEarnedValue)
	summary.TotalRemainingValue = round2(summary.TotalRemainingValue)
	summary.Variance = round2(summary.Variance)
	summary.OverallProgress = round2(clampPercent(percentOf(summary.TotalEarnedValue, summary.TotalValue)))

	return summary
}

// AnalyzePortfolio computes per-project analytics for every project in
// the snapshot plus the portfolio summary, including the counts of
// activities and KPI records that no project claimed.
func AnalyzePortfolio(projects []model.Project, activities []model.Activity, kpis []model.KPIRecord) ([]ProjectAnalytics, PortfolioSummary) {
	keys := make([]ProjectKey, len(projects))
	for i := range projects {
		keys[i] = NewProjectKey(projects[i].Code, projects[i].SubCode)
	}

	activityMatched := make([]bool, len(activities))
	kpiMatched := make([]bool, len(kpis))

	results := make([]ProjectAnalytics, 0, len(projects))
	for i := range projects {
		key := keys[i]
		var matchedActivities []model.Activity
		for j := range activities {
			if MatchesProject(ActivityCodes(&activities[j]), key) {
				activityMatched[j] = true
				matchedActivities = append(matchedActivities, activities[j])
			}
		}
		var matchedKPIs []model.KPIRecord
		for j := range kpis {
			if MatchesProject(KPICodes(&kpis[j]), key) {
				kpiMatched[j] = true
				matchedKPIs = append(matchedKPIs, kpis[j])
			}
		}
		results = append(results, aggregateProject(&projects[i], key, matchedActivities, matchedKPIs))
	}

	summary := RollupPortfolio(results)
	for _, matched := range activityMatched {
		if !matched {
			summary.DataQuality.UnmatchedActivities++
		}
	}
	for _, matched := range kpiMatched {
		if !matched {
			summary.DataQuality.UnmatchedKPIRecords++
		}
	}

	return results, summary
}
