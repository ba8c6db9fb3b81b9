package engine

import (
	"fmt"

	"construction-analytics/internal/model"
)

// Schedule status values
const (
	StatusAhead   = "ahead"
	StatusOnTrack = "on_track"
	StatusDelayed = "delayed"
)

// Health tiers
const (
	HealthExcellent = "excellent"
	HealthGood      = "good"
	HealthWarning   = "warning"
	HealthCritical  = "critical"
)

// Risk tiers
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// scheduleVarianceBand is the tolerance, in percent, inside which a
// project counts as on track.
const scheduleVarianceBand = 5.0

// VariancePercentage computes the schedule variance as a percentage of
// planned progress. With no planned progress, any actual progress counts
// as 100% ahead and none at all as no variance.
func VariancePercentage(actualProgress, plannedProgress float64) float64 {
	if plannedProgress > 0 {
		return round2((actualProgress - plannedProgress) / plannedProgress * 100)
	}
	if actualProgress > 0 {
		return 100
	}
	return 0
}

// ScheduleStatus classifies a variance percentage into ahead, on_track
// or delayed.
func ScheduleStatus(variancePercentage float64) string {
	switch {
	case variancePercentage > scheduleVarianceBand:
		return StatusAhead
	case variancePercentage < -scheduleVarianceBand:
		return StatusDelayed
	default:
		return StatusOnTrack
	}
}

// delayedShare returns the percentage of activities flagged delayed.
func delayedShare(delayed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(delayed) / float64(total) * 100
}

// HealthTier classifies overall progress combined with the proportion of
// delayed activities into four tiers.
func HealthTier(overallProgress float64, delayedActivities, totalActivities int) string {
	share := delayedShare(delayedActivities, totalActivities)
	switch {
	case overallProgress >= 90 && delayedActivities == 0:
		return HealthExcellent
	case overallProgress >= 70 && share <= 20:
		return HealthGood
	case overallProgress >= 50 || share <= 40:
		return HealthWarning
	default:
		return HealthCritical
	}
}

// RiskTier classifies delay exposure from the delayed-activity count and
// the average delay percentage, using ascending thresholds.
func RiskTier(delayedActivities, totalActivities int, avgDelayPercent float64) string {
	share := delayedShare(delayedActivities, totalActivities)
	switch {
	case delayedActivities == 0 && avgDelayPercent < 5:
		return RiskLow
	case share <= 20 && avgDelayPercent < 15:
		return RiskMedium
	case share <= 40 && avgDelayPercent < 30:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// AverageDelayPercent measures how far behind the delayed activities are,
// as the mean completion shortfall over activities flagged delayed. A
// delayed activity with no unit basis counts as a full 100% shortfall.
func AverageDelayPercent(activities []model.Activity) float64 {
	var sum float64
	count := 0
	for i := range activities {
		a := &activities[i]
		if !a.ActivityDelayed {
			continue
		}
		count++
		units := activityUnits(a)
		if units <= 0 {
			sum += 100
			continue
		}
		completion := clampPercent(a.ActualUnits / units * 100)
		sum += 100 - completion
	}
	if count == 0 {
		return 0
	}
	return round2(sum / float64(count))
}

// Recommendations derives dashboard-facing advice strings from a
// project's classified metrics.
func Recommendations(pa *ProjectAnalytics) []string {
	var recs []string
	if pa.ProjectStatus == StatusDelayed {
		recs = append(recs, "Project is significantly behind schedule - review critical path and resource allocation")
	}
	if pa.DelayedActivities > 0 {
		recs = append(recs, fmt.Sprintf("%d activities delayed - re-sequence work fronts to recover", pa.DelayedActivities))
	}
	if pa.AtRiskKPIRecords > 0 {
		recs = append(recs, fmt.Sprintf("%d activities at risk", pa.AtRiskKPIRecords))
	}
	switch pa.RiskLevel {
	case RiskCritical:
		recs = append(recs, "Critical delay risk - escalate to portfolio review")
	case RiskHigh:
		recs = append(recs, "High delay risk - expedite delayed activities")
	}
	if pa.ProjectHealth == HealthCritical {
		recs = append(recs, "Project health critical - audit scope and earned value inputs")
	}
	return recs
}
