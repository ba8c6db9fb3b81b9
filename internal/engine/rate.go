package engine

import (
	"math"

	"construction-analytics/internal/model"
)

// activityUnits returns the quantity basis for an activity, preferring
// total units over planned units.
func activityUnits(a *model.Activity) float64 {
	if a.TotalUnits > 0 {
		return a.TotalUnits
	}
	return a.PlannedUnits
}

// activityValue returns the value basis for an activity, preferring total
// value over planned value.
func activityValue(a *model.Activity) float64 {
	if a.TotalValue > 0 {
		return a.TotalValue
	}
	return a.PlannedValue
}

// ActivityRate derives the unit rate for an activity from its value and
// quantity bases. A zero or negative basis on either side yields rate 0:
// there is no pricing information, which is a valid state, not an error.
func ActivityRate(a *model.Activity) float64 {
	units := activityUnits(a)
	value := activityValue(a)
	if units <= 0 || value <= 0 {
		return 0
	}
	rate := value / units
	return math.Round(rate*10000) / 10000 // Round to 4 decimal places
}
