package engine

import (
	"reflect"
	"testing"

	"construction-analytics/internal/model"
)

// TestAnalyzeProject_RateDerivedEarnedValue tests the scenario where an
// actual KPI with no explicit value resolves through a matched activity's
// unit rate
func TestAnalyzeProject_RateDerivedEarnedValue(t *testing.T) {
	project := model.Project{Code: "X1", ContractAmount: 500000}
	activities := []model.Activity{
		{
			ProjectCode:  "X1",
			ActivityName: "Excavation",
			TotalUnits:   100,
			TotalValue:   50000,
		},
	}
	kpis := []model.KPIRecord{
		{ProjectCode: "X1", InputType: "Actual", ActivityName: "Excavation", Quantity: 20},
	}

	pa := AnalyzeProject(&project, activities, kpis)

	if pa.TotalEarnedValue != 10000 {
		t.Errorf("Expected earned value 10000 (rate 500 x quantity 20), got %f", pa.TotalEarnedValue)
	}
	if pa.TotalEarnedQuantity != 20 {
		t.Errorf("Expected earned quantity 20, got %f", pa.TotalEarnedQuantity)
	}
	if pa.ActualKPIRecords != 1 {
		t.Errorf("Expected 1 actual KPI record, got %d", pa.ActualKPIRecords)
	}
}

// TestAnalyzeProject_DelayedScenario tests the aggregation and
// classification of a project that is significantly behind schedule
func TestAnalyzeProject_DelayedScenario(t *testing.T) {
	project := model.Project{Code: "Y2"}
	kpis := []model.KPIRecord{
		{ProjectCode: "Y2", InputType: "Planned", PlannedValue: 1000, Quantity: 10},
		{ProjectCode: "Y2", InputType: "Planned", PlannedValue: 2000, Quantity: 20},
		{ProjectCode: "Y2", InputType: "Actual", ActivityName: "Paving", ActualValue: 900, Quantity: 9},
	}

	pa := AnalyzeProject(&project, nil, kpis)

	if pa.TotalPlannedValue != 3000 {
		t.Errorf("Expected total planned value 3000, got %f", pa.TotalPlannedValue)
	}
	if pa.TotalValue != 3000 {
		t.Errorf("Expected total value 3000 (planned KPI sum), got %f", pa.TotalValue)
	}
	if pa.TotalEarnedValue != 900 {
		t.Errorf("Expected total earned value 900, got %f", pa.TotalEarnedValue)
	}
	if pa.Variance != -2100 {
		t.Errorf("Expected variance -2100, got %f", pa.Variance)
	}
	if pa.ActualProgress != 30 {
		t.Errorf("Expected actual progress 30, got %f", pa.ActualProgress)
	}
	if pa.PlannedProgress != 100 {
		t.Errorf("Expected planned progress 100, got %f", pa.PlannedProgress)
	}
	if pa.VariancePercentage != -70 {
		t.Errorf("Expected variance percentage -70, got %f", pa.VariancePercentage)
	}
	if pa.ProjectStatus != StatusDelayed {
		t.Errorf("Expected project status %q, got %q", StatusDelayed, pa.ProjectStatus)
	}
}

// TestAnalyzeProject_EmptyProject tests the safe defaults for a project
// with no activities and no KPI records
func TestAnalyzeProject_EmptyProject(t *testing.T) {
	project := model.Project{Code: "Z9", ContractAmount: 100000}

	pa := AnalyzeProject(&project, nil, nil)

	if pa.TotalValue != 0 || pa.TotalPlannedValue != 0 || pa.TotalEarnedValue != 0 {
		t.Errorf("Expected zero value totals, got total=%f planned=%f earned=%f",
			pa.TotalValue, pa.TotalPlannedValue, pa.TotalEarnedValue)
	}
	if pa.ActualProgress != 0 || pa.PlannedProgress != 0 {
		t.Errorf("Expected zero progress, got actual=%f planned=%f",
			pa.ActualProgress, pa.PlannedProgress)
	}
	if pa.ProjectStatus != StatusOnTrack {
		t.Errorf("Expected default status %q, got %q", StatusOnTrack, pa.ProjectStatus)
	}
	if pa.RiskLevel != RiskLow {
		t.Errorf("Expected risk level %q, got %q", RiskLow, pa.RiskLevel)
	}
}

// TestAnalyzeProject_ProgressClamping tests that progress percentages
// stay within [0, 100] even when earned value exceeds total value
func TestAnalyzeProject_ProgressClamping(t *testing.T) {
	project := model.Project{Code: "C3"}
	kpis := []model.KPIRecord{
		{ProjectCode: "C3", InputType: "Planned", PlannedValue: 1000},
		{ProjectCode: "C3", InputType: "Actual", ActualValue: 2500},
	}

	pa := AnalyzeProject(&project, nil, kpis)

	if pa.ActualProgress < 0 || pa.ActualProgress > 100 {
		t.Errorf("Expected actual progress within [0,100], got %f", pa.ActualProgress)
	}
	if pa.ActualProgress != 100 {
		t.Errorf("Expected actual progress clamped to 100, got %f", pa.ActualProgress)
	}
	if pa.PlannedProgress < 0 || pa.PlannedProgress > 100 {
		t.Errorf("Expected planned progress within [0,100], got %f", pa.PlannedProgress)
	}
	// Variance is signed and never clamped
	if pa.Variance != 1500 {
		t.Errorf("Expected variance 1500, got %f", pa.Variance)
	}
	if pa.ProjectStatus != StatusAhead {
		t.Errorf("Expected project status %q, got %q", StatusAhead, pa.ProjectStatus)
	}
}

// TestAnalyzeProject_QuantityPrefersActivities tests the value/quantity
// source asymmetry: activity unit sums are the quantity of record while
// planned KPI sums remain the value of record
func TestAnalyzeProject_QuantityPrefersActivities(t *testing.T) {
	project := model.Project{Code: "Q1"}
	activities := []model.Activity{
		{ProjectCode: "Q1", ActivityName: "Formwork", TotalUnits: 400, TotalValue: 99999},
		{ProjectCode: "Q1", ActivityName: "Rebar", PlannedUnits: 100, TotalValue: 11111},
	}
	kpis := []model.KPIRecord{
		{ProjectCode: "Q1", InputType: "Planned", PlannedValue: 3000, Quantity: 30},
		{ProjectCode: "Q1", InputType: "Actual", ActualValue: 900, Quantity: 9},
	}

	pa := AnalyzeProject(&project, activities, kpis)

	if pa.TotalQuantity != 500 {
		t.Errorf("Expected total quantity 500 from activity units, got %f", pa.TotalQuantity)
	}
	if pa.TotalValue != 3000 {
		t.Errorf("Expected total value 3000 from planned KPIs despite activity values, got %f", pa.TotalValue)
	}
	if pa.TotalPlannedQuantity != 30 {
		t.Errorf("Expected planned quantity 30, got %f", pa.TotalPlannedQuantity)
	}
	if pa.TotalRemainingQuantity != 491 {
		t.Errorf("Expected remaining quantity 491, got %f", pa.TotalRemainingQuantity)
	}
}

// TestAnalyzeProject_QuantityFallsBackToPlannedKPIs tests quantity
// sourcing when no activity carries units
func TestAnalyzeProject_QuantityFallsBackToPlannedKPIs(t *testing.T) {
	project := model.Project{Code: "Q2"}
	activities := []model.Activity{
		{ProjectCode: "Q2", ActivityName: "Survey"},
	}
	kpis := []model.KPIRecord{
		{ProjectCode: "Q2", InputType: "Planned", PlannedValue: 1000, Quantity: 40},
	}

	pa := AnalyzeProject(&project, activities, kpis)

	if pa.TotalQuantity != 40 {
		t.Errorf("Expected total quantity 40 from planned KPIs, got %f", pa.TotalQuantity)
	}
}

// TestAnalyzeProject_UnclassifiedKPIsExcluded tests that records with a
// missing or unrecognized input type join neither total
func TestAnalyzeProject_UnclassifiedKPIsExcluded(t *testing.T) {
	project := model.Project{Code: "U1"}
	kpis := []model.KPIRecord{
		{ProjectCode: "U1", InputType: "Planned", PlannedValue: 1000, Quantity: 10},
		{ProjectCode: "U1", InputType: "", Value: 500, Quantity: 5},
		{ProjectCode: "U1", InputType: "forecast", Value: 700, Quantity: 7},
	}

	pa := AnalyzeProject(&project, nil, kpis)

	if pa.TotalPlannedValue != 1000 {
		t.Errorf("Expected planned value 1000 with unclassified records excluded, got %f", pa.TotalPlannedValue)
	}
	if pa.TotalEarnedValue != 0 {
		t.Errorf("Expected earned value 0, got %f", pa.TotalEarnedValue)
	}
	if pa.UnclassifiedKPIRecords != 2 {
		t.Errorf("Expected 2 unclassified KPI records, got %d", pa.UnclassifiedKPIRecords)
	}
	if pa.TotalKPIRecords != 3 {
		t.Errorf("Expected 3 total KPI records, got %d", pa.TotalKPIRecords)
	}
}

// TestAnalyzeProject_LegacyCodeMatching tests that legacy base-only
// records aggregate into a sub-coded project while foreign sub-codes
// stay out
func TestAnalyzeProject_LegacyCodeMatching(t *testing.T) {
	project := model.Project{Code: "P100", SubCode: "A"}
	kpis := []model.KPIRecord{
		{ProjectCode: "P100", InputType: "Planned", PlannedValue: 1000},
		{ProjectCode: "P100", ProjectFullCode: "P100-A", InputType: "Planned", PlannedValue: 2000},
		{ProjectCode: "P100", ProjectFullCode: "P100-B", InputType: "Planned", PlannedValue: 4000},
	}

	pa := AnalyzeProject(&project, nil, kpis)

	if pa.TotalPlannedValue != 3000 {
		t.Errorf("Expected planned value 3000 (legacy + matching full code), got %f", pa.TotalPlannedValue)
	}
	if pa.ProjectFullCode != "P100-A" {
		t.Errorf("Expected full code P100-A, got %q", pa.ProjectFullCode)
	}
}

// TestAnalyzeProject_Idempotence tests the pure-function property: two
// runs over identical input yield identical output
func TestAnalyzeProject_Idempotence(t *testing.T) {
	project := model.Project{ID: 7, Code: "I1", SubCode: "B", Name: "Interchange", ContractAmount: 750000}
	activities := []model.Activity{
		{ProjectCode: "I1", ProjectFullCode: "I1-B", ActivityName: "Piling", TotalUnits: 60, TotalValue: 12000, ActualUnits: 20, ActivityDelayed: true},
		{ProjectCode: "I1", ActivityName: "Deck", TotalUnits: 30, TotalValue: 9000, ActivityOnTrack: true},
	}
	kpis := []model.KPIRecord{
		{ProjectCode: "I1", InputType: "Planned", PlannedValue: 15000, Quantity: 90},
		{ProjectCode: "I1", InputType: "Actual", ActivityName: "Piling", Quantity: 20},
		{ProjectCode: "I1", InputType: "Actual", ActivityName: "Deck", Quantity: 5, Status: "at_risk"},
	}

	first := AnalyzeProject(&project, activities, kpis)
	second := AnalyzeProject(&project, activities, kpis)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical analytics across runs.\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// TestAnalyzeProject_ActivityStatusCounts tests the activity flag tallies
func TestAnalyzeProject_ActivityStatusCounts(t *testing.T) {
	project := model.Project{Code: "S1"}
	activities := []model.Activity{
		{ProjectCode: "S1", ActivityName: "A", ActivityCompleted: true},
		{ProjectCode: "S1", ActivityName: "B", ActivityDelayed: true},
		{ProjectCode: "S1", ActivityName: "C", ActivityOnTrack: true},
		{ProjectCode: "S1", ActivityName: "D", ActivityCompleted: true, ActivityDelayed: true},
	}

	pa := AnalyzeProject(&project, activities, nil)

	if pa.TotalActivities != 4 {
		t.Errorf("Expected 4 activities, got %d", pa.TotalActivities)
	}
	if pa.CompletedActivities != 2 {
		t.Errorf("Expected 2 completed activities (completed wins over delayed), got %d", pa.CompletedActivities)
	}
	if pa.DelayedActivities != 1 {
		t.Errorf("Expected 1 delayed activity, got %d", pa.DelayedActivities)
	}
	if pa.OnTrackActivities != 1 {
		t.Errorf("Expected 1 on-track activity, got %d", pa.OnTrackActivities)
	}
}
