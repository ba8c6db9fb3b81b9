package repository

import (
	"fmt"
	"math/rand"
	"time"

	"construction-analytics/internal/model"

	"gorm.io/gorm"
)

// SeedRepository handles database seeding operations
type SeedRepository struct {
	db *gorm.DB
}

// NewSeedRepository creates a new seed repository
func NewSeedRepository(db *gorm.DB) *SeedRepository {
	return &SeedRepository{db: db}
}

// SeedDatabase seeds the database with demo projects, activities and KPI
// records. Identifier styles are deliberately mixed (legacy base-only
// codes, full codes, separator variants) so the reconciliation paths get
// exercised.
func (s *SeedRepository) SeedDatabase() error {
	if err := s.clearExistingData(); err != nil {
		return fmt.Errorf("failed to clear existing data: %w", err)
	}

	projects, err := s.createProjects()
	if err != nil {
		return fmt.Errorf("failed to create projects: %w", err)
	}

	activities, err := s.createActivities(projects)
	if err != nil {
		return fmt.Errorf("failed to create activities: %w", err)
	}

	totalKPIs, err := s.createKPIRecords(activities)
	if err != nil {
		return fmt.Errorf("failed to create KPI records: %w", err)
	}

	fmt.Printf("✓ Seeded database successfully:\n")
	fmt.Printf("  - Projects: %d\n", len(projects))
	fmt.Printf("  - Activities: %d\n", len(activities))
	fmt.Printf("  - KPI records: %d\n", totalKPIs)

	return nil
}

// clearExistingData removes existing data
func (s *SeedRepository) clearExistingData() error {
	if err := s.db.Exec("TRUNCATE TABLE kpi_records CASCADE").Error; err != nil {
		return err
	}
	if err := s.db.Exec("TRUNCATE TABLE activities CASCADE").Error; err != nil {
		return err
	}
	if err := s.db.Exec("TRUNCATE TABLE projects CASCADE").Error; err != nil {
		return err
	}
	return nil
}

// createProjects creates project entities across legacy and sub-coded
// identifier styles
func (s *SeedRepository) createProjects() ([]model.Project, error) {
	projects := []model.Project{
		{
			Code:           "HWY-2040",
			SubCode:        "A",
			Name:           "Highway 2040 Widening - Section A",
			ContractAmount: 12500000,
			Status:         model.ProjectStatusActive,
		},
		{
			Code:           "HWY-2040",
			SubCode:        "B",
			Name:           "Highway 2040 Widening - Section B",
			ContractAmount: 9800000,
			Status:         model.ProjectStatusActive,
		},
		{
			Code:           "TWR-15",
			Name:           "Tower 15 Residential",
			ContractAmount: 23000000,
			Status:         model.ProjectStatusActive,
		},
		{
			Code:           "WTP-03",
			SubCode:        "PH2",
			Name:           "Water Treatment Plant 03 - Phase 2",
			ContractAmount: 5400000,
			Status:         model.ProjectStatusOnHold,
		},
	}

	if err := s.db.Create(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

var seedActivityNames = []string{
	"Excavation",
	"Concrete Pouring",
	"Steel Fixing",
	"Formwork",
	"Backfill",
	"Asphalt Paving",
}

var seedZones = []string{"Zone 1", "Zone 2", "Zone 3", "General"}

// createActivities creates bill-of-quantities activities for each project.
// Roughly half the rows carry only the base project code, mimicking
// records entered before sub-codes were adopted.
func (s *SeedRepository) createActivities(projects []model.Project) ([]model.Activity, error) {
	activities := []model.Activity{}

	for pi, p := range projects {
		fullCode := p.Code
		if p.SubCode != "" {
			fullCode = p.Code + "-" + p.SubCode
		}
		for i, name := range seedActivityNames {
			totalUnits := float64(rand.Intn(900) + 100)
			rate := float64(rand.Intn(450) + 50)
			progress := rand.Float64()

			activity := model.Activity{
				ProjectCode:  p.Code,
				ActivityName: name,
				Zone:         seedZones[i%len(seedZones)],
				TotalUnits:   totalUnits,
				TotalValue:   totalUnits * rate,
				ActualUnits:  totalUnits * progress,
			}
			// Legacy rows carry no full code
			if (pi+i)%2 == 0 {
				activity.ProjectFullCode = fullCode
			}
			switch {
			case progress > 0.95:
				activity.ActivityCompleted = true
			case progress < 0.3:
				activity.ActivityDelayed = true
			default:
				activity.ActivityOnTrack = true
			}
			deadline := time.Now().AddDate(0, rand.Intn(10)+1, 0)
			activity.Deadline = &deadline

			activities = append(activities, activity)
		}
	}

	if err := s.db.Create(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}

// createKPIRecords creates dated planned and actual quantity observations
// for each activity over the past year
func (s *SeedRepository) createKPIRecords(activities []model.Activity) (int, error) {
	batchSize := 100
	batch := []model.KPIRecord{}
	totalRecords := 0

	statuses := []string{
		model.KPIStatusCompleted,
		model.KPIStatusOnTrack,
		model.KPIStatusDelayed,
		model.KPIStatusAtRisk,
	}

	for _, a := range activities {
		rate := 0.0
		if a.TotalUnits > 0 {
			rate = a.TotalValue / a.TotalUnits
		}

		// Monthly planned records covering the activity scope
		months := rand.Intn(6) + 3
		for m := 0; m < months; m++ {
			target := time.Now().AddDate(0, -m, 0)
			qty := a.TotalUnits / float64(months)
			record := model.KPIRecord{
				ProjectCode:     a.ProjectCode,
				ProjectFullCode: a.ProjectFullCode,
				ActivityName:    a.ActivityName,
				Zone:            a.Zone,
				InputType:       model.InputTypePlanned,
				Quantity:        qty,
				PlannedValue:    qty * rate,
				Status:          model.KPIStatusOnTrack,
				TargetDate:      &target,
			}
			batch = append(batch, record)
			totalRecords++
		}

		// Actual records; some rely on rate derivation by omitting values
		actuals := rand.Intn(months + 1)
		for m := 0; m < actuals; m++ {
			actualDate := time.Now().AddDate(0, -m, -rand.Intn(15))
			qty := (a.ActualUnits / float64(months)) * (0.6 + rand.Float64()*0.8)
			record := model.KPIRecord{
				ProjectCode:  a.ProjectCode,
				ActivityName: a.ActivityName,
				Zone:         a.Zone,
				InputType:    model.InputTypeActual,
				Quantity:     qty,
				Status:       statuses[rand.Intn(len(statuses))],
				ActualDate:   &actualDate,
			}
			if rand.Intn(2) == 0 {
				record.ActualValue = qty * rate
			}
			batch = append(batch, record)
			totalRecords++

			if len(batch) >= batchSize {
				if err := s.db.Create(&batch).Error; err != nil {
					return 0, fmt.Errorf("failed to create KPI record batch: %w", err)
				}
				batch = []model.KPIRecord{}
			}
		}
	}

	if len(batch) > 0 {
		if err := s.db.Create(&batch).Error; err != nil {
			return 0, fmt.Errorf("failed to create final KPI record batch: %w", err)
		}
	}

	return totalRecords, nil
}
