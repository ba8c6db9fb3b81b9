package repository

import (
	"construction-analytics/internal/model"

	"gorm.io/gorm"
)

// ProjectRepository defines the read and write-back operations against
// the project data store. The analytics engine never touches the store
// directly; it consumes the snapshots returned here.
type ProjectRepository interface {
	GetProjects() ([]model.Project, error)
	GetActivities() ([]model.Activity, error)
	GetKPIRecords() ([]model.KPIRecord, error)
	CreateKPIRecords(records []model.KPIRecord) error
	UpdateActivityRate(activityID uint, rate float64) error
	UpdateProjectFigures(projectID uint, progress, earnedValue float64) error
}

// projectRepository implements ProjectRepository
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// GetProjects returns the full project snapshot
func (r *projectRepository) GetProjects() ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.Order("code ASC, sub_code ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// GetActivities returns the full activity snapshot
func (r *projectRepository) GetActivities() ([]model.Activity, error) {
	var activities []model.Activity
	if err := r.db.Order("id ASC").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// GetKPIRecords returns the full KPI record snapshot
func (r *projectRepository) GetKPIRecords() ([]model.KPIRecord, error) {
	var kpis []model.KPIRecord
	if err := r.db.Order("id ASC").Find(&kpis).Error; err != nil {
		return nil, err
	}
	return kpis, nil
}

// CreateKPIRecords inserts a batch of normalized KPI records
func (r *projectRepository) CreateKPIRecords(records []model.KPIRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Create(&records).Error
}

// UpdateActivityRate caches a derived unit rate onto an activity row
func (r *projectRepository) UpdateActivityRate(activityID uint, rate float64) error {
	return r.db.Model(&model.Activity{}).
		Where("id = ?", activityID).
		Update("cached_rate", rate).Error
}

// UpdateProjectFigures caches derived progress and earned value onto a
// project row
func (r *projectRepository) UpdateProjectFigures(projectID uint, progress, earnedValue float64) error {
	return r.db.Model(&model.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"cached_progress":     progress,
			"cached_earned_value": earnedValue,
		}).Error
}
