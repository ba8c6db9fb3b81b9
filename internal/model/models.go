package model

import (
	"time"

	"gorm.io/gorm"
)

// Project status values
const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// KPI input types. Matching against these is case-insensitive; records
// with any other input type are excluded from aggregation.
const (
	InputTypePlanned = "Planned"
	InputTypeActual  = "Actual"
)

// KPI record status values
const (
	KPIStatusCompleted = "completed"
	KPIStatusOnTrack   = "on_track"
	KPIStatusDelayed   = "delayed"
	KPIStatusAtRisk    = "at_risk"
)

// Project represents a construction project in the management platform
type Project struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Code           string  `gorm:"not null;size:64;index" json:"code"`
	SubCode        string  `gorm:"size:64" json:"sub_code"`
	Name           string  `gorm:"size:255" json:"name"`
	ContractAmount float64 `gorm:"type:decimal(14,2)" json:"contract_amount"`
	Status         string  `gorm:"size:32;default:active" json:"status"`

	// Cached analytics figures written by the optional sync path.
	// Never read by the engine; dashboards may use them as a stale view.
	CachedProgress    float64 `gorm:"type:decimal(7,2)" json:"cached_progress"`
	CachedEarnedValue float64 `gorm:"type:decimal(14,2)" json:"cached_earned_value"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Activity represents a planned scope-of-work line item belonging to one project
type Activity struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ProjectCode     string `gorm:"not null;size:64;index" json:"project_code"`
	ProjectFullCode string `gorm:"size:128;index" json:"project_full_code"`
	ActivityName    string `gorm:"not null;size:255" json:"activity_name"`
	Zone            string `gorm:"size:128" json:"zone"`

	TotalUnits   float64 `gorm:"type:decimal(14,2)" json:"total_units"`
	PlannedUnits float64 `gorm:"type:decimal(14,2)" json:"planned_units"`
	TotalValue   float64 `gorm:"type:decimal(14,2)" json:"total_value"`
	PlannedValue float64 `gorm:"type:decimal(14,2)" json:"planned_value"`
	ActualUnits  float64 `gorm:"type:decimal(14,2)" json:"actual_units"`

	ActivityCompleted bool       `json:"activity_completed"`
	ActivityOnTrack   bool       `json:"activity_on_track"`
	ActivityDelayed   bool       `json:"activity_delayed"`
	Deadline          *time.Time `gorm:"type:date" json:"deadline,omitempty"`

	// Cached unit rate written by the optional sync path.
	CachedRate float64 `gorm:"type:decimal(14,4)" json:"cached_rate"`
}

// TableName specifies the table name for Activity
func (Activity) TableName() string {
	return "activities"
}

// KPIRecord represents a dated quantity observation for a project,
// optionally linked to an activity by name and zone
type KPIRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ProjectCode     string `gorm:"not null;size:64;index" json:"project_code"`
	ProjectFullCode string `gorm:"size:128;index" json:"project_full_code"`
	ActivityName    string `gorm:"size:255" json:"activity_name"`
	Zone            string `gorm:"size:128" json:"zone"`

	InputType string  `gorm:"size:32" json:"input_type"`
	Quantity  float64 `gorm:"type:decimal(14,2)" json:"quantity"`

	PlannedValue float64 `gorm:"type:decimal(14,2)" json:"planned_value"`
	ActualValue  float64 `gorm:"type:decimal(14,2)" json:"actual_value"`
	Value        float64 `gorm:"type:decimal(14,2)" json:"value"`

	Status     string     `gorm:"size:32" json:"status"`
	TargetDate *time.Time `gorm:"type:date" json:"target_date,omitempty"`
	ActualDate *time.Time `gorm:"type:date" json:"actual_date,omitempty"`
}

// TableName specifies the table name for KPIRecord
func (KPIRecord) TableName() string {
	return "kpi_records"
}
