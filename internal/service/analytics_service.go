package service

import (
	"errors"
	"fmt"
	"strings"

	"construction-analytics/internal/engine"
	"construction-analytics/internal/model"
	"construction-analytics/internal/repository"
)

// ErrProjectNotFound is returned when no project matches the requested code.
var ErrProjectNotFound = errors.New("project not found")

// AnalyticsService defines the interface for analytics operations
type AnalyticsService interface {
	ProjectExists(code string) (bool, error)
	GetProjectAnalytics(code string) (*engine.ProjectAnalytics, error)
	GetPortfolioAnalytics() (*PortfolioResponse, error)
	SyncDerivedFigures() (*SyncReport, error)
	ImportKPIRecords(rows []model.Row) (*ImportReport, error)
}

// ImportReport summarizes a loose-row KPI intake run. Rows without any
// usable project identifier are skipped and counted, not rejected.
type ImportReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// PortfolioResponse bundles the per-project analytics with the portfolio
// summary
type PortfolioResponse struct {
	Projects []engine.ProjectAnalytics `json:"projects"`
	Summary  engine.PortfolioSummary   `json:"summary"`
}

// SyncError describes a single failed write during derived-figure
// persistence. Failures are collected, never raised, so one bad row
// cannot abort the batch.
type SyncError struct {
	Kind    string `json:"kind"`
	ID      uint   `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SyncReport summarizes a derived-figure persistence run
type SyncReport struct {
	SyncedActivities int         `json:"synced_activities"`
	SyncedProjects   int         `json:"synced_projects"`
	Errors           []SyncError `json:"errors"`
}

// analyticsService implements AnalyticsService
type analyticsService struct {
	repo repository.ProjectRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo repository.ProjectRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

// findProject locates a project by its canonical full code or base code,
// case-insensitively, within the current snapshot.
func findProject(projects []model.Project, code string) *model.Project {
	code = strings.TrimSpace(code)
	for i := range projects {
		key := engine.NewProjectKey(projects[i].Code, projects[i].SubCode)
		if strings.EqualFold(key.FullCode, code) {
			return &projects[i]
		}
	}
	return nil
}

// ProjectExists checks whether a project with the given full code exists
func (s *analyticsService) ProjectExists(code string) (bool, error) {
	projects, err := s.repo.GetProjects()
	if err != nil {
		return false, err
	}
	return findProject(projects, code) != nil, nil
}

// GetProjectAnalytics computes the earned-value analytics for one project
// from the current snapshot of projects, activities and KPI records
func (s *analyticsService) GetProjectAnalytics(code string) (*engine.ProjectAnalytics, error) {
	projects, err := s.repo.GetProjects()
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	project := findProject(projects, code)
	if project == nil {
		return nil, ErrProjectNotFound
	}

	activities, err := s.repo.GetActivities()
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	kpis, err := s.repo.GetKPIRecords()
	if err != nil {
		return nil, fmt.Errorf("load kpi records: %w", err)
	}

	analytics := engine.AnalyzeProject(project, activities, kpis)
	return &analytics, nil
}

// GetPortfolioAnalytics computes analytics for every project plus the
// portfolio rollup
func (s *analyticsService) GetPortfolioAnalytics() (*PortfolioResponse, error) {
	projects, err := s.repo.GetProjects()
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	activities, err := s.repo.GetActivities()
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	kpis, err := s.repo.GetKPIRecords()
	if err != nil {
		return nil, fmt.Errorf("load kpi records: %w", err)
	}

	results, summary := engine.AnalyzePortfolio(projects, activities, kpis)
	return &PortfolioResponse{Projects: results, Summary: summary}, nil
}

// ImportKPIRecords normalizes loose intake rows into typed KPI records
// and stores the ones that carry a usable project identifier.
func (s *analyticsService) ImportKPIRecords(rows []model.Row) (*ImportReport, error) {
	report := &ImportReport{}
	var records []model.KPIRecord
	for _, row := range rows {
		record := model.KPIRecordFromRow(row)
		codes := engine.ExtractCodes(engine.CodeRef{
			FullCode: record.ProjectFullCode,
			Code:     record.ProjectCode,
		})
		if len(codes) == 0 {
			report.Skipped++
			continue
		}
		records = append(records, record)
	}
	if err := s.repo.CreateKPIRecords(records); err != nil {
		return nil, fmt.Errorf("store kpi records: %w", err)
	}
	report.Imported = len(records)
	return report, nil
}

// SyncDerivedFigures persists derived unit rates onto activities and
// derived progress figures onto projects. Each record is written
// independently; failures are collected into the report and never abort
// the run.
func (s *analyticsService) SyncDerivedFigures() (*SyncReport, error) {
	projects, err := s.repo.GetProjects()
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	activities, err := s.repo.GetActivities()
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	kpis, err := s.repo.GetKPIRecords()
	if err != nil {
		return nil, fmt.Errorf("load kpi records: %w", err)
	}

	report := &SyncReport{}

	for i := range activities {
		a := &activities[i]
		rate := engine.ActivityRate(a)
		if err := s.repo.UpdateActivityRate(a.ID, rate); err != nil {
			report.Errors = append(report.Errors, SyncError{
				Kind:    "activity",
				ID:      a.ID,
				Code:    a.ProjectCode,
				Message: err.Error(),
			})
			continue
		}
		report.SyncedActivities++
	}

	results, _ := engine.AnalyzePortfolio(projects, activities, kpis)
	for i := range results {
		pa := &results[i]
		if err := s.repo.UpdateProjectFigures(pa.ProjectID, pa.OverallProgress, pa.TotalEarnedValue); err != nil {
			report.Errors = append(report.Errors, SyncError{
				Kind:    "project",
				ID:      pa.ProjectID,
				Code:    pa.ProjectFullCode,
				Message: err.Error(),
			})
			continue
		}
		report.SyncedProjects++
	}

	return report, nil
}
