package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"construction-analytics/internal/model"
	"construction-analytics/internal/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsController handles analytics-related HTTP requests
type AnalyticsController struct {
	analyticsService service.AnalyticsService
	logger           *slog.Logger
}

// NewAnalyticsController creates a new analytics controller
func NewAnalyticsController(analyticsService service.AnalyticsService, logger *slog.Logger) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetProjectAnalytics handles GET /v1/projects/{project_code}/analytics
// Path parameters:
//   - project_code: the project's canonical full code (e.g. "HWY-2040-A"),
//     matched case-insensitively
func (c *AnalyticsController) GetProjectAnalytics(ctx *gin.Context) {
	startTime := time.Now()

	projectCode := strings.TrimSpace(ctx.Param("project_code"))
	if projectCode == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid project_code",
			"message": "project_code must not be empty",
		})
		return
	}

	c.logger.Info("processing project analytics request",
		"project_code", projectCode,
	)

	analytics, err := c.analyticsService.GetProjectAnalytics(projectCode)
	if err != nil {
		latency := time.Since(startTime)
		if errors.Is(err, service.ErrProjectNotFound) {
			c.logger.Warn("project not found",
				"project_code", projectCode,
				"latency_ms", latency.Milliseconds(),
			)
			ctx.JSON(http.StatusNotFound, gin.H{
				"error":   "Project not found",
				"message": fmt.Sprintf("Project with code %s does not exist", projectCode),
			})
			return
		}
		c.logger.Error("failed to compute project analytics",
			"project_code", projectCode,
			"error", err.Error(),
			"latency_ms", latency.Milliseconds(),
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Failed to compute project analytics",
		})
		return
	}

	latency := time.Since(startTime)
	c.logger.Info("project analytics request completed",
		"project_code", projectCode,
		"project_status", analytics.ProjectStatus,
		"latency_ms", latency.Milliseconds(),
	)

	ctx.JSON(http.StatusOK, analytics)
}

// GetPortfolioAnalytics handles GET /v1/portfolio/analytics
func (c *AnalyticsController) GetPortfolioAnalytics(ctx *gin.Context) {
	startTime := time.Now()

	resp, err := c.analyticsService.GetPortfolioAnalytics()
	if err != nil {
		latency := time.Since(startTime)
		c.logger.Error("failed to compute portfolio analytics",
			"error", err.Error(),
			"latency_ms", latency.Milliseconds(),
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Failed to compute portfolio analytics",
		})
		return
	}

	latency := time.Since(startTime)
	c.logger.Info("portfolio analytics request completed",
		"projects", len(resp.Projects),
		"unmatched_kpi_records", resp.Summary.DataQuality.UnmatchedKPIRecords,
		"latency_ms", latency.Milliseconds(),
	)

	ctx.JSON(http.StatusOK, resp)
}

// ImportKPIRecords handles POST /v1/kpi-records/import
// Accepts a JSON array of loosely-typed rows; column names are matched
// through alias chains at this boundary only
func (c *AnalyticsController) ImportKPIRecords(ctx *gin.Context) {
	startTime := time.Now()

	var rows []model.Row
	if err := ctx.ShouldBindJSON(&rows); err != nil {
		c.logger.Warn("invalid import payload",
			"error", err.Error(),
		)
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid payload",
			"message": "request body must be a JSON array of row objects",
		})
		return
	}

	report, err := c.analyticsService.ImportKPIRecords(rows)
	if err != nil {
		latency := time.Since(startTime)
		c.logger.Error("failed to import KPI records",
			"rows", len(rows),
			"error", err.Error(),
			"latency_ms", latency.Milliseconds(),
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Failed to import KPI records",
		})
		return
	}

	latency := time.Since(startTime)
	c.logger.Info("KPI record import completed",
		"imported", report.Imported,
		"skipped", report.Skipped,
		"latency_ms", latency.Milliseconds(),
	)

	ctx.JSON(http.StatusOK, report)
}

// SyncDerivedFigures handles POST /v1/portfolio/sync
// Persists derived rates and progress figures back to the store; partial
// failures are reported in the response body, not as an error status
func (c *AnalyticsController) SyncDerivedFigures(ctx *gin.Context) {
	startTime := time.Now()

	report, err := c.analyticsService.SyncDerivedFigures()
	if err != nil {
		latency := time.Since(startTime)
		c.logger.Error("failed to sync derived figures",
			"error", err.Error(),
			"latency_ms", latency.Milliseconds(),
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Failed to sync derived figures",
		})
		return
	}

	latency := time.Since(startTime)
	c.logger.Info("derived figure sync completed",
		"synced_activities", report.SyncedActivities,
		"synced_projects", report.SyncedProjects,
		"failed_records", len(report.Errors),
		"latency_ms", latency.Milliseconds(),
	)

	ctx.JSON(http.StatusOK, report)
}
