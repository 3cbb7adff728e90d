package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/c14220110/hospital-ops-backend/internal/analytics"
	"github.com/c14220110/hospital-ops-backend/internal/dashboard/models"
)

// ReportService computes reports for a view.
type ReportService interface {
	GetReport(ctx context.Context, view models.View, q analytics.Query) (analytics.Report, error)
}

// WorkbookExporter renders a statistics report as xlsx.
type WorkbookExporter interface {
	StatisticsWorkbook(rep analytics.Report, lines []analytics.ServiceLine) ([]byte, error)
}

type DashboardController struct {
	Service  ReportService
	Exporter WorkbookExporter
	Location *time.Location
	Logger   *zap.Logger
}

func NewDashboardController(svc ReportService, exporter WorkbookExporter, loc *time.Location, logger *zap.Logger) *DashboardController {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardController{Service: svc, Exporter: exporter, Location: loc, Logger: logger}
}

// GetDashboard handles GET /api/dashboard
func (dc *DashboardController) GetDashboard(c echo.Context) error {
	return dc.report(c, models.ViewDashboard)
}

// GetStatistics handles GET /api/statistics
func (dc *DashboardController) GetStatistics(c echo.Context) error {
	return dc.report(c, models.ViewStatistics)
}

func (dc *DashboardController) report(c echo.Context, view models.View) error {
	rep, status, err := dc.load(c, view)
	if err != nil {
		return respond(c, status, err.Error(), nil)
	}
	return respond(c, http.StatusOK, "Report retrieved successfully", rep)
}

func (dc *DashboardController) load(c echo.Context, view models.View) (analytics.Report, int, error) {
	q, err := parseQuery(c, dc.Location)
	if err != nil {
		return analytics.Report{}, http.StatusBadRequest, err
	}
	rep, err := dc.Service.GetReport(c.Request().Context(), view, q)
	if err != nil {
		dc.Logger.Error("Failed to compute report",
			zap.String("view", string(view)),
			zap.String("filter", string(q.Mode)),
			zap.Error(err),
		)
		return analytics.Report{}, http.StatusInternalServerError, fmt.Errorf("failed to get report: %w", err)
	}
	return rep, http.StatusOK, nil
}

// ExportStatistics handles GET /api/statistics/export
func (dc *DashboardController) ExportStatistics(c echo.Context) error {
	rep, status, err := dc.load(c, models.ViewStatistics)
	if err != nil {
		return respond(c, status, err.Error(), nil)
	}

	b, err := dc.Exporter.StatisticsWorkbook(rep, analytics.StatisticsLines)
	if err != nil {
		dc.Logger.Error("Failed to export statistics", zap.Error(err))
		return respond(c, http.StatusInternalServerError, "Failed to export statistics", nil)
	}

	name := "statistics.xlsx"
	if !rep.Window.Empty() {
		name = fmt.Sprintf("statistics_%s_%s.xlsx",
			rep.Window.From.Format("20060102"), rep.Window.To.Format("20060102"))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}
