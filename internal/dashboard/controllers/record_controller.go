package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/c14220110/hospital-ops-backend/internal/analytics"
	"github.com/c14220110/hospital-ops-backend/internal/dashboard/models"
)

// RecordRepository reads and writes daily records.
type RecordRepository interface {
	GetRecordsBetween(ctx context.Context, from, to time.Time) ([]analytics.DailyRecord, error)
	UpsertRecord(ctx context.Context, r analytics.DailyRecord) error
}

// CacheInvalidator drops cached reports.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Notifier pushes an event to connected dashboards.
type Notifier interface {
	Publish(v interface{}) error
}

type RecordController struct {
	Records  RecordRepository
	Cache    CacheInvalidator
	Notifier Notifier
	Location *time.Location
	Logger   *zap.Logger
}

func NewRecordController(records RecordRepository, cache CacheInvalidator, notifier Notifier, loc *time.Location, logger *zap.Logger) *RecordController {
	if loc == nil {
		loc = time.UTC
	}
	return &RecordController{Records: records, Cache: cache, Notifier: notifier, Location: loc, Logger: logger}
}

// ListRecords handles GET /api/daily-records?from=..&to=..
// Both bounds default to the current month.
func (rc *RecordController) ListRecords(c echo.Context) error {
	from, err := parseDay(c.QueryParam("from"), rc.Location)
	if err != nil {
		return respond(c, http.StatusBadRequest, "from: "+err.Error(), nil)
	}
	to, err := parseDay(c.QueryParam("to"), rc.Location)
	if err != nil {
		return respond(c, http.StatusBadRequest, "to: "+err.Error(), nil)
	}
	now := time.Now().In(rc.Location)
	if from.IsZero() {
		from = analytics.StartOfMonth(now)
	}
	if to.IsZero() {
		to = analytics.EndOfMonth(now)
	}
	if from.After(to) {
		return respond(c, http.StatusBadRequest, "from must not be after to", nil)
	}

	records, err := rc.Records.GetRecordsBetween(c.Request().Context(), from, to)
	if err != nil {
		rc.Logger.Error("Failed to list daily records", zap.Error(err))
		return respond(c, http.StatusInternalServerError, "Failed to list daily records", nil)
	}
	return respond(c, http.StatusOK, "Daily records retrieved successfully", records)
}

// UpsertRecord handles POST /api/daily-records
func (rc *RecordController) UpsertRecord(c echo.Context) error {
	var req models.UpsertDailyRecordRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Validation failed: "+err.Error(), nil)
	}

	rec, err := req.ToRecord()
	if err != nil {
		return respond(c, http.StatusBadRequest, "Invalid date: "+err.Error(), nil)
	}

	ctx := c.Request().Context()
	if err := rc.Records.UpsertRecord(ctx, rec); err != nil {
		rc.Logger.Error("Failed to save daily record", zap.String("date", rec.Date.String()), zap.Error(err))
		return respond(c, http.StatusInternalServerError, "Failed to save daily record", nil)
	}

	if rc.Cache != nil {
		rc.Cache.Invalidate(ctx)
	}
	if rc.Notifier != nil {
		event := models.RecordsChangedEvent{Type: models.EventRecordsChanged, Date: rec.Date.String()}
		if err := rc.Notifier.Publish(event); err != nil {
			rc.Logger.Warn("Failed to broadcast record change", zap.Error(err))
		}
	}

	return respond(c, http.StatusOK, "Daily record saved successfully", rec)
}
