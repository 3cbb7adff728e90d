package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/c14220110/hospital-ops-backend/internal/analytics"
	"github.com/c14220110/hospital-ops-backend/internal/dashboard/models"
	"github.com/c14220110/hospital-ops-backend/pkg/cache"
)

const reportKeyPrefix = "report:"

// RecordStore loads daily records for a date range.
type RecordStore interface {
	GetRecordsBetween(ctx context.Context, from, to time.Time) ([]analytics.DailyRecord, error)
}

// DashboardService loads the records a filter needs and runs the analytics
// engine for the dashboard or statistics view. Reports are cached when a
// KVStore is configured.
type DashboardService struct {
	Records  RecordStore
	Cache    cache.KVStore
	CacheTTL time.Duration
	Location *time.Location
	Logger   *zap.Logger

	engines map[models.View]*analytics.Engine
	now     func() time.Time
}

func NewDashboardService(records RecordStore, kv cache.KVStore, ttl time.Duration, loc *time.Location, logger *zap.Logger) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		Records:  records,
		Cache:    kv,
		CacheTTL: ttl,
		Location: loc,
		Logger:   logger,
		engines: map[models.View]*analytics.Engine{
			models.ViewDashboard:  analytics.NewEngine(logger, analytics.DashboardLines...),
			models.ViewStatistics: analytics.NewEngine(logger, analytics.StatisticsLines...),
		},
		now: time.Now,
	}
}

// GetReport computes the report for view. A zero q.Reference means now in the
// configured location.
func (s *DashboardService) GetReport(ctx context.Context, view models.View, q analytics.Query) (analytics.Report, error) {
	engine, ok := s.engines[view]
	if !ok {
		return analytics.Report{}, fmt.Errorf("unknown view %q", view)
	}
	if q.Reference.IsZero() {
		q.Reference = s.now().In(s.Location)
	}

	load := s.loadWindow(q)
	key := reportKey(view, q, load)
	if rep, ok := s.cached(ctx, key); ok {
		return rep, nil
	}

	records, err := s.Records.GetRecordsBetween(ctx, load.From, load.To)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("load records: %w", err)
	}

	rep := engine.Compute(records, q)
	s.store(ctx, key, rep)
	return rep, nil
}

// loadWindow covers the filter's current and comparison windows plus the
// reference week for the chart. An invalid custom range only loads the week.
func (s *DashboardService) loadWindow(q analytics.Query) analytics.DateWindow {
	week := analytics.DateWindow{
		From: analytics.StartOfWeek(q.Reference),
		To:   analytics.EndOfWeek(q.Reference),
	}
	fetch, err := analytics.FetchWindow(q.Mode, q.Custom, q.Reference)
	if err != nil {
		s.Logger.Debug("Filter window unavailable, loading chart week only",
			zap.String("filter", string(q.Mode)),
			zap.Error(err),
		)
		return week
	}
	if week.From.Before(fetch.From) {
		fetch.From = week.From
	}
	if week.To.After(fetch.To) {
		fetch.To = week.To
	}
	return fetch
}

func reportKey(view models.View, q analytics.Query, load analytics.DateWindow) string {
	return fmt.Sprintf("%s%s:%s:%s:%s:%s", reportKeyPrefix, view, q.Mode,
		load.From.Format(dateLayout), load.To.Format(dateLayout), q.Reference.Format(dateLayout))
}

func (s *DashboardService) cached(ctx context.Context, key string) (analytics.Report, bool) {
	if s.Cache == nil {
		return analytics.Report{}, false
	}
	raw, err := s.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.Logger.Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
		}
		return analytics.Report{}, false
	}
	var rep analytics.Report
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		s.Logger.Warn("Discarding undecodable cached report", zap.String("key", key), zap.Error(err))
		return analytics.Report{}, false
	}
	return rep, true
}

func (s *DashboardService) store(ctx context.Context, key string, rep analytics.Report) {
	if s.Cache == nil {
		return
	}
	b, err := json.Marshal(rep)
	if err != nil {
		s.Logger.Warn("Report not cached", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.Cache.Set(ctx, key, string(b), s.CacheTTL); err != nil {
		s.Logger.Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached report. Called after records change.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.DeletePrefix(ctx, reportKeyPrefix); err != nil {
		s.Logger.Warn("Report cache invalidation failed", zap.Error(err))
	}
}
