// Package analytics computes the period-comparison figures behind the
// dashboard and statistics screens: window resolution, record filtering,
// aggregation and percentage deltas. Everything here is pure and synchronous.
package analytics

import (
	"time"

	"go.uber.org/zap"
)

// Query is one dashboard request.
type Query struct {
	Mode      FilterMode
	Custom    *DateWindow
	Reference time.Time
}

// Report is what the summary cards, trend indicators and weekly chart read.
// Deltas is nil when the filter has no comparison period.
type Report struct {
	Mode                FilterMode        `json:"mode"`
	Window              DateWindow        `json:"window"`
	PreviousWindow      *DateWindow       `json:"previousWindow"`
	Current             AggregatedTotals  `json:"current"`
	Previous            *AggregatedTotals `json:"previous"`
	Deltas              []PercentageDelta `json:"deltas"`
	ComparisonAvailable bool              `json:"comparisonAvailable"`
	Weekly              WeeklySeries      `json:"weekly"`
	WeeklyHasData       bool              `json:"weeklyHasData"`
}

type Engine struct {
	lines  []ServiceLine
	logger *zap.Logger
}

// NewEngine builds an engine collecting the given service lines, or all of
// them when none are passed.
func NewEngine(logger *zap.Logger, lines ...ServiceLine) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(lines) == 0 {
		lines = AllLines
	}
	return &Engine{lines: lines, logger: logger}
}

// Lines returns the service lines this engine collects.
func (e *Engine) Lines() []ServiceLine {
	return append([]ServiceLine(nil), e.lines...)
}

// Compute runs resolve, partition, aggregate and delta for q. An invalid custom
// range produces zero totals rather than an error.
func (e *Engine) Compute(records []DailyRecord, q Query) Report {
	ref := q.Reference
	if ref.IsZero() {
		ref = time.Now()
	}

	window, err := Resolve(q.Mode, q.Custom, ref)
	if err != nil {
		e.logger.Debug("Falling back to empty window",
			zap.String("filter", string(q.Mode)),
			zap.Error(err),
		)
	}

	rep := Report{
		Mode:    q.Mode,
		Window:  window,
		Current: AggregateLines(Partition(records, window), e.lines...),
		Weekly:  AggregateWeekly(records, ref),
	}
	rep.WeeklyHasData = HasData(rep.Weekly)

	if prevWindow, ok := PreviousWindow(q.Mode, window); ok {
		prev := AggregateLines(Partition(records, prevWindow), e.lines...)
		rep.PreviousWindow = &prevWindow
		rep.Previous = &prev
		rep.Deltas = Deltas(rep.Current, prev, e.lines...)
		rep.ComparisonAvailable = true
	}

	e.logger.Debug("Computed report",
		zap.String("filter", string(q.Mode)),
		zap.Int("records", len(records)),
		zap.Bool("comparison", rep.ComparisonAvailable),
	)
	return rep
}
