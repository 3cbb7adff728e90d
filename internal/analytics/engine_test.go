package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEngine_Last7Days(t *testing.T) {
	records := []DailyRecord{
		rec(2023, 12, 22, 500, 2), // previous seven days
		rec(2024, 1, 1, 1000, 5),
		rec(2024, 1, 2, 2000, 3),
	}
	rep := NewEngine(zap.NewNop()).Compute(records, Query{Mode: Last7Days, Reference: refTuesday})

	assert.True(t, day(2023, 12, 27).Equal(rep.Window.From))
	assert.True(t, endDay(2024, 1, 2).Equal(rep.Window.To))
	assert.Equal(t, "3000", rep.Current.TotalRevenue.String())
	assert.Equal(t, int64(8), rep.Current.TotalPatients)

	require.True(t, rep.ComparisonAvailable)
	require.NotNil(t, rep.Previous)
	require.NotNil(t, rep.PreviousWindow)
	assert.Equal(t, "500", rep.Previous.TotalRevenue.String())

	revenue, ok := Lookup(rep.Deltas, MetricRevenue)
	require.True(t, ok)
	assert.Equal(t, 500.0, revenue)
	patients, _ := Lookup(rep.Deltas, MetricTotalPatients)
	assert.Equal(t, 300.0, patients)
}

func TestEngine_ThisWeekComparesAgainstLastWeek(t *testing.T) {
	records := []DailyRecord{
		rec(2023, 12, 26, 1000, 10),
		rec(2024, 1, 1, 1500, 5),
	}
	rep := NewEngine(nil).Compute(records, Query{Mode: ThisWeek, Reference: refTuesday})

	require.True(t, rep.ComparisonAvailable)
	revenue, _ := Lookup(rep.Deltas, MetricRevenue)
	assert.Equal(t, 50.0, revenue)
	patients, _ := Lookup(rep.Deltas, MetricTotalPatients)
	assert.Equal(t, -50.0, patients)

	assert.True(t, rep.WeeklyHasData)
	assert.Equal(t, "1500", rep.Weekly[1].Revenue.String())
}

func TestEngine_NoComparisonForAllAndCustom(t *testing.T) {
	records := []DailyRecord{rec(2024, 1, 1, 1000, 5)}
	custom := &DateWindow{From: day(2024, 1, 1), To: day(2024, 1, 1)}

	for _, q := range []Query{
		{Mode: All, Reference: refTuesday},
		{Mode: Custom, Custom: custom, Reference: refTuesday},
	} {
		rep := NewEngine(zap.NewNop()).Compute(records, q)
		assert.False(t, rep.ComparisonAvailable, string(q.Mode))
		assert.Nil(t, rep.Deltas, string(q.Mode))
		assert.Nil(t, rep.Previous, string(q.Mode))
		assert.Nil(t, rep.PreviousWindow, string(q.Mode))
		assert.Equal(t, "1000", rep.Current.TotalRevenue.String(), string(q.Mode))
	}
}

func TestEngine_CustomWithoutBounds(t *testing.T) {
	records := []DailyRecord{rec(2024, 1, 1, 1000, 5)}
	rep := NewEngine(zap.NewNop()).Compute(records, Query{
		Mode:      Custom,
		Custom:    &DateWindow{},
		Reference: refTuesday,
	})

	assert.True(t, rep.Window.Empty())
	assert.True(t, rep.Current.TotalRevenue.IsZero())
	assert.Zero(t, rep.Current.TotalPatients)
	assert.NotNil(t, rep.Current.PaymentMethods)
	assert.Nil(t, rep.Deltas)
	// The weekly chart ignores the filter.
	assert.True(t, rep.WeeklyHasData)
}

func TestEngine_Lines(t *testing.T) {
	r := rec(2024, 1, 2, 1000, 1)
	r.Services = line(700, pay("Cash", 700))
	r.Laboratory = line(300, pay("Cash", 300))

	dash := NewEngine(nil, DashboardLines...)
	assert.Equal(t, DashboardLines, dash.Lines())
	rep := dash.Compute([]DailyRecord{r}, Query{Mode: Today, Reference: refTuesday})
	assert.Equal(t, "700", rep.Current.PaymentMethods["Cash"].String())

	rep = NewEngine(nil).Compute([]DailyRecord{r}, Query{Mode: Today, Reference: refTuesday})
	assert.Equal(t, "1000", rep.Current.PaymentMethods["Cash"].String())
}

func TestEngine_DefaultsReferenceToNow(t *testing.T) {
	now := time.Now()
	r := rec(now.Year(), now.Month(), now.Day(), 42, 1)
	rep := NewEngine(nil).Compute([]DailyRecord{r}, Query{Mode: Today})
	// Local midnight rollover between the two time.Now calls is the only way this misses.
	if rep.Window.Contains(r.Date) {
		assert.Equal(t, "42", rep.Current.TotalRevenue.String())
	}
}

func TestEngine_DashboardDeltasSkipUncollectedLines(t *testing.T) {
	r := rec(2024, 1, 2, 500, 1)
	r.IPD = line(500)

	rep := NewEngine(nil, DashboardLines...).Compute([]DailyRecord{r}, Query{Mode: Today, Reference: refTuesday})
	require.True(t, rep.ComparisonAvailable)
	assert.True(t, rep.Current.Collections.IPD.IsZero())

	_, ok := Lookup(rep.Deltas, "ipd")
	assert.False(t, ok, "uncollected line must not report a change")
	_, ok = Lookup(rep.Deltas, "services")
	assert.True(t, ok)

	stats := NewEngine(nil, StatisticsLines...).Compute([]DailyRecord{r}, Query{Mode: Today, Reference: refTuesday})
	v, ok := Lookup(stats.Deltas, "ipd")
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}
