package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// PercentChange is the change from previous to current in percent, rounded to
// two decimals. A zero baseline yields 100 for any growth and 0 otherwise.
func PercentChange(current, previous float64) float64 {
	current, previous = finite(current), finite(previous)
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	pct := decimal.NewFromFloat(current - previous).
		Div(decimal.NewFromFloat(math.Abs(previous))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	return pct.InexactFloat64()
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Metric names reported by Deltas.
const (
	MetricRevenue           = "revenue"
	MetricTotalPatients     = "totalPatients"
	MetricTotalAppointments = "totalAppointments"
	MetricTotalExpense      = "totalExpense"
)

// collectionMetrics keeps the JSON names of the Collections fields.
var collectionMetrics = []struct {
	name string
	line ServiceLine
}{
	{"services", LineServices},
	{"ipd", LineIPD},
	{"opd", LineOPD},
	{"opdProcedure", LineOPDProcedures},
	{"pharmacy", LinePharmacy},
	{"laboratory", LineLaboratory},
}

// Deltas compares every metric of current against previous independently.
// Collection deltas are only reported for the given lines, or for all of
// them when none are passed.
func Deltas(current, previous AggregatedTotals, lines ...ServiceLine) []PercentageDelta {
	if len(lines) == 0 {
		lines = AllLines
	}
	out := []PercentageDelta{
		{MetricRevenue, PercentChange(current.TotalRevenue.InexactFloat64(), previous.TotalRevenue.InexactFloat64())},
		{MetricTotalPatients, PercentChange(float64(current.TotalPatients), float64(previous.TotalPatients))},
		{MetricTotalAppointments, PercentChange(float64(current.TotalAppointments), float64(previous.TotalAppointments))},
		{MetricTotalExpense, PercentChange(current.TotalExpense.InexactFloat64(), previous.TotalExpense.InexactFloat64())},
	}
	for _, m := range collectionMetrics {
		if !hasLine(lines, m.line) {
			continue
		}
		out = append(out, PercentageDelta{
			Metric: m.name,
			Value: PercentChange(
				current.Collections.Get(m.line).InexactFloat64(),
				previous.Collections.Get(m.line).InexactFloat64(),
			),
		})
	}
	return out
}

func hasLine(lines []ServiceLine, line ServiceLine) bool {
	for _, l := range lines {
		if l == line {
			return true
		}
	}
	return false
}

// Lookup returns the delta for metric, if present.
func Lookup(deltas []PercentageDelta, metric string) (float64, bool) {
	for _, d := range deltas {
		if d.Metric == metric {
			return d.Value, true
		}
	}
	return 0, false
}

// LineMetric returns the metric name Deltas reports line under.
func LineMetric(line ServiceLine) string {
	for _, m := range collectionMetrics {
		if m.line == line {
			return m.name
		}
	}
	return string(line)
}
