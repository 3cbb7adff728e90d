package analytics

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func newTotals() AggregatedTotals {
	return AggregatedTotals{
		PaymentMethods:        make(map[string]decimal.Decimal),
		PerLinePaymentMethods: make(map[ServiceLine]map[string]decimal.Decimal),
	}
}

// Aggregate folds records over every service line.
func Aggregate(records []DailyRecord) AggregatedTotals {
	return AggregateLines(records, AllLines...)
}

// AggregateLines folds records into fresh totals, collecting only the given
// service lines. Missing sub-records and non-numeric values count as zero.
func AggregateLines(records []DailyRecord, lines ...ServiceLine) AggregatedTotals {
	t := newTotals()
	for _, r := range records {
		t.TotalRevenue = t.TotalRevenue.Add(r.Revenue.Decimal())
		t.TotalPatients += r.UniquePatientCount.Int()
		t.TotalAppointments += r.TotalAppointments.Int()

		for _, e := range r.ExpenseTypeWise {
			t.TotalExpense = t.TotalExpense.Add(e.Total.Decimal())
		}

		for _, line := range lines {
			lr := r.Line(line)
			if lr == nil {
				continue
			}
			t.Collections.add(line, lr.Revenue.Decimal())
			for _, pm := range lr.PaymentMethod {
				addPayment(&t, line, pm)
			}
		}
	}
	return t
}

func addPayment(t *AggregatedTotals, line ServiceLine, pm PaymentEntry) {
	method := strings.TrimSpace(pm.Method)
	if method == "" {
		method = OthersMethod
	}
	v := pm.Revenue.Decimal()

	perLine, ok := t.PerLinePaymentMethods[line]
	if !ok {
		perLine = make(map[string]decimal.Decimal)
		t.PerLinePaymentMethods[line] = perLine
	}
	perLine[method] = perLine[method].Add(v)
	t.PaymentMethods[method] = t.PaymentMethods[method].Add(v)
}

// AggregateWeekly buckets records into the Sunday..Saturday week containing
// ref, independent of any active filter. Days without records stay at zero.
func AggregateWeekly(records []DailyRecord, ref time.Time) WeeklySeries {
	start := StartOfWeek(ref)
	series := make(WeeklySeries, 7)
	for i := range series {
		day := start.AddDate(0, 0, i)
		series[i] = WeeklyBucket{
			Date:  day.Format(dateLayout),
			Label: weekdayLabels[i],
		}
	}

	week := DateWindow{From: start, To: EndOfWeek(ref)}
	for _, r := range records {
		if !week.Contains(r.Date) {
			continue
		}
		day := r.Date.On(ref.Location())
		i := int(day.Weekday())
		series[i].Patients += r.UniquePatientCount.Int()
		series[i].Revenue = series[i].Revenue.Add(r.Revenue.Decimal())
	}
	return series
}

// HasData reports whether any bucket has patients or revenue.
func HasData(series WeeklySeries) bool {
	for _, b := range series {
		if b.Patients != 0 || !b.Revenue.IsZero() {
			return true
		}
	}
	return false
}
