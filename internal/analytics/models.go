package analytics

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OthersMethod is the bucket for payment entries without a method name.
const OthersMethod = "Others"

const dateLayout = "2006-01-02"

// Amount is a monetary value decoded leniently: anything that is not a finite
// number (null, "", "abc", true, NaN) becomes zero instead of failing the decode.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount(lenientNumber(b))
	return nil
}

// Float returns the amount as a finite float64.
func (a Amount) Float() float64 {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Decimal returns the amount as an exact decimal for summing.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(a.Float())
}

// Count is a non-monetary integer counter with the same lenient decoding as
// Amount. Negative values and values beyond int64 decode as 0.
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	f := math.Trunc(lenientNumber(b))
	if f < 0 || f >= math.MaxInt64 {
		f = 0
	}
	*c = Count(f)
	return nil
}

func (c Count) Int() int64 { return int64(c) }

// lenientNumber accepts JSON numbers and numeric strings (with thousands
// separators or a rupee glyph). Everything else is 0.
func lenientNumber(b []byte) float64 {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0
	}
	var raw string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return 0
		}
		raw = strings.NewReplacer(",", "", "₹", "", "Rs.", "", "Rs", "").Replace(raw)
	} else {
		raw = string(b)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	f := d.InexactFloat64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Date is a calendar day. Only year, month and day are meaningful.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "2006-01-02" and RFC 3339 timestamps.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t.Date()), nil
}

// On returns midnight of the same calendar day in loc.
func (d Date) On(loc *time.Location) time.Time {
	y, m, day := d.Time.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// PaymentEntry is the revenue collected through one payment method on a day.
type PaymentEntry struct {
	Method  string `json:"method"`
	Revenue Amount `json:"revenue"`
}

// LineRecord holds one service line's collections for a day.
type LineRecord struct {
	Revenue       Amount         `json:"revenue"`
	PaymentMethod []PaymentEntry `json:"paymentMethod"`
}

type ExpenseEntry struct {
	Total Amount `json:"total"`
}

// DailyRecord is one calendar day of operational activity.
type DailyRecord struct {
	Date               Date                    `json:"date"`
	Revenue            Amount                  `json:"revenue"`
	UniquePatientCount Count                   `json:"uniquePatientCount"`
	TotalAppointments  Count                   `json:"totalAppointments"`
	Services           *LineRecord             `json:"services,omitempty"`
	Pharmacy           *LineRecord             `json:"pharmacy,omitempty"`
	IPD                *LineRecord             `json:"ipd,omitempty"`
	OPD                *LineRecord             `json:"opd,omitempty"`
	OPDProcedures      *LineRecord             `json:"opdProcedures,omitempty"`
	Laboratory         *LineRecord             `json:"laboratory,omitempty"`
	ExpenseTypeWise    map[string]ExpenseEntry `json:"expenseTypeWise,omitempty"`
}

// Line returns the sub-record for a service line, or nil when the record lacks it.
func (r DailyRecord) Line(line ServiceLine) *LineRecord {
	switch line {
	case LineServices:
		return r.Services
	case LinePharmacy:
		return r.Pharmacy
	case LineIPD:
		return r.IPD
	case LineOPD:
		return r.OPD
	case LineOPDProcedures:
		return r.OPDProcedures
	case LineLaboratory:
		return r.Laboratory
	}
	return nil
}

// ServiceLine names a revenue-collecting department.
type ServiceLine string

const (
	LineServices      ServiceLine = "services"
	LineIPD           ServiceLine = "ipd"
	LineOPD           ServiceLine = "opd"
	LineOPDProcedures ServiceLine = "opdProcedures"
	LinePharmacy      ServiceLine = "pharmacy"
	LineLaboratory    ServiceLine = "laboratory"
)

var (
	AllLines        = []ServiceLine{LineServices, LineIPD, LineOPD, LineOPDProcedures, LinePharmacy, LineLaboratory}
	DashboardLines  = []ServiceLine{LineServices, LinePharmacy}
	StatisticsLines = []ServiceLine{LineIPD, LineOPD, LineOPDProcedures, LinePharmacy, LineLaboratory}
)

// Collections is the summed revenue per service line.
type Collections struct {
	Services     decimal.Decimal `json:"services"`
	IPD          decimal.Decimal `json:"ipd"`
	OPD          decimal.Decimal `json:"opd"`
	OPDProcedure decimal.Decimal `json:"opdProcedure"`
	Pharmacy     decimal.Decimal `json:"pharmacy"`
	Laboratory   decimal.Decimal `json:"laboratory"`
}

func (c *Collections) add(line ServiceLine, v decimal.Decimal) {
	switch line {
	case LineServices:
		c.Services = c.Services.Add(v)
	case LineIPD:
		c.IPD = c.IPD.Add(v)
	case LineOPD:
		c.OPD = c.OPD.Add(v)
	case LineOPDProcedures:
		c.OPDProcedure = c.OPDProcedure.Add(v)
	case LinePharmacy:
		c.Pharmacy = c.Pharmacy.Add(v)
	case LineLaboratory:
		c.Laboratory = c.Laboratory.Add(v)
	}
}

// Get returns the collection for a line.
func (c Collections) Get(line ServiceLine) decimal.Decimal {
	switch line {
	case LineServices:
		return c.Services
	case LineIPD:
		return c.IPD
	case LineOPD:
		return c.OPD
	case LineOPDProcedures:
		return c.OPDProcedure
	case LinePharmacy:
		return c.Pharmacy
	case LineLaboratory:
		return c.Laboratory
	}
	return decimal.Zero
}

// AggregatedTotals is the fold of a record subset. Maps are never nil.
type AggregatedTotals struct {
	TotalRevenue          decimal.Decimal                            `json:"totalRevenue"`
	TotalPatients         int64                                      `json:"totalPatients"`
	TotalAppointments     int64                                      `json:"totalAppointments"`
	TotalExpense          decimal.Decimal                            `json:"totalExpense"`
	Collections           Collections                                `json:"collections"`
	PaymentMethods        map[string]decimal.Decimal                 `json:"paymentMethods"`
	PerLinePaymentMethods map[ServiceLine]map[string]decimal.Decimal `json:"perLinePaymentMethods"`
}

// WeeklyBucket is one day of the performance chart.
type WeeklyBucket struct {
	Date     string          `json:"date"`
	Label    string          `json:"label"`
	Patients int64           `json:"patients"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// WeeklySeries always has seven buckets, Sunday first.
type WeeklySeries []WeeklyBucket

// PercentageDelta is the relative change of one metric between two periods.
type PercentageDelta struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}
