package models

import (
	"strings"

	"github.com/c14220110/hospital-ops-backend/internal/analytics"
)

// PaymentRequest is one payment-method line in an upsert request.
type PaymentRequest struct {
	Method  string  `json:"method" validate:"max=64"`
	Revenue float64 `json:"revenue" validate:"gte=0"`
}

type LineRequest struct {
	Revenue       float64          `json:"revenue" validate:"gte=0"`
	PaymentMethod []PaymentRequest `json:"paymentMethod" validate:"unique=Method,dive"`
}

type ExpenseRequest struct {
	Total float64 `json:"total" validate:"gte=0"`
}

// UpsertDailyRecordRequest is the strict ingest shape of a daily record.
// Reads stay lenient; writes are validated here.
type UpsertDailyRecordRequest struct {
	Date               string                    `json:"date" validate:"required,datetime=2006-01-02"`
	Revenue            float64                   `json:"revenue" validate:"gte=0"`
	UniquePatientCount int64                     `json:"uniquePatientCount" validate:"gte=0"`
	TotalAppointments  int64                     `json:"totalAppointments" validate:"gte=0"`
	Services           *LineRequest              `json:"services" validate:"omitempty"`
	Pharmacy           *LineRequest              `json:"pharmacy" validate:"omitempty"`
	IPD                *LineRequest              `json:"ipd" validate:"omitempty"`
	OPD                *LineRequest              `json:"opd" validate:"omitempty"`
	OPDProcedures      *LineRequest              `json:"opdProcedures" validate:"omitempty"`
	Laboratory         *LineRequest              `json:"laboratory" validate:"omitempty"`
	ExpenseTypeWise    map[string]ExpenseRequest `json:"expenseTypeWise" validate:"omitempty,dive,keys,required,max=64,endkeys"`
}

// Normalize trims payment methods and names blank ones "Others", so the
// uniqueness check sees the same buckets the aggregator sums into. Call it
// before validation.
func (r *UpsertDailyRecordRequest) Normalize() {
	for _, l := range []*LineRequest{r.Services, r.Pharmacy, r.IPD, r.OPD, r.OPDProcedures, r.Laboratory} {
		if l == nil {
			continue
		}
		for i := range l.PaymentMethod {
			m := strings.TrimSpace(l.PaymentMethod[i].Method)
			if m == "" {
				m = analytics.OthersMethod
			}
			l.PaymentMethod[i].Method = m
		}
	}
}

// ToRecord converts a validated request into the engine's record type.
func (r UpsertDailyRecordRequest) ToRecord() (analytics.DailyRecord, error) {
	date, err := analytics.ParseDate(r.Date)
	if err != nil {
		return analytics.DailyRecord{}, err
	}
	rec := analytics.DailyRecord{
		Date:               date,
		Revenue:            analytics.Amount(r.Revenue),
		UniquePatientCount: analytics.Count(r.UniquePatientCount),
		TotalAppointments:  analytics.Count(r.TotalAppointments),
		Services:           r.Services.toLine(),
		Pharmacy:           r.Pharmacy.toLine(),
		IPD:                r.IPD.toLine(),
		OPD:                r.OPD.toLine(),
		OPDProcedures:      r.OPDProcedures.toLine(),
		Laboratory:         r.Laboratory.toLine(),
	}
	if len(r.ExpenseTypeWise) > 0 {
		rec.ExpenseTypeWise = make(map[string]analytics.ExpenseEntry, len(r.ExpenseTypeWise))
		for k, v := range r.ExpenseTypeWise {
			rec.ExpenseTypeWise[k] = analytics.ExpenseEntry{Total: analytics.Amount(v.Total)}
		}
	}
	return rec, nil
}

func (l *LineRequest) toLine() *analytics.LineRecord {
	if l == nil {
		return nil
	}
	out := &analytics.LineRecord{Revenue: analytics.Amount(l.Revenue)}
	for _, pm := range l.PaymentMethod {
		out.PaymentMethod = append(out.PaymentMethod, analytics.PaymentEntry{
			Method:  pm.Method,
			Revenue: analytics.Amount(pm.Revenue),
		})
	}
	return out
}
