package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

func rec(y int, m time.Month, d int, revenue float64, patients int64) DailyRecord {
	return DailyRecord{
		Date:               NewDate(y, m, d),
		Revenue:            Amount(revenue),
		UniquePatientCount: Count(patients),
	}
}

func line(revenue float64, methods ...PaymentEntry) *LineRecord {
	return &LineRecord{Revenue: Amount(revenue), PaymentMethod: methods}
}

func pay(method string, revenue float64) PaymentEntry {
	return PaymentEntry{Method: method, Revenue: Amount(revenue)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}
