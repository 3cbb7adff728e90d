package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/c14220110/hospital-ops-backend/internal/analytics"
)

var recordColumns = []string{
	"record_date", "revenue", "unique_patient_count", "total_appointments",
	"services", "pharmacy", "ipd", "opd", "opd_procedures", "laboratory", "expense_type_wise",
}

func setupRecordService(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *RecordService) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewRecordService(db, zap.NewNop())
}

func TestGetRecordsBetween_Success(t *testing.T) {
	db, mock, svc := setupRecordService(t)
	defer db.Close()

	rows := sqlmock.NewRows(recordColumns).
		AddRow(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 1500.5, int64(12), int64(15),
			`{"revenue": 1000, "paymentMethod": [{"method": "UPI", "revenue": "1,000"}]}`,
			nil, "not json", nil, nil, nil,
			`{"salary": {"total": 250}}`).
		AddRow(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), nil, nil, nil,
			nil, "null", nil, nil, nil, nil, "{broken")

	mock.ExpectQuery(`FROM daily_records`).
		WithArgs("2024-01-01", "2024-01-31").
		WillReturnRows(rows)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	records, err := svc.GetRecordsBetween(context.Background(), from, to)

	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "2024-01-02", first.Date.String())
	assert.Equal(t, analytics.Amount(1500.5), first.Revenue)
	assert.Equal(t, analytics.Count(12), first.UniquePatientCount)
	assert.Equal(t, analytics.Count(15), first.TotalAppointments)
	require.NotNil(t, first.Services)
	assert.Equal(t, analytics.Amount(1000), first.Services.Revenue)
	require.Len(t, first.Services.PaymentMethod, 1)
	assert.Equal(t, "UPI", first.Services.PaymentMethod[0].Method)
	assert.Equal(t, analytics.Amount(1000), first.Services.PaymentMethod[0].Revenue)
	assert.Nil(t, first.Pharmacy)
	assert.Nil(t, first.IPD, "malformed JSON is treated as missing")
	assert.Equal(t, analytics.Amount(250), first.ExpenseTypeWise["salary"].Total)

	second := records[1]
	assert.Equal(t, analytics.Amount(0), second.Revenue)
	assert.Equal(t, analytics.Count(0), second.UniquePatientCount)
	assert.Nil(t, second.Pharmacy)
	assert.Nil(t, second.ExpenseTypeWise)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecordsBetween_Empty(t *testing.T) {
	db, mock, svc := setupRecordService(t)
	defer db.Close()

	mock.ExpectQuery(`FROM daily_records`).
		WithArgs("2024-02-01", "2024-02-29").
		WillReturnRows(sqlmock.NewRows(recordColumns))

	records, err := svc.GetRecordsBetween(context.Background(),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Len(t, records, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecordsBetween_QueryError(t *testing.T) {
	db, mock, svc := setupRecordService(t)
	defer db.Close()

	mock.ExpectQuery(`FROM daily_records`).
		WillReturnError(errors.New("connection refused"))

	_, err := svc.GetRecordsBetween(context.Background(), time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUpsertRecord(t *testing.T) {
	db, mock, svc := setupRecordService(t)
	defer db.Close()

	r := analytics.DailyRecord{
		Date:               analytics.NewDate(2024, 1, 2),
		Revenue:            1500.5,
		UniquePatientCount: 12,
		TotalAppointments:  15,
		Pharmacy: &analytics.LineRecord{
			Revenue:       300,
			PaymentMethod: []analytics.PaymentEntry{{Method: "Cash", Revenue: 300}},
		},
		ExpenseTypeWise: map[string]analytics.ExpenseEntry{"salary": {Total: 250}},
	}

	mock.ExpectExec(`INSERT INTO daily_records`).
		WithArgs("2024-01-02", 1500.5, int64(12), int64(15),
			nil,
			`{"revenue":300,"paymentMethod":[{"method":"Cash","revenue":300}]}`,
			nil, nil, nil, nil,
			`{"salary":{"total":250}}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, svc.UpsertRecord(context.Background(), r))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRecord_ExecError(t *testing.T) {
	db, mock, svc := setupRecordService(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO daily_records`).
		WillReturnError(errors.New("deadlock"))

	err := svc.UpsertRecord(context.Background(), analytics.DailyRecord{Date: analytics.NewDate(2024, 1, 2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-01-02")
}
