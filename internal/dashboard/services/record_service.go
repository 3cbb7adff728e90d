package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/c14220110/hospital-ops-backend/internal/analytics"
)

const dateLayout = "2006-01-02"

// RecordService reads and writes the daily_records table. Each row is one
// calendar day; service-line breakdowns live in JSON columns.
type RecordService struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewRecordService(db *sql.DB, logger *zap.Logger) *RecordService {
	return &RecordService{DB: db, Logger: logger}
}

// GetRecordsBetween returns the records whose record_date falls in [from, to],
// ordered by date. Malformed JSON columns are logged and treated as missing.
func (s *RecordService) GetRecordsBetween(ctx context.Context, from, to time.Time) ([]analytics.DailyRecord, error) {
	query := `
		SELECT record_date, revenue, unique_patient_count, total_appointments,
		       services, pharmacy, ipd, opd, opd_procedures, laboratory, expense_type_wise
		FROM daily_records
		WHERE record_date BETWEEN ? AND ?
		ORDER BY record_date`

	rows, err := s.DB.QueryContext(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query daily_records: %w", err)
	}
	defer rows.Close()

	records := []analytics.DailyRecord{}
	for rows.Next() {
		var (
			recordDate                                time.Time
			revenue                                   sql.NullFloat64
			patients, appointments                    sql.NullInt64
			services, pharmacy, ipd, opd, opdProc, lab []byte
			expenses                                  []byte
		)
		if err := rows.Scan(&recordDate, &revenue, &patients, &appointments,
			&services, &pharmacy, &ipd, &opd, &opdProc, &lab, &expenses); err != nil {
			return nil, fmt.Errorf("scan daily_records: %w", err)
		}

		date := analytics.NewDate(recordDate.Date())
		r := analytics.DailyRecord{
			Date:               date,
			Revenue:            analytics.Amount(revenue.Float64),
			UniquePatientCount: analytics.Count(patients.Int64),
			TotalAppointments:  analytics.Count(appointments.Int64),
			Services:           s.decodeLine(services, "services", date),
			Pharmacy:           s.decodeLine(pharmacy, "pharmacy", date),
			IPD:                s.decodeLine(ipd, "ipd", date),
			OPD:                s.decodeLine(opd, "opd", date),
			OPDProcedures:      s.decodeLine(opdProc, "opd_procedures", date),
			Laboratory:         s.decodeLine(lab, "laboratory", date),
		}
		if !isNullJSON(expenses) {
			if err := json.Unmarshal(expenses, &r.ExpenseTypeWise); err != nil {
				s.Logger.Warn("Ignoring malformed expense_type_wise",
					zap.String("date", date.String()),
					zap.Error(err),
				)
				r.ExpenseTypeWise = nil
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily_records: %w", err)
	}
	return records, nil
}

func (s *RecordService) decodeLine(raw []byte, column string, date analytics.Date) *analytics.LineRecord {
	if isNullJSON(raw) {
		return nil
	}
	var line analytics.LineRecord
	if err := json.Unmarshal(raw, &line); err != nil {
		s.Logger.Warn("Ignoring malformed service line",
			zap.String("column", column),
			zap.String("date", date.String()),
			zap.Error(err),
		)
		return nil
	}
	return &line
}

func isNullJSON(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// UpsertRecord inserts the record or replaces the row for the same date.
func (s *RecordService) UpsertRecord(ctx context.Context, r analytics.DailyRecord) error {
	cols := make([]interface{}, 0, 7)
	for _, l := range []*analytics.LineRecord{r.Services, r.Pharmacy, r.IPD, r.OPD, r.OPDProcedures, r.Laboratory} {
		b, err := encodeLine(l)
		if err != nil {
			return err
		}
		cols = append(cols, b)
	}
	var expenses interface{}
	if len(r.ExpenseTypeWise) > 0 {
		b, err := json.Marshal(r.ExpenseTypeWise)
		if err != nil {
			return fmt.Errorf("encode expense_type_wise: %w", err)
		}
		expenses = string(b)
	}
	cols = append(cols, expenses)

	query := `
		INSERT INTO daily_records (record_date, revenue, unique_patient_count, total_appointments,
		                           services, pharmacy, ipd, opd, opd_procedures, laboratory, expense_type_wise)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			revenue = VALUES(revenue),
			unique_patient_count = VALUES(unique_patient_count),
			total_appointments = VALUES(total_appointments),
			services = VALUES(services),
			pharmacy = VALUES(pharmacy),
			ipd = VALUES(ipd),
			opd = VALUES(opd),
			opd_procedures = VALUES(opd_procedures),
			laboratory = VALUES(laboratory),
			expense_type_wise = VALUES(expense_type_wise)`

	args := append([]interface{}{
		r.Date.String(),
		r.Revenue.Float(),
		r.UniquePatientCount.Int(),
		r.TotalAppointments.Int(),
	}, cols...)
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert daily_records %s: %w", r.Date, err)
	}

	s.Logger.Info("Upserted daily record", zap.String("date", r.Date.String()))
	return nil
}

// encodeLine returns nil for a missing line so the column stays NULL.
func encodeLine(l *analytics.LineRecord) (interface{}, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode service line: %w", err)
	}
	return string(b), nil
}
