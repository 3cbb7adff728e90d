package services

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/c14220110/hospital-ops-backend/internal/analytics"
	"github.com/c14220110/hospital-ops-backend/pkg/utils"
)

const (
	SheetSummary        = "Summary"
	SheetPaymentMethods = "Payment Methods"
	SheetWeekly         = "Weekly"
)

// ExportService renders reports as spreadsheets for the finance team.
type ExportService struct {
	Logger *zap.Logger
}

func NewExportService(logger *zap.Logger) *ExportService {
	return &ExportService{Logger: logger}
}

type summaryRow struct {
	label    string
	metric   string
	current  decimal.Decimal
	previous *decimal.Decimal
}

// StatisticsWorkbook writes rep into an xlsx file with summary, payment-method
// and weekly sheets. Only the given lines get collection rows and columns.
func (s *ExportService) StatisticsWorkbook(rep analytics.Report, lines []analytics.ServiceLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for _, name := range []string{SheetSummary, SheetPaymentMethods, SheetWeekly} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := s.writeSummary(f, rep, lines, headerStyle); err != nil {
		return nil, err
	}
	if err := s.writePaymentMethods(f, rep, lines, headerStyle); err != nil {
		return nil, err
	}
	if err := s.writeWeekly(f, rep, headerStyle); err != nil {
		return nil, err
	}

	idx, err := f.GetSheetIndex(SheetSummary)
	if err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	s.Logger.Debug("Exported statistics workbook",
		zap.String("filter", string(rep.Mode)),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func (s *ExportService) writeSummary(f *excelize.File, rep analytics.Report, lines []analytics.ServiceLine, headerStyle int) error {
	prev := func(get func(t *analytics.AggregatedTotals) decimal.Decimal) *decimal.Decimal {
		if rep.Previous == nil {
			return nil
		}
		v := get(rep.Previous)
		return &v
	}

	rows := []summaryRow{
		{"Revenue", analytics.MetricRevenue, rep.Current.TotalRevenue,
			prev(func(t *analytics.AggregatedTotals) decimal.Decimal { return t.TotalRevenue })},
		{"Patients", analytics.MetricTotalPatients, decimal.NewFromInt(rep.Current.TotalPatients),
			prev(func(t *analytics.AggregatedTotals) decimal.Decimal { return decimal.NewFromInt(t.TotalPatients) })},
		{"Appointments", analytics.MetricTotalAppointments, decimal.NewFromInt(rep.Current.TotalAppointments),
			prev(func(t *analytics.AggregatedTotals) decimal.Decimal { return decimal.NewFromInt(t.TotalAppointments) })},
		{"Expense", analytics.MetricTotalExpense, rep.Current.TotalExpense,
			prev(func(t *analytics.AggregatedTotals) decimal.Decimal { return t.TotalExpense })},
	}
	for _, line := range lines {
		line := line
		rows = append(rows, summaryRow{
			label:    lineLabel(line),
			metric:   analytics.LineMetric(line),
			current:  rep.Current.Collections.Get(line),
			previous: prev(func(t *analytics.AggregatedTotals) decimal.Decimal { return t.Collections.Get(line) }),
		})
	}

	if err := writeHeader(f, SheetSummary, headerStyle, "Metric", "Current", "Previous", "Change (%)", "Current (display)"); err != nil {
		return err
	}
	for i, r := range rows {
		values := []interface{}{r.label, r.current.InexactFloat64(), nil, nil, displayValue(r)}
		if r.previous != nil {
			values[2] = r.previous.InexactFloat64()
		}
		if v, ok := analytics.Lookup(rep.Deltas, r.metric); ok {
			values[3] = v
		}
		if err := writeRow(f, SheetSummary, i+2, values); err != nil {
			return err
		}
	}

	next := len(rows) + 3
	info := [][]interface{}{
		{"Filter", string(rep.Mode)},
		{"From", windowBound(rep.Window, true)},
		{"To", windowBound(rep.Window, false)},
	}
	if rep.PreviousWindow != nil {
		info = append(info,
			[]interface{}{"Previous from", windowBound(*rep.PreviousWindow, true)},
			[]interface{}{"Previous to", windowBound(*rep.PreviousWindow, false)},
		)
	}
	for i, values := range info {
		if err := writeRow(f, SheetSummary, next+i, values); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "E", 20)
}

func displayValue(r summaryRow) string {
	switch r.metric {
	case analytics.MetricTotalPatients, analytics.MetricTotalAppointments:
		return r.current.String()
	}
	return utils.FormatRupee(r.current)
}

func windowBound(w analytics.DateWindow, from bool) string {
	if w.Empty() {
		return "-"
	}
	if from {
		return w.From.Format(dateLayout)
	}
	return w.To.Format(dateLayout)
}

func (s *ExportService) writePaymentMethods(f *excelize.File, rep analytics.Report, lines []analytics.ServiceLine, headerStyle int) error {
	headers := []string{"Method", "Total"}
	for _, line := range lines {
		headers = append(headers, lineLabel(line))
	}
	if err := writeHeader(f, SheetPaymentMethods, headerStyle, headers...); err != nil {
		return err
	}

	methods := make([]string, 0, len(rep.Current.PaymentMethods))
	for m := range rep.Current.PaymentMethods {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	for i, m := range methods {
		values := []interface{}{m, rep.Current.PaymentMethods[m].InexactFloat64()}
		for _, line := range lines {
			values = append(values, rep.Current.PerLinePaymentMethods[line][m].InexactFloat64())
		}
		if err := writeRow(f, SheetPaymentMethods, i+2, values); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetPaymentMethods, "A", "A", 18)
}

func (s *ExportService) writeWeekly(f *excelize.File, rep analytics.Report, headerStyle int) error {
	if err := writeHeader(f, SheetWeekly, headerStyle, "Date", "Day", "Patients", "Revenue"); err != nil {
		return err
	}
	for i, b := range rep.Weekly {
		if err := writeRow(f, SheetWeekly, i+2, []interface{}{b.Date, b.Label, b.Patients, b.Revenue.InexactFloat64()}); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, style int, headers ...string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func lineLabel(line analytics.ServiceLine) string {
	switch line {
	case analytics.LineServices:
		return "Consultation"
	case analytics.LineIPD:
		return "IPD"
	case analytics.LineOPD:
		return "OPD"
	case analytics.LineOPDProcedures:
		return "OPD Procedures"
	case analytics.LinePharmacy:
		return "Pharmacy"
	case analytics.LineLaboratory:
		return "Laboratory"
	}
	return string(line)
}
