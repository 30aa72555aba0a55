// Package importer loads customer accounts in bulk from an Excel
// workbook, one account per row. Rows are independent: a bad row is
// reported and skipped, the rest of the sheet still imports.
package importer

import (
	"collection-engine/internal/domain/customer"
	"collection-engine/internal/infrastructure/monitoring"
	"collection-engine/internal/pkg/apperrors"
	"collection-engine/internal/pkg/timeutil"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Column headers recognized in the first row. Matching is
// case-insensitive and ignores spaces and underscores.
const (
	colName       = "name"
	colPhone      = "phone"
	colAddress    = "address"
	colArea       = "area"
	colLoanAmount = "loanamount"
	colAmountPaid = "amountpaid"
	colDueDate    = "duedate"
)

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Result struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

type ExcelImporter struct {
	customers customer.CustomerService
	logger    *slog.Logger
}

func NewExcelImporter(customers customer.CustomerService, logger *slog.Logger) *ExcelImporter {
	if customers == nil {
		panic("customer service cannot be nil")
	}
	return &ExcelImporter{
		customers: customers,
		logger:    logger.With("component", "ExcelImporter"),
	}
}

// ImportCustomers reads the first sheet of the workbook and creates one
// customer per data row.
func (imp *ExcelImporter) ImportCustomers(ctx context.Context, r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open workbook: %v", apperrors.ErrInvalidArgument, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrInvalidArgument)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read sheet %q: %v", apperrors.ErrInvalidArgument, sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet %q has a header row but no data", apperrors.ErrInvalidArgument, sheets[0])
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: []RowError{}}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		params, parseErr := parseRow(row, columns)
		if parseErr != nil {
			imp.recordFailure(result, rowNum, parseErr)
			continue
		}

		if _, createErr := imp.customers.CreateCustomer(ctx, *params); createErr != nil {
			imp.recordFailure(result, rowNum, createErr)
			continue
		}

		monitoring.RecordImportRow("success")
		result.Imported++
	}

	imp.logger.InfoContext(ctx, "Customer import finished",
		slog.Int("imported", result.Imported),
		slog.Int("failed", result.Failed))
	return result, nil
}

func (imp *ExcelImporter) recordFailure(result *Result, rowNum int, err error) {
	monitoring.RecordImportRow("failure")
	result.Failed++
	result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, cell := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(cell), " ", ""), "_", ""))
		if key != "" {
			columns[key] = i
		}
	}

	for _, required := range []string{colName, colPhone, colLoanAmount, colDueDate} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", apperrors.ErrInvalidArgument, required)
		}
	}
	return columns, nil
}

func parseRow(row []string, columns map[string]int) (*customer.CreateParams, error) {
	cell := func(key string) string {
		idx, ok := columns[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	loanAmount, err := parseAmount(cell(colLoanAmount))
	if err != nil {
		return nil, fmt.Errorf("invalid loan amount: %w", err)
	}

	amountPaid := 0.0
	if raw := cell(colAmountPaid); raw != "" {
		amountPaid, err = parseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid amount paid: %w", err)
		}
	}

	dueDate, err := parseDueDate(cell(colDueDate))
	if err != nil {
		return nil, err
	}

	return &customer.CreateParams{
		Name:       cell(colName),
		Phone:      cell(colPhone),
		Address:    cell(colAddress),
		Area:       cell(colArea),
		LoanAmount: loanAmount,
		AmountPaid: amountPaid,
		DueDate:    dueDate,
	}, nil
}

func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return amount, nil
}

// parseDueDate accepts the ISO layout plus the serial-number form Excel
// stores dates in.
func parseDueDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("due date is required")
	}
	if t, err := timeutil.ParseDate(raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("01-02-06", raw); err == nil {
		return t, nil
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, convErr := excelize.ExcelDateToTime(serial, false); convErr == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q (use YYYY-MM-DD)", raw)
}
