package finance

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildMonthlyWorkbook renders the monthly summary as an xlsx workbook with a
// summary sheet and a payout sheet, returned as raw bytes ready for upload.
func BuildMonthlyWorkbook(result *MonthlyResult, month, year int) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := fmt.Sprintf("Summary %02d-%d", month, year)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	summaryRows := []struct {
		label string
		value string
	}{
		{"Total revenue", result.Summary.TotalRevenue.StringFixed(2)},
		{"Direct expenses", result.Summary.TotalDirectExpenses.StringFixed(2)},
		{"General expenses", result.Summary.TotalGeneralExpenses.StringFixed(2)},
		{"Net margin", result.Summary.NetMargin.StringFixed(2)},
	}
	for i, row := range summaryRows {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", i+1), row.label)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", i+1), row.value)
	}

	payoutSheet := "Payouts"
	if _, err := f.NewSheet(payoutSheet); err != nil {
		return nil, fmt.Errorf("failed to create payout sheet: %w", err)
	}
	f.SetCellValue(payoutSheet, "A1", "Worker")
	f.SetCellValue(payoutSheet, "B1", "Total payout")
	for i, p := range result.Payouts {
		rowIndex := i + 2
		f.SetCellValue(payoutSheet, fmt.Sprintf("A%d", rowIndex), p.WorkerName)
		f.SetCellValue(payoutSheet, fmt.Sprintf("B%d", rowIndex), p.TotalAmount.StringFixed(2))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
