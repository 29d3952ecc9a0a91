package finance

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatJSON  = "json"
)

// ExportFile is a fully rendered download, ready to be written to the client.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

var exportHeader = []string{"TransactionType", "Amount", "TransactionDate", "Description"}

const exportDateLayout = "2006-01-02 15:04:05"

func encodeExport(rows []ExportRow, format string) (ExportFile, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(rows)
	case FormatExcel:
		return encodeExcel(rows)
	case FormatJSON:
		return encodeJSON(rows)
	default:
		return ExportFile{}, fmt.Errorf("unsupported export format: %q", format)
	}
}

func encodeCSV(rows []ExportRow) (ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return ExportFile{}, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Type,
			row.Amount.StringFixed(2),
			row.Date.Format(exportDateLayout),
			row.Description,
		}
		if err := w.Write(record); err != nil {
			return ExportFile{}, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return ExportFile{}, fmt.Errorf("failed to flush csv: %w", err)
	}

	return ExportFile{
		Content:     buf.Bytes(),
		ContentType: "text/csv",
		Filename:    "transactions_summary.csv",
	}, nil
}

func encodeExcel(rows []ExportRow) (ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return ExportFile{}, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return ExportFile{}, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return ExportFile{}, fmt.Errorf("failed to locate header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return ExportFile{}, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.Type,
			row.Amount.StringFixed(2),
			row.Date.Format(exportDateLayout),
			row.Description,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return ExportFile{}, fmt.Errorf("failed to locate cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return ExportFile{}, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ExportFile{}, fmt.Errorf("failed to render workbook: %w", err)
	}

	return ExportFile{
		Content:     buf.Bytes(),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Filename:    "transactions_summary.xlsx",
	}, nil
}

func encodeJSON(rows []ExportRow) (ExportFile, error) {
	content, err := json.Marshal(rows)
	if err != nil {
		return ExportFile{}, fmt.Errorf("failed to marshal export rows: %w", err)
	}
	return ExportFile{
		Content:     content,
		ContentType: "application/json",
		Filename:    "transactions_summary.json",
	}, nil
}
