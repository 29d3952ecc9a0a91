package finance

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportFixture() []ExportRow {
	return []ExportRow{
		{
			Type:        TypeIncome,
			Amount:      decimal.RequireFromString("1500.00"),
			Date:        time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
			Description: "Salary",
		},
		{
			Type:        TypeExpense,
			Amount:      decimal.RequireFromString("42.50"),
			Date:        time.Date(2025, 3, 2, 18, 15, 0, 0, time.UTC),
			Description: "Groceries",
		},
	}
}

func TestEncodeJSON(t *testing.T) {
	file, err := encodeJSON(exportFixture())
	require.NoError(t, err)
	require.Equal(t, "application/json", file.ContentType)
	require.Equal(t, "transactions_summary.json", file.Filename)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(file.Content, &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "income", decoded[0]["transactionType"])
	require.Equal(t, "Groceries", decoded[1]["description"])
}

func TestEncodeExcel(t *testing.T) {
	file, err := encodeExcel(exportFixture())
	require.NoError(t, err)
	require.Equal(t, "transactions_summary.xlsx", file.Filename)

	workbook, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer workbook.Close()

	header, err := workbook.GetCellValue("Transactions", "A1")
	require.NoError(t, err)
	require.Equal(t, "TransactionType", header)

	amount, err := workbook.GetCellValue("Transactions", "B3")
	require.NoError(t, err)
	require.Equal(t, "42.50", amount)
}

func TestEncodeCSVQuoting(t *testing.T) {
	rows := []ExportRow{
		{
			Type:        TypeExpense,
			Amount:      decimal.RequireFromString("9.99"),
			Date:        time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC),
			Description: `dinner, "fancy" place`,
		},
	}

	file, err := encodeCSV(rows)
	require.NoError(t, err)
	require.Contains(t, string(file.Content), `"dinner, ""fancy"" place"`)
}
