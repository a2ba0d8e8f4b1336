package services

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"sareeledger-backend/utils"
)

const (
	LedgerSheet = "Sales Ledger"
	CitySheet   = "City Rollup"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	ledgerHeader = []string{
		"Date", "Customer Name", "Saree Type", "Saree Price (₹)", "Quantity",
		"Tips (₹)", "Commission (₹)", "Total (₹)", "Payment Mode",
	}
	cityHeader = []string{"City", "Total Purchases (₹)"}

	amountFormat = "#,##,##0.00"
)

// LedgerFileName names the workbook after its month, e.g.
// Saree_Ledger_2024-02.xlsx.
func LedgerFileName(l *Ledger) string {
	return fmt.Sprintf("Saree_Ledger_%s.xlsx", l.Month)
}

// WriteLedgerWorkbook renders the ledger as a two-sheet workbook with a bold
// header row and columns sized to their widest value.
func WriteLedgerWorkbook(l *Ledger) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LedgerSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(CitySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#0F5132"}},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFormat})
	if err != nil {
		return nil, err
	}

	ledger := newSheetWriter(f, LedgerSheet, ledgerHeader)
	for row := range l.SaleRows() {
		ledger.add(
			row.Date.Format("02/01/2006"),
			row.CustomerName,
			row.SareeType,
			row.SareePrice,
			row.Quantity,
			row.Tips,
			row.Commission,
			row.Total,
			row.PaymentMode,
		)
	}
	if err := ledger.finish(headerStyle, moneyStyle, 4, 6, 7, 8); err != nil {
		return nil, err
	}

	cities := newSheetWriter(f, CitySheet, cityHeader)
	for city := range l.CityRows() {
		cities.add(city.City, city.Total)
	}
	if err := cities.finish(headerStyle, moneyStyle, 2); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f.WriteToBuffer()
}

// sheetWriter appends rows and remembers the widest displayed text per
// column. Amounts are written as numbers and measured as they are shown.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	row    int
	widths []int
	err    error
}

func newSheetWriter(f *excelize.File, sheet string, header []string) *sheetWriter {
	w := &sheetWriter{f: f, sheet: sheet, widths: make([]int, len(header))}
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	w.add(values...)
	return w
}

func (w *sheetWriter) add(values ...interface{}) {
	if w.err != nil {
		return
	}
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		text := fmt.Sprint(v)
		cells[i] = v
		if amount, ok := v.(decimal.Decimal); ok {
			cells[i] = amount.InexactFloat64()
			text = utils.FormatAmount(amount)
		}
		if n := utf8.RuneCountInString(text); n > w.widths[i] {
			w.widths[i] = n
		}
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &cells); err != nil {
		w.err = err
	}
}

// finish styles the header, applies the amount format to the given 1-based
// columns and sets every column width to its widest value plus two.
func (w *sheetWriter) finish(headerStyle, moneyStyle int, moneyCols ...int) error {
	if w.err != nil {
		return w.err
	}
	last, err := excelize.ColumnNumberToName(len(w.widths))
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(w.sheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	if w.row > 1 {
		for _, col := range moneyCols {
			name, err := excelize.ColumnNumberToName(col)
			if err != nil {
				return err
			}
			if err := w.f.SetCellStyle(w.sheet, fmt.Sprintf("%s2", name), fmt.Sprintf("%s%d", name, w.row), moneyStyle); err != nil {
				return err
			}
		}
	}
	for i, width := range w.widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(w.sheet, name, name, float64(width+2)); err != nil {
			return err
		}
	}
	return nil
}
