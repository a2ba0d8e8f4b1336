package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sareeledger-backend/logger"
	"sareeledger-backend/models"
)

func february(t *testing.T) models.YearMonth {
	t.Helper()
	m, err := models.ParseYearMonth("2024-02")
	require.NoError(t, err)
	return m
}

func seedLedger(t *testing.T, env *testEnv) {
	t.Helper()
	a := env.addCustomer(t, "Anu", "1", "Chennai")
	b := env.addCustomer(t, "Bala", "2", "Chennai")
	gone := env.addCustomer(t, "Gone", "3", "")
	env.addSale(t, nil, "2024-01-31", "10000", 1)
	env.addSale(t, a, "2024-02-01", "500", 1)
	env.addSale(t, b, "2024-02-10", "300", 1)
	env.addSale(t, gone, "2024-02-29", "100", 1)
	env.addSale(t, nil, "2024-02-15", "123456", 1)
	env.addSale(t, nil, "2024-03-01", "999", 1)
	require.NoError(t, env.customers.Delete(env.ctx, env.user, gone.ID))
}

func TestLedger_MonthWindowAndNames(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)

	ledger, err := env.reports.Ledger(env.ctx, env.user, february(t))
	require.NoError(t, err)
	assert.Equal(t, 4, ledger.Len())

	var names, dates []string
	for row := range ledger.SaleRows() {
		names = append(names, row.CustomerName)
		dates = append(dates, row.Date.String())
	}
	assert.Equal(t, []string{"2024-02-01", "2024-02-10", "2024-02-15", "2024-02-29"}, dates)
	assert.Equal(t, []string{"Anu", "Bala", models.WalkInLabel, models.UnknownLabel}, names)

	// restartable
	count := 0
	for range ledger.SaleRows() {
		count++
	}
	assert.Equal(t, 4, count)

	var cities []string
	for c := range ledger.CityRows() {
		cities = append(cities, c.City)
	}
	assert.Equal(t, []string{"Chennai"}, cities, "deleted customers drop out of the rollup")
}

func TestLedger_EmptyMonth(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.reports.Ledger(env.ctx, env.user, february(t))
	assert.ErrorIs(t, err, ErrNoSales)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "No sales data for this month", err.Error())
}

func TestLedgerPreview_FormatsRupees(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)
	ledger, err := env.reports.Ledger(env.ctx, env.user, february(t))
	require.NoError(t, err)

	p := ledger.Preview()
	assert.Equal(t, "2024-02", p.Month)
	require.Len(t, p.Rows, 4)
	assert.Equal(t, "₹1,23,456.00", p.Rows[2].TotalDisplay)
	assert.Equal(t, "₹800.00", p.Cities[0].TotalDisplay)
}

func TestWriteLedgerWorkbook(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)
	ledger, err := env.reports.Ledger(env.ctx, env.user, february(t))
	require.NoError(t, err)
	assert.Equal(t, "Saree_Ledger_2024-02.xlsx", LedgerFileName(ledger))

	buf, err := WriteLedgerWorkbook(ledger)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{LedgerSheet, CitySheet}, f.GetSheetList())

	header, err := f.GetCellValue(LedgerSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)
	first, err := f.GetCellValue(LedgerSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "01/02/2024", first)
	name, err := f.GetCellValue(LedgerSheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, models.UnknownLabel, name)

	rows, err := f.GetRows(LedgerSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	city, err := f.GetCellValue(CitySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Chennai", city)

	width, err := f.GetColWidth(LedgerSheet, "B")
	require.NoError(t, err)
	assert.Equal(t, float64(len("Customer Name")+2), width)

	// 123456 is displayed as 1,23,456.00
	width, err = f.GetColWidth(LedgerSheet, "H")
	require.NoError(t, err)
	assert.Equal(t, float64(len("1,23,456.00")+2), width)
}

func TestCities_LifetimeRollup(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCustomer(t, "A", "1", "Chennai")
	c2 := env.addCustomer(t, "B", "2", "Chennai")
	c3 := env.addCustomer(t, "C", "3", "")
	env.addSale(t, c1, "2023-12-01", "500", 1)
	env.addSale(t, c2, "2024-02-01", "300", 1)
	env.addSale(t, c3, "2024-02-02", "100", 1)

	cities, err := env.reports.Cities(env.ctx, env.user)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Chennai", cities[0].City)
	assert.Equal(t, "800", cities[0].Total.String())
	assert.Equal(t, "Unknown", cities[1].City)
	assert.Equal(t, "100", cities[1].Total.String())
}

func TestArchiveJob_StoresOneWorkbookPerMerchant(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)

	other := env.user
	env.user = uuid.New()
	env.addSale(t, nil, "2024-02-20", "700", 1)
	env.user = other

	job := NewArchiveJob(env.reports, env.store, logger.Nop())
	stored, err := job.RunFor(context.Background(), february(t))
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	key := ArchiveKey(other, february(t))
	assert.Equal(t, "exports/"+other.String()+"/Saree_Ledger_2024-02.xlsx", key)
	require.Contains(t, env.store.objects, key)
	_, err = excelize.OpenReader(bytes.NewReader(env.store.objects[key]))
	assert.NoError(t, err)
}

func TestArchiveJob_UploadFailureIsPerMerchant(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)
	env.store.failPut = true

	job := NewArchiveJob(env.reports, env.store, logger.Nop())
	stored, err := job.RunFor(context.Background(), february(t))
	require.NoError(t, err)
	assert.Equal(t, 0, stored)
}

func TestArchiveJob_RejectsBadSchedule(t *testing.T) {
	env := newTestEnv(t)
	job := NewArchiveJob(env.reports, env.store, logger.Nop())
	assert.Error(t, job.Start("not a schedule"))
	job.Stop()
}
