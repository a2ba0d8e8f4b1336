package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sareeledger-backend/models"
)

func d(s string) models.Date {
	out, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return out
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func sale(date string, total int64) models.Sale {
	return models.Sale{ID: uuid.New(), SaleDate: d(date), Total: dec(total), Tips: decimal.Zero, Commission: decimal.Zero}
}

func TestDailyTotal_EmptyIsZero(t *testing.T) {
	got := DailyTotal(nil, d("2024-02-01"))
	assert.True(t, got.IsZero())
}

func TestDailyTotal_ExactDayOnly(t *testing.T) {
	sales := []models.Sale{
		sale("2024-02-01", 1000),
		sale("2024-02-01", 250),
		sale("2024-02-02", 999),
	}
	got := DailyTotal(sales, d("2024-02-01"))
	assert.True(t, got.Equal(dec(1250)), "got %s", got)
}

func TestMonthlyAggregate_LeapFebruaryWindow(t *testing.T) {
	sales := []models.Sale{
		{SaleDate: d("2024-01-31"), Total: dec(100), Tips: dec(1), Commission: dec(10)},
		{SaleDate: d("2024-02-01"), Total: dec(200), Tips: dec(2), Commission: dec(20)},
		{SaleDate: d("2024-02-29"), Total: dec(300), Tips: dec(3), Commission: dec(30)},
		{SaleDate: d("2024-03-01"), Total: dec(400), Tips: dec(4), Commission: dec(40)},
	}
	month, err := models.ParseYearMonth("2024-02")
	require.NoError(t, err)

	got := MonthlyAggregate(sales, month)
	assert.Equal(t, 2, got.SaleCount)
	assert.True(t, got.Total.Equal(dec(500)))
	assert.True(t, got.Tips.Equal(dec(5)))
	assert.True(t, got.Commission.Equal(dec(50)))
}

func TestMonthlyAggregate_DoesNotMutateInput(t *testing.T) {
	sales := []models.Sale{sale("2024-02-10", 10)}
	before := sales[0]
	month, _ := models.ParseYearMonth("2024-02")
	_ = MonthlyAggregate(sales, month)
	assert.Equal(t, before, sales[0])
}

func TestWeeklySeries_AlwaysSevenDaysMonFirst(t *testing.T) {
	labels := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	// 2024-02-05 is a Monday; walk the whole week including Sunday.
	for i := 0; i < 7; i++ {
		ref := d("2024-02-05").AddDays(i)
		series := WeeklySeries(nil, ref)
		require.Len(t, series, 7)
		for j, entry := range series {
			assert.Equal(t, labels[j], entry.Day)
			assert.True(t, entry.Total.IsZero())
		}
		assert.Equal(t, "2024-02-05", series[0].Date.String(), "reference %s", ref)
		assert.Equal(t, "2024-02-11", series[6].Date.String())
	}
}

func TestWeeklySeries_SundayBelongsToPrecedingMonday(t *testing.T) {
	sunday := d("2024-02-11")
	require.Equal(t, time.Sunday, sunday.Weekday())
	sales := []models.Sale{
		sale("2024-02-04", 50), // previous Sunday, outside
		sale("2024-02-05", 100),
		sale("2024-02-07", 70),
		sale("2024-02-11", 30),
		sale("2024-02-12", 999), // next Monday, outside
	}
	series := WeeklySeries(sales, sunday)
	assert.True(t, series[0].Total.Equal(dec(100)))
	assert.True(t, series[2].Total.Equal(dec(70)))
	assert.True(t, series[6].Total.Equal(dec(30)))
	assert.True(t, series[1].Total.IsZero())
}

func TestStatsForCustomer_NoSales(t *testing.T) {
	got := StatsForCustomer([]models.Sale{sale("2024-01-01", 10)}, uuid.New())
	assert.Equal(t, 0, got.SaleCount)
	assert.True(t, got.TotalSpent.IsZero())
	assert.True(t, got.AvgPrice.IsZero())
}

func TestStatsForCustomer_RoundsAverage(t *testing.T) {
	id := uuid.New()
	other := uuid.New()
	sales := []models.Sale{
		{CustomerID: &id, Total: dec(1000)},
		{CustomerID: &id, Total: dec(1001)},
		{CustomerID: &id, Total: dec(1000)},
		{CustomerID: &other, Total: dec(5000)},
		{Total: dec(7000)},
	}
	got := StatsForCustomer(sales, id)
	assert.Equal(t, 3, got.SaleCount)
	assert.True(t, got.TotalSpent.Equal(dec(3001)))
	assert.True(t, got.AvgPrice.Equal(dec(1000)), "avg %s", got.AvgPrice)
}

func TestStatsByCustomer_MatchesSingleCustomerStats(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	sales := []models.Sale{
		{CustomerID: &a, Total: dec(300)},
		{CustomerID: &b, Total: dec(100)},
		{CustomerID: &a, Total: dec(400)},
	}
	all := StatsByCustomer(sales)
	assert.Equal(t, StatsForCustomer(sales, a), all[a])
	assert.Equal(t, StatsForCustomer(sales, b), all[b])
}

func TestCityRollup_MergesAndLabelsUnknown(t *testing.T) {
	c1 := models.Customer{ID: uuid.New(), Address: "Chennai"}
	c2 := models.Customer{ID: uuid.New(), Address: "Chennai"}
	c3 := models.Customer{ID: uuid.New(), Address: ""}
	sales := []models.Sale{
		{CustomerID: &c1.ID, Total: dec(500)},
		{CustomerID: &c2.ID, Total: dec(300)},
		{CustomerID: &c3.ID, Total: dec(100)},
	}

	got := CityRollup([]models.Customer{c1, c2, c3}, sales)
	require.Len(t, got, 2)
	assert.Equal(t, "Chennai", got[0].City)
	assert.True(t, got[0].Total.Equal(dec(800)))
	assert.Equal(t, "Unknown", got[1].City)
	assert.True(t, got[1].Total.Equal(dec(100)))
}

func TestCityRollup_TiesOrderedByName(t *testing.T) {
	a := models.Customer{ID: uuid.New(), Address: "Vellore"}
	b := models.Customer{ID: uuid.New(), Address: "Madurai"}
	sales := []models.Sale{
		{CustomerID: &a.ID, Total: dec(10)},
		{CustomerID: &b.ID, Total: dec(10)},
	}
	got := CityRollup([]models.Customer{a, b}, sales)
	assert.Equal(t, "Madurai", got[0].City)
	assert.Equal(t, "Vellore", got[1].City)
}

func TestProgressToGoal(t *testing.T) {
	assert.Equal(t, 100.0, ProgressToGoal(dec(1200000), dec(1000000)))
	assert.Equal(t, 50.0, ProgressToGoal(dec(500000), dec(1000000)))
	assert.Equal(t, 0.0, ProgressToGoal(decimal.Zero, dec(1000000)))
	assert.Equal(t, 0.0, ProgressToGoal(dec(10), decimal.Zero))
}

func TestSaleTotalExcludesCommission(t *testing.T) {
	got := models.SaleTotal(dec(2000), 2, dec(150))
	assert.True(t, got.Equal(dec(4150)))
}
