// Package analytics derives dashboard and report figures from raw sale and
// customer records. Every function is pure: no I/O, no mutation of inputs,
// and the same inputs always give the same result.
package analytics

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sareeledger-backend/models"
)

type MonthTotals struct {
	Total      decimal.Decimal `json:"total"`
	Tips       decimal.Decimal `json:"tips"`
	Commission decimal.Decimal `json:"commission"`
	SaleCount  int             `json:"saleCount"`
}

type DayTotal struct {
	Day   string          `json:"day"`
	Date  models.Date     `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type CustomerStats struct {
	TotalSpent decimal.Decimal `json:"totalSpent"`
	AvgPrice   decimal.Decimal `json:"avgPrice"`
	SaleCount  int             `json:"saleCount"`
}

type CityTotal struct {
	City  string          `json:"city"`
	Total decimal.Decimal `json:"total"`
}

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DailyTotal sums totals of sales attributed to exactly that calendar day.
func DailyTotal(sales []models.Sale, date models.Date) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		if s.SaleDate.Equal(date) {
			total = total.Add(s.Total)
		}
	}
	return total
}

// MonthlyAggregate sums total, tips and commission over the month, both ends
// inclusive.
func MonthlyAggregate(sales []models.Sale, month models.YearMonth) MonthTotals {
	out := MonthTotals{Total: decimal.Zero, Tips: decimal.Zero, Commission: decimal.Zero}
	for _, s := range sales {
		if !month.Contains(s.SaleDate) {
			continue
		}
		out.Total = out.Total.Add(s.Total)
		out.Tips = out.Tips.Add(s.Tips)
		out.Commission = out.Commission.Add(s.Commission)
		out.SaleCount++
	}
	return out
}

// WeekStart is the Monday on or before d. A Sunday belongs to the week that
// started six days earlier.
func WeekStart(d models.Date) models.Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// WeeklySeries always returns seven entries, Mon through Sun, for the week
// containing reference.
func WeeklySeries(sales []models.Sale, reference models.Date) []DayTotal {
	start := WeekStart(reference)
	series := make([]DayTotal, 7)
	for i := range series {
		series[i] = DayTotal{Day: weekdayLabels[i], Date: start.AddDays(i), Total: decimal.Zero}
	}
	for _, s := range sales {
		idx := daysBetween(start, s.SaleDate)
		if idx < 0 || idx > 6 {
			continue
		}
		series[idx].Total = series[idx].Total.Add(s.Total)
	}
	return series
}

func daysBetween(start, end models.Date) int {
	return int(end.Sub(start.Time).Hours() / 24)
}

// StatsForCustomer computes lifetime spend for one customer. The average is
// rounded to a whole amount and is zero when there are no sales.
func StatsForCustomer(sales []models.Sale, customerID uuid.UUID) CustomerStats {
	stats := CustomerStats{TotalSpent: decimal.Zero, AvgPrice: decimal.Zero}
	for _, s := range sales {
		if s.CustomerID == nil || *s.CustomerID != customerID {
			continue
		}
		stats.TotalSpent = stats.TotalSpent.Add(s.Total)
		stats.SaleCount++
	}
	if stats.SaleCount > 0 {
		stats.AvgPrice = stats.TotalSpent.Div(decimal.NewFromInt(int64(stats.SaleCount))).Round(0)
	}
	return stats
}

// StatsByCustomer computes the same figures as StatsForCustomer for every
// referenced customer in one pass.
func StatsByCustomer(sales []models.Sale) map[uuid.UUID]CustomerStats {
	out := make(map[uuid.UUID]CustomerStats)
	for _, s := range sales {
		if s.CustomerID == nil {
			continue
		}
		st, ok := out[*s.CustomerID]
		if !ok {
			st = CustomerStats{TotalSpent: decimal.Zero, AvgPrice: decimal.Zero}
		}
		st.TotalSpent = st.TotalSpent.Add(s.Total)
		st.SaleCount++
		out[*s.CustomerID] = st
	}
	for id, st := range out {
		st.AvgPrice = st.TotalSpent.Div(decimal.NewFromInt(int64(st.SaleCount))).Round(0)
		out[id] = st
	}
	return out
}

// CityLabel treats the address as a city; blank addresses roll up as Unknown.
func CityLabel(address string) string {
	city := strings.TrimSpace(address)
	if city == "" {
		return models.UnknownLabel
	}
	return city
}

// CityRollup sums lifetime spend of customers sharing a city label. The
// result is ordered by total descending, ties by city name.
func CityRollup(customers []models.Customer, sales []models.Sale) []CityTotal {
	stats := StatsByCustomer(sales)
	totals := make(map[string]decimal.Decimal)
	for _, c := range customers {
		city := CityLabel(c.Address)
		sum, ok := totals[city]
		if !ok {
			sum = decimal.Zero
		}
		if st, ok := stats[c.ID]; ok {
			sum = sum.Add(st.TotalSpent)
		}
		totals[city] = sum
	}

	out := make([]CityTotal, 0, len(totals))
	for city, total := range totals {
		out = append(out, CityTotal{City: city, Total: total})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].City < out[j].City
	})
	return out
}

var hundred = decimal.NewFromInt(100)

// ProgressToGoal is the share of the goal reached, in percent, capped at 100.
// A non-positive goal reports no progress.
func ProgressToGoal(monthlyTotal, goal decimal.Decimal) float64 {
	if !goal.IsPositive() || !monthlyTotal.IsPositive() {
		return 0
	}
	pct := monthlyTotal.Div(goal).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return pct.Round(2).InexactFloat64()
}
