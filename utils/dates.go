// utils/dates.go
package utils

import (
	"time"

	"sareeledger-backend/models"
)

// DateOrToday parses a YYYY-MM-DD value; blank means today.
func DateOrToday(raw string, now time.Time) (models.Date, error) {
	if raw == "" {
		return models.DateOf(now), nil
	}
	return models.ParseDate(raw)
}

// MonthOrCurrent parses a YYYY-MM value; blank means the current month.
func MonthOrCurrent(raw string, now time.Time) (models.YearMonth, error) {
	if raw == "" {
		return models.DateOf(now).YearMonth(), nil
	}
	return models.ParseYearMonth(raw)
}
