package analytics

import (
	"sort"
	"strings"

	"sareeledger-backend/models"
)

// FilterCustomers keeps customers whose name, phone, address or buyer speed
// contains the query, ignoring case. A blank query keeps everyone. The input
// order is preserved.
func FilterCustomers(customers []models.Customer, query string) []models.Customer {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Customer, 0, len(customers))
	if q == "" {
		return append(out, customers...)
	}
	qDigits := ""
	if strings.Trim(q, "0123456789 +-()") == "" {
		qDigits = models.PhoneDigits(q)
	}
	for _, c := range customers {
		if matchesCustomer(c, q, qDigits) {
			out = append(out, c)
		}
	}
	return out
}

func matchesCustomer(c models.Customer, q, qDigits string) bool {
	if strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Phone), q) ||
		strings.Contains(strings.ToLower(c.Address), q) {
		return true
	}
	if qDigits != "" && strings.Contains(models.PhoneDigits(c.Phone), qDigits) {
		return true
	}
	if c.BuyerSpeed != "" {
		if strings.Contains(strings.ToLower(string(c.BuyerSpeed)), q) ||
			strings.Contains(strings.ToLower(c.BuyerSpeed.Label()), q) {
			return true
		}
	}
	return false
}

// SortByPriority returns a copy ordered by buyer speed rank. Customers of
// equal rank keep their relative order.
func SortByPriority(customers []models.Customer) []models.Customer {
	out := append([]models.Customer(nil), customers...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BuyerSpeed.Rank() < out[j].BuyerSpeed.Rank()
	})
	return out
}
