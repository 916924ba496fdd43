package services

import (
	"time"

	"shop-dashboard/internal/models"
)

// BucketizeDaily sums order totals per creation day over every day from
// start to end inclusive. Days without sales stay at zero, orders outside
// the range or with unreadable dates or totals add nothing.
func BucketizeDaily(start, end time.Time, orders []models.Order) models.Amounts {
	days := DateRange{Start: start, End: end}.Days()

	buckets := NewSummer()
	known := make(map[string]bool, len(days))
	for _, day := range days {
		buckets.Add(day, zero)
		known[day] = true
	}

	for _, o := range orders {
		day, err := o.CreatedDay()
		if err != nil || !known[day] {
			continue
		}
		total, err := o.TotalPrice.Decimal()
		if err != nil {
			continue
		}
		buckets.Add(day, total)
	}
	return buckets.Amounts()
}
