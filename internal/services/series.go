package services

import (
	"github.com/shopspring/decimal"

	"shop-dashboard/internal/models"
)

// SeriesPoint is a single flat observation destined for a stacked chart:
// Name selects the series, Category the x-axis position.
type SeriesPoint struct {
	Name     string
	Category string
	Value    decimal.Decimal
}

// BuildSeries groups points by series name and merges points sharing a
// category within a series by summing their values. Series and categories
// keep first-seen order. Chart renderers drop repeated categories, so the
// merge is what keeps every sale on the chart.
func BuildSeries(points []SeriesPoint) []models.Series {
	var order []string
	groups := make(map[string]*Summer)
	for _, p := range points {
		s, ok := groups[p.Name]
		if !ok {
			s = NewSummer()
			groups[p.Name] = s
			order = append(order, p.Name)
		}
		s.Add(p.Category, p.Value)
	}

	series := make([]models.Series, 0, len(order))
	for _, name := range order {
		series = append(series, models.Series{Name: name, Data: groups[name].Amounts()})
	}
	return series
}

// FlattenSeries is the inverse of BuildSeries up to merging.
func FlattenSeries(series []models.Series) []SeriesPoint {
	var points []SeriesPoint
	for _, s := range series {
		for _, d := range s.Data {
			points = append(points, SeriesPoint{Name: s.Name, Category: d.Key, Value: d.Amount})
		}
	}
	return points
}
