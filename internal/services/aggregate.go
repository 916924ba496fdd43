package services

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"shop-dashboard/internal/models"
)

const revenuePlaces = 2

var zero = decimal.Zero

// Aggregator turns the orders of a date range into the dashboard Metrics.
// It keeps no state between calls and is safe for concurrent use.
type Aggregator struct {
	logger *slog.Logger
}

func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate computes the line-item and referral metrics in one pass over
// orders; currencies, countries and daily buckets take a pass each. Bad
// records never fail the report: unreadable amounts count as zero and
// unparseable referrers lose their attribution.
func (a *Aggregator) Aggregate(orders []models.Order, start, end time.Time) (*models.Metrics, error) {
	rng := DateRange{Start: truncateDay(start), End: truncateDay(end)}
	if err := rng.validate(); err != nil {
		return nil, err
	}

	var (
		products = NewCounter()
		prices   = NewCounter()
		sites    = NewCounter()
		pages    = NewCounter()

		revenuePerProduct = NewSummer()
		revenuePerPrice   = NewSummer()
		revenuePerSite    = NewSummer()
		revenuePerPage    = NewSummer()

		countryPoints  []SeriesPoint
		customerPoints []SeriesPoint

		total = decimal.Zero
	)

	for _, o := range orders {
		total = total.Add(a.amount(o.ID, "total_price", o.TotalPrice))

		// Orders without a referring_site field carry no referral at all; an
		// empty one is the None bucket.
		var (
			ref      Referral
			referred bool
		)
		if o.ReferringSite != nil {
			var err error
			ref, err = ClassifyReferral(o.ReferringSite)
			if err != nil {
				a.logger.Debug("skipping referral attribution", "order_id", o.ID, "error", err)
			} else {
				referred = true
				pages.Inc(ref.Page)
				sites.Inc(ref.Site)
			}
		}

		for _, li := range o.LineItems {
			price := a.amount(o.ID, "line_item.price", li.Price)
			priceKey := string(li.Price)

			products.Inc(li.Title)
			prices.Inc(priceKey)
			revenuePerProduct.Add(li.Title, price)
			revenuePerPrice.Add(priceKey, price)

			if o.BillingAddress != nil {
				countryPoints = append(countryPoints, SeriesPoint{Name: li.Title, Category: o.BillingAddress.Country, Value: price})
			}
			if o.Customer != nil {
				customerPoints = append(customerPoints, SeriesPoint{Name: li.Title, Category: strconv.FormatInt(o.Customer.ID, 10), Value: price})
			}
			// Each line item is attributed to the referrer in full.
			if referred {
				revenuePerPage.Add(ref.Page, price)
				revenuePerSite.Add(ref.Site, price)
			}
		}
	}

	total = total.Round(revenuePlaces)

	return &models.Metrics{
		StartDate:  rng.Start.Format(time.DateOnly),
		EndDate:    rng.End.Format(time.DateOnly),
		OrderCount: len(orders),

		TotalRevenue:   total,
		AverageRevenue: averageRevenue(total, rng.Span()),

		Currencies:      CountBy(orders, orderCurrency),
		SalesPerCountry: CountBy(orders, orderCountry),
		Products:        products.Counts(),
		Prices:          sortCountsNumeric(prices.Counts()),
		ReferringSites:  sortCountsLexical(sites.Counts()),
		ReferringPages:  sortCountsLexical(pages.Counts()),

		RevenuePerProduct:      revenuePerProduct.Amounts(),
		RevenuePerPricePoint:   sortAmountsNumeric(revenuePerPrice.Amounts()),
		RevenuePerReferralSite: sortAmountsLexical(revenuePerSite.Amounts()),
		RevenuePerReferralPage: sortAmountsLexical(revenuePerPage.Amounts()),
		DailyRevenue:           BucketizeDaily(rng.Start, rng.End, orders),

		RevenuePerCountry: BuildSeries(countryPoints),
		CustomerSales:     BuildSeries(customerPoints),
	}, nil
}

func orderCurrency(o models.Order) (string, bool) {
	if o.Currency == nil {
		return "", false
	}
	return *o.Currency, true
}

func orderCountry(o models.Order) (string, bool) {
	if o.BillingAddress == nil {
		return "", false
	}
	return o.BillingAddress.Country, true
}

func (a *Aggregator) amount(orderID int64, field string, m models.Money) decimal.Decimal {
	d, err := m.Decimal()
	if err != nil {
		a.logger.Debug("unreadable amount counted as zero", "order_id", orderID, "field", field, "value", string(m), "error", err)
		return zero
	}
	return d
}

// averageRevenue spreads total over the span in days. A single-day range has
// no span to divide by, so the average is the total itself.
func averageRevenue(total decimal.Decimal, span int) decimal.Decimal {
	if span <= 0 {
		return total
	}
	return total.Div(decimal.NewFromInt(int64(span))).Round(revenuePlaces)
}
