package services

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"shop-dashboard/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func strPtr(s string) *string {
	return &s
}

type orderOpt func(*models.Order)

func withCountry(c string) orderOpt {
	return func(o *models.Order) { o.BillingAddress = &models.BillingAddress{Country: c} }
}

func withCustomer(id int64) orderOpt {
	return func(o *models.Order) { o.Customer = &models.Customer{ID: id} }
}

func withReferrer(site string) orderOpt {
	return func(o *models.Order) { o.ReferringSite = strPtr(site) }
}

func withCurrency(c string) orderOpt {
	return func(o *models.Order) { o.Currency = strPtr(c) }
}

func withItems(items ...models.LineItem) orderOpt {
	return func(o *models.Order) { o.LineItems = items }
}

func item(title, price string) models.LineItem {
	return models.LineItem{Title: title, Price: models.Money(price)}
}

func newOrder(id int64, createdAt, total string, opts ...orderOpt) models.Order {
	o := models.Order{ID: id, CreatedAt: createdAt, TotalPrice: models.Money(total)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
