package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrEmptyAmount = errors.New("empty monetary amount")

// Money keeps the amount exactly as the order source sent it. The source
// encodes prices as JSON strings ("19.99") but numbers are accepted too.
type Money string

func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*m = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Money(strings.TrimSpace(s))
	default:
		*m = Money(raw)
	}
	return nil
}

func (m Money) Decimal() (decimal.Decimal, error) {
	if m == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	return decimal.NewFromString(string(m))
}

type Order struct {
	ID             int64           `json:"id"`
	CreatedAt      string          `json:"created_at"`
	TotalPrice     Money           `json:"total_price"`
	Currency       *string         `json:"currency,omitempty"`
	BillingAddress *BillingAddress `json:"billing_address,omitempty"`
	ReferringSite  *string         `json:"referring_site,omitempty"`
	Customer       *Customer       `json:"customer,omitempty"`
	LineItems      []LineItem      `json:"line_items"`
}

type BillingAddress struct {
	Country string `json:"country"`
}

type Customer struct {
	ID int64 `json:"id"`
}

type LineItem struct {
	Title string `json:"title"`
	Price Money  `json:"price"`
}

// CreatedDay returns the calendar day of the order in the offset the
// timestamp was recorded with. Bare dates are accepted as well.
func (o Order) CreatedDay() (string, error) {
	if t, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
		return t.Format(time.DateOnly), nil
	}
	t, err := time.Parse(time.DateOnly, o.CreatedAt)
	if err != nil {
		return "", err
	}
	return t.Format(time.DateOnly), nil
}

type OrdersPage struct {
	Orders []Order `json:"orders"`
}
