package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type KeyCount struct {
	Key   string
	Count int
}

// Counts is an ordered key to occurrence mapping. It encodes as a list of
// [key, count] pairs so the order survives JSON.
type Counts []KeyCount

func (c Counts) Get(key string) int {
	for _, kc := range c {
		if kc.Key == key {
			return kc.Count
		}
	}
	return 0
}

func (c Counts) Keys() []string {
	keys := make([]string, len(c))
	for i, kc := range c {
		keys[i] = kc.Key
	}
	return keys
}

func (c Counts) Total() int {
	var n int
	for _, kc := range c {
		n += kc.Count
	}
	return n
}

func (c Counts) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, len(c))
	for i, kc := range c {
		pairs[i] = [2]any{kc.Key, kc.Count}
	}
	return json.Marshal(pairs)
}

type KeyAmount struct {
	Key    string
	Amount decimal.Decimal
}

// Amounts is an ordered key to monetary sum mapping, encoded like Counts.
type Amounts []KeyAmount

func (a Amounts) Get(key string) decimal.Decimal {
	for _, ka := range a {
		if ka.Key == key {
			return ka.Amount
		}
	}
	return decimal.Zero
}

func (a Amounts) Keys() []string {
	keys := make([]string, len(a))
	for i, ka := range a {
		keys[i] = ka.Key
	}
	return keys
}

func (a Amounts) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ka := range a {
		total = total.Add(ka.Amount)
	}
	return total
}

func (a Amounts) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, len(a))
	for i, ka := range a {
		pairs[i] = [2]any{ka.Key, json.Number(ka.Amount.String())}
	}
	return json.Marshal(pairs)
}

// Series is one named stack of a chart, e.g. a product plotted over countries.
type Series struct {
	Name string  `json:"name"`
	Data Amounts `json:"data"`
}

type Metrics struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	OrderCount int    `json:"order_count"`

	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	AverageRevenue decimal.Decimal `json:"average_revenue"`

	Currencies      Counts `json:"currencies"`
	SalesPerCountry Counts `json:"sales_per_country"`
	Products        Counts `json:"products"`
	Prices          Counts `json:"prices"`
	ReferringSites  Counts `json:"referring_sites"`
	ReferringPages  Counts `json:"referring_pages"`

	RevenuePerProduct      Amounts `json:"revenue_per_product"`
	RevenuePerPricePoint   Amounts `json:"revenue_per_price_point"`
	RevenuePerReferralSite Amounts `json:"revenue_per_referral_site"`
	RevenuePerReferralPage Amounts `json:"revenue_per_referral_page"`
	DailyRevenue           Amounts `json:"daily_revenue"`

	RevenuePerCountry []Series `json:"revenue_per_country"`
	CustomerSales     []Series `json:"customer_sales"`
}
