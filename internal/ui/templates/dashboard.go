// Package templates holds the dashboard markup. Components live in the
// .templ files; run templ generate after editing them.
package templates

import (
	"net/url"

	"shop-dashboard/internal/models"
)

// DrawCharts redraws every chart inside #charts. Run it after patching the
// charts block.
const DrawCharts = "drawCharts()"

type DashboardView struct {
	From    string
	To      string
	Today   string
	Metrics *models.Metrics
	Error   string
}

type chart struct {
	id      string
	title   string
	kind    string
	data    any
	stacked bool
}

type section struct {
	title  string
	charts []chart
}

func sections(m *models.Metrics) []section {
	return []section{
		{title: "Currencies", charts: []chart{
			{id: "currencies", title: "Currencies Used per Purchase", kind: "PieChart", data: m.Currencies},
		}},
		{title: "Countries", charts: []chart{
			{id: "sales-per-country", title: "Proportion of Sales per Country", kind: "PieChart", data: m.SalesPerCountry},
			{id: "revenue-per-country", title: "Revenue per Country", kind: "ColumnChart", data: m.RevenuePerCountry, stacked: true},
		}},
		{title: "Sales", charts: []chart{
			{id: "daily-revenue", title: "Daily Sales", kind: "ColumnChart", data: m.DailyRevenue},
			{id: "products-share", title: "Proportion of Sales per Product", kind: "PieChart", data: m.Products},
			{id: "products", title: "Number of Sales per Product", kind: "ColumnChart", data: m.Products},
			{id: "revenue-per-product", title: "Revenue per Product", kind: "ColumnChart", data: m.RevenuePerProduct},
		}},
		{title: "Prices", charts: []chart{
			{id: "prices-share", title: "Proportion of Items Sold per Price Point", kind: "PieChart", data: m.Prices},
			{id: "prices", title: "Number of Items Sold per Price Point", kind: "ColumnChart", data: m.Prices},
			{id: "revenue-per-price-point", title: "Revenue per Price Point", kind: "ColumnChart", data: m.RevenuePerPricePoint},
		}},
		{title: "Customers", charts: []chart{
			{id: "customer-sales", title: "Purchases per Customer", kind: "ColumnChart", data: m.CustomerSales, stacked: true},
		}},
		{title: "Traffic", charts: []chart{
			{id: "referring-sites", title: "Referrals per Site", kind: "ColumnChart", data: m.ReferringSites},
			{id: "referring-pages", title: "Referrals per Site Page", kind: "ColumnChart", data: m.ReferringPages},
			{id: "revenue-per-referral-site", title: "Revenue per Referral Site", kind: "ColumnChart", data: m.RevenuePerReferralSite},
			{id: "revenue-per-referral-page", title: "Revenue per Referral Site Page", kind: "ColumnChart", data: m.RevenuePerReferralPage},
		}},
	}
}

// refreshAction is the datastar expression behind the refresh button. The
// query is percent-encoded so user input cannot close the quoted URL.
func refreshAction(from, to string) string {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	return "@get('/sse/metrics?" + q.Encode() + "')"
}
