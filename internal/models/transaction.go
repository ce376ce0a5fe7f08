package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	InvoiceID      string          `json:"invoice_id"`
	Branch         string          `json:"branch"`
	City           string          `json:"city"`
	CustomerType   string          `json:"customer_type"`
	Gender         string          `json:"gender"`
	ProductLine    string          `json:"product_line"`
	UnitPrice      float64         `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	Tax            float64         `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	Date           time.Time       `json:"date"`
	Time           string          `json:"time"`
	Payment        string          `json:"payment"`
	COGS           float64         `json:"cogs"`
	GrossMarginPct float64         `json:"gross_margin_pct"`
	GrossIncome    float64         `json:"gross_income"`
	Rating         float64         `json:"rating"`
	Hour           int             `json:"hour"`
}

// FilterOptions holds the distinct values of each filterable field in
// first-seen order.
type FilterOptions struct {
	Cities        []string `json:"cities"`
	CustomerTypes []string `json:"customer_types"`
	Genders       []string `json:"genders"`
}

// Selection is the caller-owned filter state. Each set is taken literally:
// an empty set matches no rows.
type Selection struct {
	Cities        []string `json:"cities"`
	CustomerTypes []string `json:"customer_types"`
	Genders       []string `json:"genders"`
}

func DefaultSelection(opts FilterOptions) Selection {
	return Selection{
		Cities:        append([]string{}, opts.Cities...),
		CustomerTypes: append([]string{}, opts.CustomerTypes...),
		Genders:       append([]string{}, opts.Genders...),
	}
}

// Validate reports the first selected value that is not an available option.
func (s Selection) Validate(opts FilterOptions) error {
	checks := []struct {
		field     string
		selected  []string
		available []string
	}{
		{"city", s.Cities, opts.Cities},
		{"customer_type", s.CustomerTypes, opts.CustomerTypes},
		{"gender", s.Genders, opts.Genders},
	}

	for _, c := range checks {
		allowed := make(map[string]struct{}, len(c.available))
		for _, v := range c.available {
			allowed[v] = struct{}{}
		}
		for _, v := range c.selected {
			if _, ok := allowed[v]; !ok {
				return fmt.Errorf("unknown %s %q", c.field, v)
			}
		}
	}
	return nil
}

type Metrics struct {
	TotalSales    int64   `json:"total_sales"`
	AverageRating float64 `json:"average_rating"`
	AverageSale   float64 `json:"average_sale_by_transaction"`
	Stars         string  `json:"star_rating"`
	Transactions  int     `json:"transactions"`
	Empty         bool    `json:"empty"`
}

type AggregateRow struct {
	Key     string          `json:"key"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Snapshot struct {
	Selection     Selection      `json:"selection"`
	Options       FilterOptions  `json:"options"`
	Metrics       Metrics        `json:"metrics"`
	ByProductLine []AggregateRow `json:"sales_by_product_line"`
	ByHour        []AggregateRow `json:"sales_by_hour"`
	Rows          []Transaction  `json:"rows"`
}
