package templates

import (
	"strconv"

	"github.com/dustin/go-humanize"
)

const currencyPrefix = "US $ "

// FormatSales renders a whole-dollar amount with thousands separators.
func FormatSales(v int64) string {
	return currencyPrefix + humanize.Comma(v)
}

// FormatAmount renders a dollar amount with two decimals.
func FormatAmount(v float64) string {
	return currencyPrefix + humanize.FormatFloat("#,###.##", v)
}

func formatRating(avg float64, stars string) string {
	s := strconv.FormatFloat(avg, 'f', 1, 64)
	if stars != "" {
		s += " " + stars
	}
	return s
}
