package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

const timeOfDayLayout = "15:04:05"

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
}

// Header keys after normalization (lower case, spaces become underscores).
const (
	colInvoiceID    = "invoice_id"
	colBranch       = "branch"
	colCity         = "city"
	colCustomerType = "customer_type"
	colGender       = "gender"
	colProductLine  = "product_line"
	colUnitPrice    = "unit_price"
	colQuantity     = "quantity"
	colTax          = "tax_5%"
	colTotal        = "total"
	colDate         = "date"
	colTime         = "time"
	colPayment      = "payment"
	colCOGS         = "cogs"
	colGrossMargin  = "gross_margin_percentage"
	colGrossIncome  = "gross_income"
	colRating       = "rating"
)

var requiredColumns = []string{
	colCity, colCustomerType, colGender, colProductLine, colTotal, colRating, colTime,
}

// columnIndex maps normalized header names to their position in a record.
type columnIndex map[string]int

func newColumnIndex(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

func (c columnIndex) value(record []string, col string) string {
	i, ok := c[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseTransaction converts one data record. Required fields must be present
// and well formed; optional numeric fields default to zero when blank.
func parseTransaction(record []string, cols columnIndex) (models.Transaction, error) {
	tx := models.Transaction{
		InvoiceID:    cols.value(record, colInvoiceID),
		Branch:       cols.value(record, colBranch),
		City:         cols.value(record, colCity),
		CustomerType: cols.value(record, colCustomerType),
		Gender:       cols.value(record, colGender),
		ProductLine:  cols.value(record, colProductLine),
		Payment:      cols.value(record, colPayment),
	}

	for _, f := range []struct{ name, value string }{
		{colCity, tx.City},
		{colCustomerType, tx.CustomerType},
		{colGender, tx.Gender},
		{colProductLine, tx.ProductLine},
	} {
		if f.value == "" {
			return models.Transaction{}, fmt.Errorf("%s is empty", f.name)
		}
	}

	total, err := decimal.NewFromString(cols.value(record, colTotal))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parse total: %w", err)
	}
	tx.Total = total

	if tx.Rating, err = strconv.ParseFloat(cols.value(record, colRating), 64); err != nil {
		return models.Transaction{}, fmt.Errorf("parse rating: %w", err)
	}

	if tx.Time, tx.Hour, err = ParseHour(cols.value(record, colTime)); err != nil {
		return models.Transaction{}, err
	}

	optional := []struct {
		col string
		dst *float64
	}{
		{colUnitPrice, &tx.UnitPrice},
		{colTax, &tx.Tax},
		{colCOGS, &tx.COGS},
		{colGrossMargin, &tx.GrossMarginPct},
		{colGrossIncome, &tx.GrossIncome},
	}
	for _, o := range optional {
		if *o.dst, err = parseOptionalFloat(cols.value(record, o.col)); err != nil {
			return models.Transaction{}, fmt.Errorf("parse %s: %w", o.col, err)
		}
	}

	quantity, err := parseOptionalFloat(cols.value(record, colQuantity))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parse %s: %w", colQuantity, err)
	}
	tx.Quantity = int(quantity)

	if tx.Date, err = parseDate(cols.value(record, colDate)); err != nil {
		return models.Transaction{}, err
	}

	return tx, nil
}

// ParseHour validates a time-of-day value and returns it as HH:MM:SS along
// with its hour. Raw spreadsheet times arrive as a fraction of a day and are
// converted first.
func ParseHour(value string) (string, int, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse(timeOfDayLayout, value); err == nil {
		return t.Format(timeOfDayLayout), t.Hour(), nil
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 && f < 1 {
		seconds := int(math.Round(f * 86400))
		if seconds >= 86400 {
			seconds = 86399
		}
		t := time.Date(0, 1, 1, 0, 0, seconds, 0, time.UTC)
		return t.Format(timeOfDayLayout), t.Hour(), nil
	}

	return "", 0, fmt.Errorf("time %q does not match HH:MM:SS", value)
}

func parseOptionalFloat(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
