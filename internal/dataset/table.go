package dataset

import (
	"time"

	"sales-dashboard/internal/models"
)

// Table is the immutable transaction table shared by every request. Accessors
// hand out copies so callers cannot mutate it.
type Table struct {
	rows     []models.Transaction
	options  models.FilterOptions
	source   string
	loadedAt time.Time
}

// NewTable builds a table over rows, which must not be modified afterwards.
func NewTable(rows []models.Transaction) *Table {
	return newTable(rows, "memory")
}

func newTable(rows []models.Transaction, source string) *Table {
	return &Table{
		rows:     rows,
		options:  distinctOptions(rows),
		source:   source,
		loadedAt: time.Now(),
	}
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Row(i int) models.Transaction { return t.rows[i] }

func (t *Table) Rows() []models.Transaction {
	return append([]models.Transaction(nil), t.rows...)
}

// Options returns the distinct city, customer type and gender values in the
// order they first appear.
func (t *Table) Options() models.FilterOptions {
	return models.FilterOptions{
		Cities:        append([]string{}, t.options.Cities...),
		CustomerTypes: append([]string{}, t.options.CustomerTypes...),
		Genders:       append([]string{}, t.options.Genders...),
	}
}

func (t *Table) Source() string { return t.source }

func (t *Table) LoadedAt() time.Time { return t.loadedAt }

func distinctOptions(rows []models.Transaction) models.FilterOptions {
	return models.FilterOptions{
		Cities:        uniqueValues(rows, func(tx models.Transaction) string { return tx.City }),
		CustomerTypes: uniqueValues(rows, func(tx models.Transaction) string { return tx.CustomerType }),
		Genders:       uniqueValues(rows, func(tx models.Transaction) string { return tx.Gender }),
	}
}

func uniqueValues(rows []models.Transaction, field func(models.Transaction) string) []string {
	seen := make(map[string]bool)
	result := []string{}
	for _, tx := range rows {
		v := field(tx)
		if v != "" && !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
