package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

// Query parameter names for the three filters.
const (
	paramCity         = "city"
	paramCustomerType = "customer_type"
	paramGender       = "gender"
)

// selectionSignals mirrors templates.Signals with pointers so a missing or
// null signal can be told apart from an empty array.
type selectionSignals struct {
	Cities        *[]string `json:"cities"`
	CustomerTypes *[]string `json:"customerTypes"`
	Genders       *[]string `json:"genders"`
}

// selectionFromQuery reads the filters from a query string. A parameter that
// is absent selects every option; a parameter present only with blank values
// selects nothing.
func selectionFromQuery(q url.Values, opts models.FilterOptions) (models.Selection, error) {
	sel := models.Selection{
		Cities:        queryValues(q, paramCity, opts.Cities),
		CustomerTypes: queryValues(q, paramCustomerType, opts.CustomerTypes),
		Genders:       queryValues(q, paramGender, opts.Genders),
	}
	if err := sel.Validate(opts); err != nil {
		return models.Selection{}, errors.ValidationWrap(err, "invalid filter selection")
	}
	return sel, nil
}

func queryValues(q url.Values, key string, all []string) []string {
	raw, ok := q[key]
	if !ok {
		return append([]string{}, all...)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

// selectionFromSignals reads the filters from datastar signals. A missing or
// null signal selects every option; an empty array selects nothing.
func selectionFromSignals(r *http.Request, opts models.FilterOptions) (models.Selection, error) {
	var signals selectionSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return models.Selection{}, errors.BadRequestWrap(err, "invalid signals")
	}

	sel := models.Selection{
		Cities:        signalValues(signals.Cities, opts.Cities),
		CustomerTypes: signalValues(signals.CustomerTypes, opts.CustomerTypes),
		Genders:       signalValues(signals.Genders, opts.Genders),
	}
	if err := sel.Validate(opts); err != nil {
		return models.Selection{}, errors.ValidationWrap(err, "invalid filter selection")
	}
	return sel, nil
}

func signalValues(v *[]string, all []string) []string {
	if v == nil {
		return append([]string{}, all...)
	}
	return append([]string{}, *v...)
}
