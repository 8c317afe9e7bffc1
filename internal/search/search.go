// Package search is the record filter engine shared by invoices, expenses,
// clients and users. A query combines one free-text term with any number of
// categorical dimensions; all conditions AND together and the original
// record order is preserved.
package search

import "strings"

// All disables a categorical dimension.
const All = "all"

// Query is a free-text term plus exact-match categorical filters.
type Query struct {
	Text        string
	Categorical map[string]string
}

// FieldSet adapts a record type to the engine. Text returns the searchable
// string fields; Categorical returns the record's value per dimension.
type FieldSet[R any] struct {
	Text        func(R) []string
	Categorical func(R) map[string]string
}

// Filter returns the records matching q, in their original relative order.
// Text matching is a case-insensitive substring test against any of the
// configured fields; the empty term matches everything. A linear scan is
// deliberate, record sets here are small.
func Filter[R any](records []R, q Query, fields FieldSet[R]) []R {
	term := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]R, 0, len(records))
	for _, rec := range records {
		if !matchesText(rec, term, fields) {
			continue
		}
		if !matchesCategorical(rec, q.Categorical, fields) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesText[R any](rec R, term string, fields FieldSet[R]) bool {
	if term == "" {
		return true
	}
	if fields.Text == nil {
		return false
	}
	for _, field := range fields.Text(rec) {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesCategorical[R any](rec R, filters map[string]string, fields FieldSet[R]) bool {
	if len(filters) == 0 {
		return true
	}

	var values map[string]string
	if fields.Categorical != nil {
		values = fields.Categorical(rec)
	}

	for dimension, want := range filters {
		if want == "" || want == All {
			continue
		}
		if values[dimension] != want {
			return false
		}
	}
	return true
}
