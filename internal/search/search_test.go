package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	Name   string
	Number string
	Status string
}

var fields = FieldSet[record]{
	Text: func(r record) []string {
		return []string{r.Name, r.Number}
	},
	Categorical: func(r record) map[string]string {
		return map[string]string{"status": r.Status}
	},
}

var records = []record{
	{Name: "Empresa ABC", Number: "2024-001", Status: "paid"},
	{Name: "StartupXYZ", Number: "2024-002", Status: "paid"},
	{Name: "TechCorp Ltd.", Number: "2024-003", Status: "pending"},
	{Name: "Consultoría Global", Number: "2024-004", Status: "pending"},
}

func TestFilter_TextCaseInsensitive(t *testing.T) {
	got := Filter(records, Query{Text: "startup"}, fields)
	assert.Len(t, got, 1)
	assert.Equal(t, "StartupXYZ", got[0].Name)
}

func TestFilter_TextMatchesAnyField(t *testing.T) {
	got := Filter(records, Query{Text: "2024-003"}, fields)
	assert.Len(t, got, 1)
	assert.Equal(t, "TechCorp Ltd.", got[0].Name)
}

func TestFilter_EmptyTextMatchesAll(t *testing.T) {
	got := Filter(records, Query{Text: "   "}, fields)
	assert.Len(t, got, len(records))
}

func TestFilter_CategoricalExactMatch_PreservesOrder(t *testing.T) {
	got := Filter(records, Query{Categorical: map[string]string{"status": "paid"}}, fields)
	assert.Len(t, got, 2)
	assert.Equal(t, "Empresa ABC", got[0].Name)
	assert.Equal(t, "StartupXYZ", got[1].Name)
}

func TestFilter_AllSentinelDisablesDimension(t *testing.T) {
	got := Filter(records, Query{Categorical: map[string]string{"status": All}}, fields)
	assert.Len(t, got, len(records))
}

func TestFilter_TextAndCategoricalCombineWithAnd(t *testing.T) {
	got := Filter(records, Query{
		Text:        "2024",
		Categorical: map[string]string{"status": "pending"},
	}, fields)
	assert.Len(t, got, 2)
	assert.Equal(t, "TechCorp Ltd.", got[0].Name)
	assert.Equal(t, "Consultoría Global", got[1].Name)
}

func TestFilter_UnknownDimensionMatchesNothing(t *testing.T) {
	got := Filter(records, Query{Categorical: map[string]string{"category": "Oficina"}}, fields)
	assert.Empty(t, got)
}

func TestFilter_NoMatch(t *testing.T) {
	got := Filter(records, Query{Text: "does-not-exist"}, fields)
	assert.Empty(t, got)
}
