package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomy_Defaults(t *testing.T) {
	tax := DefaultTaxonomy()

	assert.Len(t, tax.Categories, 8)
	assert.Len(t, tax.Units, 8)
	assert.True(t, tax.HasCategory(CategoryFruits))
	assert.False(t, tax.HasCategory("fruits"), "category matching is exact")
	assert.True(t, tax.HasUnit(UnitDozen))
	assert.False(t, tax.HasUnit("crate"))
}

func TestTaxonomy_Extend(t *testing.T) {
	tax := DefaultTaxonomy()
	tax.Extend(TaxonomyExtension{
		Categories: []string{"Honey", "Fruits", ""},
		Units:      []string{"crate", "crate"},
	})

	assert.True(t, tax.HasCategory("Honey"))
	assert.Len(t, tax.Categories, 9)
	assert.Equal(t, Category("Honey"), tax.Categories[8], "extensions keep display order after built-ins")
	assert.True(t, tax.HasUnit("crate"))
	assert.Len(t, tax.Units, 9)
}

func TestQuantityInput_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want QuantityInput
	}{
		{name: "number", body: `{"quantity": 3}`, want: "3"},
		{name: "string", body: `{"quantity": "abc"}`, want: "abc"},
		{name: "negative", body: `{"quantity": -3}`, want: "-3"},
		{name: "null", body: `{"quantity": null}`, want: ""},
		{name: "missing", body: `{}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ContactRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Quantity)
		})
	}
}

func TestCaller_Roles(t *testing.T) {
	assert.False(t, Anonymous.IsAuthenticated())
	assert.False(t, Anonymous.IsFarmer())
}
