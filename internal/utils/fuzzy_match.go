package utils

import (
	"strings"

	"golang.org/x/text/cases"
)

// ContainsFold reports whether needle occurs in haystack under Unicode case
// folding. An empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	folder := cases.Fold()
	return strings.Contains(folder.String(haystack), folder.String(needle))
}

// categoryAliases maps loose seller input onto canonical category names
var categoryAliases = map[string][]string{
	"Vegetables": {"vegetable", "vegetables", "veg", "veggie", "veggies", "greens"},
	"Fruits":     {"fruit", "fruits", "berries"},
	"Grains":     {"grain", "grains", "cereal", "cereals"},
	"Dairy":      {"dairy", "milk", "cheese", "eggs"},
	"Meat":       {"meat", "meats", "poultry", "beef", "pork"},
	"Herbs":      {"herb", "herbs"},
	"Nuts":       {"nut", "nuts"},
	"Other":      {"other", "misc", "miscellaneous"},
}

// unitAliases maps loose seller input onto canonical unit names
var unitAliases = map[string][]string{
	"lb":    {"lb", "lbs", "pound", "pounds"},
	"kg":    {"kg", "kgs", "kilo", "kilos", "kilogram", "kilograms"},
	"oz":    {"oz", "ounce", "ounces"},
	"piece": {"piece", "pieces", "pc", "pcs", "each", "ea"},
	"dozen": {"dozen", "doz", "dz"},
	"bunch": {"bunch", "bunches"},
	"bag":   {"bag", "bags", "sack"},
	"box":   {"box", "boxes"},
}

// NormalizeCategory returns the canonical category for an alias, or the
// trimmed input unchanged when no alias matches
func NormalizeCategory(category string) string {
	return normalize(category, categoryAliases)
}

// NormalizeUnit returns the canonical unit for an alias, or the trimmed
// input unchanged when no alias matches
func NormalizeUnit(unit string) string {
	return normalize(unit, unitAliases)
}

func normalize(term string, aliases map[string][]string) string {
	trimmed := strings.TrimSpace(term)
	lower := strings.ToLower(trimmed)

	for canonical, values := range aliases {
		if strings.EqualFold(trimmed, canonical) {
			return canonical
		}
		for _, alias := range values {
			if lower == alias {
				return canonical
			}
		}
	}
	return trimmed
}
