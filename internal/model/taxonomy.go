package model

// Category is a product category. Matching is by exact equality, so the set
// of accepted values is closed; see Taxonomy.Extend for adding more.
type Category string

const (
	CategoryVegetables Category = "Vegetables"
	CategoryFruits     Category = "Fruits"
	CategoryGrains     Category = "Grains"
	CategoryDairy      Category = "Dairy"
	CategoryMeat       Category = "Meat"
	CategoryHerbs      Category = "Herbs"
	CategoryNuts       Category = "Nuts"
	CategoryOther      Category = "Other"
)

// Unit is the selling unit of a listing
type Unit string

const (
	UnitPound Unit = "lb"
	UnitKilo  Unit = "kg"
	UnitOunce Unit = "oz"
	UnitPiece Unit = "piece"
	UnitDozen Unit = "dozen"
	UnitBunch Unit = "bunch"
	UnitBag   Unit = "bag"
	UnitBox   Unit = "box"
)

// TaxonomyExtension lists categories and units added on top of the built-in set
type TaxonomyExtension struct {
	Categories []string `yaml:"categories" json:"categories"`
	Units      []string `yaml:"units" json:"units"`
}

// Taxonomy is the closed set of categories and units accepted on listings.
// It is extended once at startup and read-only afterwards.
type Taxonomy struct {
	Categories []Category `json:"categories"`
	Units      []Unit     `json:"units"`
}

// DefaultTaxonomy returns the built-in categories and units in display order
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		Categories: []Category{
			CategoryVegetables, CategoryFruits, CategoryGrains, CategoryDairy,
			CategoryMeat, CategoryHerbs, CategoryNuts, CategoryOther,
		},
		Units: []Unit{
			UnitPound, UnitKilo, UnitOunce, UnitPiece,
			UnitDozen, UnitBunch, UnitBag, UnitBox,
		},
	}
}

// Extend appends the extension's values, skipping blanks and duplicates
func (t *Taxonomy) Extend(ext TaxonomyExtension) {
	for _, c := range ext.Categories {
		if c != "" && !t.HasCategory(Category(c)) {
			t.Categories = append(t.Categories, Category(c))
		}
	}
	for _, u := range ext.Units {
		if u != "" && !t.HasUnit(Unit(u)) {
			t.Units = append(t.Units, Unit(u))
		}
	}
}

// HasCategory reports whether c is an accepted category
func (t *Taxonomy) HasCategory(c Category) bool {
	for _, known := range t.Categories {
		if known == c {
			return true
		}
	}
	return false
}

// HasUnit reports whether u is an accepted unit
func (t *Taxonomy) HasUnit(u Unit) bool {
	for _, known := range t.Units {
		if known == u {
			return true
		}
	}
	return false
}
