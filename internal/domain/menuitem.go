package domain

import "errors"

// Category classifies a menu item into one of a fixed set of sections.
type Category string

// Possible menu item categories.
const (
	CategoryAppetizers  Category = "Appetizers"
	CategoryMainCourses Category = "Main Courses"
	CategoryDesserts    Category = "Desserts"
	CategoryBeverages   Category = "Beverages"
	CategorySides       Category = "Sides"
	CategorySpecials    Category = "Specials"
	CategoryOther       Category = "Other"
)

// Common validation errors for MenuItem.
var (
	ErrEmptyItemName = errors.New("menu item name cannot be empty")
)

// MenuItem represents one structured line item produced by the translation
// stage. ImageURL is attached during image synthesis; every other field is
// immutable once the item is created.
type MenuItem struct {
	Name         string   `json:"name"`
	OriginalName string   `json:"originalName"`
	Description  string   `json:"description"`
	Price        string   `json:"price,omitempty"`
	Category     Category `json:"category"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// Validate checks the MenuItem has valid data and normalizes an unknown
// category to CategoryOther rather than rejecting the item.
func (m *MenuItem) Validate() error {
	if m.Name == "" {
		return ErrEmptyItemName
	}
	if !isValidCategory(m.Category) {
		m.Category = CategoryOther
	}
	return nil
}

func isValidCategory(c Category) bool {
	switch c {
	case CategoryAppetizers, CategoryMainCourses, CategoryDesserts,
		CategoryBeverages, CategorySides, CategorySpecials, CategoryOther:
		return true
	}
	return false
}
