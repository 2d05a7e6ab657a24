package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuItemValidate(t *testing.T) {
	item := MenuItem{
		Name:         "Pad Thai",
		OriginalName: "ผัดไทย",
		Category:     CategoryMainCourses,
	}
	assert.NoError(t, item.Validate())
}

func TestMenuItemValidateRejectsEmptyName(t *testing.T) {
	item := MenuItem{Category: CategoryOther}
	assert.ErrorIs(t, item.Validate(), ErrEmptyItemName)
}

func TestMenuItemValidateNormalizesUnknownCategory(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		expected Category
	}{
		{"known category kept", CategoryDesserts, CategoryDesserts},
		{"unknown category", Category("Chef Specials Deluxe"), CategoryOther},
		{"empty category", Category(""), CategoryOther},
		{"wrong case", Category("appetizers"), CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := MenuItem{Name: "Dish", Category: tt.category}
			require.NoError(t, item.Validate())
			assert.Equal(t, tt.expected, item.Category)
		})
	}
}
