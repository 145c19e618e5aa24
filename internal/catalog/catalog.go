// Package catalog knows the resource categories, where their files live, and
// keeps parsed copies of those files.
package catalog

import (
	"strings"
)

type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	File  string `json:"file"`
}

var categories = []Category{
	{ID: "food", Label: "Food", File: "Community-Food-Share.txt"},
	{ID: "legal", Label: "Legal Support", File: "Legal-Support-Group.txt"},
	{ID: "pantries", Label: "Pantries", File: "Quick-Pick-Pantries.txt"},
	{ID: "communitySupport", Label: "Community Support", File: "Community-Support-Group.txt"},
	{ID: "welcomingCenters", Label: "Welcoming Centers", File: "IL-Welcoming-Centers.txt"},
}

// All returns the categories in display order.
func All() []Category {
	return append([]Category(nil), categories...)
}

// Lookup finds a category by id or file name, ignoring case.
func Lookup(key string) (Category, bool) {
	key = strings.TrimSpace(key)
	for _, c := range categories {
		if strings.EqualFold(c.ID, key) || strings.EqualFold(c.File, key) {
			return c, true
		}
	}
	return Category{}, false
}
