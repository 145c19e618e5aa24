package records

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Column names a field of a resource record.
type Column int

const (
	ColCategory Column = iota
	ColName
	ColItem
	ColLatitude
	ColLongitude
	ColAddress
	ColWebsite
	ColPhone

	numColumns
)

var columnNames = [numColumns]string{
	"category", "name", "item", "latitude", "longitude", "address", "website", "phone",
}

func (c Column) String() string {
	if c >= 0 && c < numColumns {
		return columnNames[c]
	}
	return fmt.Sprintf("Column(%d)", int(c))
}

// header spellings seen in the category exports, normalized by normalizeHeader
var columnAliases = map[string]Column{
	"category":     ColCategory,
	"resource":     ColCategory,
	"resourcetype": ColCategory,
	"type":         ColCategory,
	"name":         ColName,
	"resourcename": ColName,
	"organization": ColName,
	"item":         ColItem,
	"items":        ColItem,
	"service":      ColItem,
	"services":     ColItem,
	"description":  ColItem,
	"latitude":     ColLatitude,
	"lat":          ColLatitude,
	"longitude":    ColLongitude,
	"long":         ColLongitude,
	"lon":          ColLongitude,
	"lng":          ColLongitude,
	"address":      ColAddress,
	"location":     ColAddress,
	"website":      ColWebsite,
	"url":          ColWebsite,
	"web":          ColWebsite,
	"site":         ColWebsite,
	"phone":        ColPhone,
	"phonenumber":  ColPhone,
	"telephone":    ColPhone,
	"mobile":       ColPhone,
	"number":       ColPhone,
}

var ErrSchemaMismatch = errors.New("header does not match record schema")

// Schema maps each column to its field index within a line.
type Schema [numColumns]int

// DefaultSchema is the column order of the published category files.
var DefaultSchema = Schema{
	ColCategory:  0,
	ColName:      1,
	ColItem:      2,
	ColLatitude:  3,
	ColLongitude: 4,
	ColAddress:   5,
	ColWebsite:   6,
	ColPhone:     7,
}

// Index returns the field position of c, or -1 when the file has no such
// column.
func (s Schema) Index(c Column) int { return s[c] }

// optional columns may be absent from a header
func (c Column) optional() bool { return c == ColItem }

// SchemaFromHeader resolves column positions from a header line. Every
// required column must be present; the error names the ones that are not.
// Columns the header does not recognise are ignored.
func SchemaFromHeader(header string) (Schema, error) {
	var s Schema
	var seen [numColumns]bool
	for i, name := range splitFields(header) {
		c, ok := columnAliases[normalizeHeader(name)]
		if !ok || seen[c] {
			continue
		}
		s[c] = i
		seen[c] = true
	}

	var missing []string
	for c := range numColumns {
		switch {
		case seen[c]:
		case c.optional():
			s[c] = -1
		default:
			missing = append(missing, c.String())
		}
	}
	if len(missing) > 0 {
		return Schema{}, fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return s, nil
}

func normalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
