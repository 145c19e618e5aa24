// Package records parses the comma-delimited resource category files.
//
// Each file starts with a header line followed by one record per line.
// Fields may be wrapped in double quotes to carry literal commas; the quotes
// are not part of the value. Lines with fewer than MinFields fields are
// skipped.
package records

import (
	"iter"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
)

// MinFields is the fewest fields a data line may have to become a record.
const MinFields = 7

// Parse yields one record per accepted data line of text. The first line is
// the header and is always skipped. The returned sequence is lazy and may be
// ranged over more than once.
func Parse(text string, schema Schema) iter.Seq[model.Record] {
	return func(yield func(model.Record) bool) {
		first := true
		for line := range strings.SplitSeq(text, "\n") {
			if first {
				first = false
				continue
			}
			rec, ok := parseLine(strings.TrimSuffix(line, "\r"), schema)
			if !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// ResolveSchema picks the schema for text: the header-derived one when the
// header names every column, DefaultSchema otherwise. The error explains why
// the header was not used.
func ResolveSchema(text string) (Schema, error) {
	header, _, _ := strings.Cut(text, "\n")
	s, err := SchemaFromHeader(strings.TrimSuffix(header, "\r"))
	if err != nil {
		return DefaultSchema, err
	}
	return s, nil
}

// ParseAuto parses text with the schema chosen by ResolveSchema. The
// records are always returned; a non-nil error wraps ErrSchemaMismatch and
// means they were read positionally with DefaultSchema.
func ParseAuto(text string) (iter.Seq[model.Record], error) {
	s, err := ResolveSchema(text)
	return Parse(text, s), err
}

// Collect materializes seq. It never returns nil.
func Collect(seq iter.Seq[model.Record]) []model.Record {
	out := []model.Record{}
	for r := range seq {
		out = append(out, r)
	}
	return out
}

func parseLine(line string, s Schema) (model.Record, bool) {
	fields := splitFields(line)
	if len(fields) < MinFields {
		return model.Record{}, false
	}

	field := func(c Column) string {
		if i := s.Index(c); i >= 0 && i < len(fields) {
			return fields[i]
		}
		return ""
	}

	lat, err := strconv.ParseFloat(field(ColLatitude), 64)
	if err != nil {
		return model.Record{}, false
	}
	lon, err := strconv.ParseFloat(field(ColLongitude), 64)
	if err != nil {
		return model.Record{}, false
	}

	return model.Record{
		Category:  field(ColCategory),
		Name:      field(ColName),
		Item:      field(ColItem),
		Latitude:  lat,
		Longitude: lon,
		Address:   field(ColAddress),
		Website:   field(ColWebsite),
		Phone:     field(ColPhone),
	}, true
}

// splitFields breaks a line on commas outside double quotes. Quote
// characters toggle the quoted state and are dropped.
func splitFields(line string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		case r == '"':
			inQuotes = !inQuotes
		default:
			field.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(field.String()))
}
