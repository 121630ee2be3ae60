// Package resolver fixes the header of each needle's table.
package resolver

import (
	"github.com/mcncl/json2csv/internal/models"
	"github.com/mcncl/json2csv/internal/needles"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Resolve returns the ordered column list for needle's table.
//
// Explicit columns are returned as configured whatever the rows hold; rows are
// later projected onto them. Inferred columns are the union of row keys in the
// order each key is first seen across rows.
func Resolve(needle needles.Needle, rows []models.Row) []string {
	if needle.Columns.IsExplicit() {
		return needle.Columns.Names()
	}
	return Infer(rows)
}

// Infer returns the union of the rows' columns in first-seen order
func Infer(rows []models.Row) []string {
	seen := orderedmap.New[string, struct{}]()
	for _, row := range rows {
		for _, cell := range row {
			seen.Set(cell.Column, struct{}{})
		}
	}

	columns := make([]string, 0, seen.Len())
	for pair := seen.Oldest(); pair != nil; pair = pair.Next() {
		columns = append(columns, pair.Key)
	}
	return columns
}
