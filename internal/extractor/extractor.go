// Package extractor flattens matched JSON values into rows of text cells.
package extractor

import "github.com/mcncl/json2csv/internal/models"

// Extract converts the value of a match into rows:
//   - an object becomes one row with a cell per key
//   - an array becomes one row per object element; other elements are skipped
//   - a scalar or null becomes one row with a single cell named after the needle
func Extract(m models.Match) []models.Row {
	switch v := m.Value.(type) {
	case *models.Object:
		return []models.Row{rowFromObject(v)}
	case models.Array:
		rows := make([]models.Row, 0, len(v))
		for _, element := range v {
			if obj, ok := element.(*models.Object); ok {
				rows = append(rows, rowFromObject(obj))
			}
		}
		return rows
	case models.String, models.Number, models.Bool, models.Null:
		return []models.Row{{{Column: m.Needle, Value: CellText(v)}}}
	default:
		return nil
	}
}

func rowFromObject(obj *models.Object) models.Row {
	row := make(models.Row, 0, obj.Len())
	for key, value := range obj.All() {
		row = append(row, models.Cell{Column: key, Value: CellText(value)})
	}
	return row
}

// CellText renders a value as cell text. Strings pass through, numbers keep
// their source numeral, booleans are true/false, null is empty, and objects
// and arrays become compact JSON. Flattening never goes deeper than one level.
func CellText(v models.Value) string {
	switch v := v.(type) {
	case models.String:
		return string(v)
	case models.Number:
		return string(v)
	case models.Bool:
		if v {
			return "true"
		}
		return "false"
	case models.Null, nil:
		return ""
	case models.Array, *models.Object:
		return string(models.AppendJSON(nil, v))
	default:
		return ""
	}
}
