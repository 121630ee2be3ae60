// Package walker finds needle keys anywhere in a parsed JSON document.
package walker

import (
	"iter"
	"strconv"

	"github.com/mcncl/json2csv/internal/models"
)

// Walk traverses doc depth-first, left to right, and yields a Match for every
// object key contained in names. Descent continues into a matched value, so a
// needle nested inside another needle's value is reported too. Array indices
// never match.
//
// The sequence is lazy and may be abandoned at any point.
func Walk(doc models.Value, names map[string]struct{}) iter.Seq[models.Match] {
	return func(yield func(models.Match) bool) {
		if len(names) == 0 || doc == nil {
			return
		}
		w := walker{names: names, yield: yield}
		w.visit(doc, "$")
	}
}

type walker struct {
	names map[string]struct{}
	yield func(models.Match) bool
}

// visit returns false once the consumer has stopped the sequence.
func (w *walker) visit(v models.Value, path string) bool {
	switch v := v.(type) {
	case *models.Object:
		for key, child := range v.All() {
			childPath := appendKey(path, key)
			if _, ok := w.names[key]; ok {
				if !w.yield(models.Match{Needle: key, Path: childPath, Value: child}) {
					return false
				}
			}
			if !w.visit(child, childPath) {
				return false
			}
		}
	case models.Array:
		for i, element := range v {
			if !w.visit(element, path+"["+strconv.Itoa(i)+"]") {
				return false
			}
		}
	case models.String, models.Number, models.Bool, models.Null:
	}
	return true
}

// appendKey extends a path with key, bracket-quoting keys that are not plain
// identifiers.
func appendKey(path, key string) string {
	if isIdentifier(key) {
		return path + "." + key
	}
	return path + "[" + strconv.Quote(key) + "]"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
