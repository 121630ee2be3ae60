package formatter

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/json2csv/internal/errors"
	"github.com/mcncl/json2csv/internal/models"
)

// HeaderCase selects how column names are written in the header line
type HeaderCase string

const (
	HeaderCaseNone           HeaderCase = "none"
	HeaderCaseSnake          HeaderCase = "snake"
	HeaderCaseScreamingSnake HeaderCase = "screaming-snake"
	HeaderCaseKebab          HeaderCase = "kebab"
	HeaderCaseCamel          HeaderCase = "camel"
	HeaderCaseLowerCamel     HeaderCase = "lower-camel"
)

// HeaderCases lists the accepted header case names
var HeaderCases = []HeaderCase{
	HeaderCaseNone,
	HeaderCaseSnake,
	HeaderCaseScreamingSnake,
	HeaderCaseKebab,
	HeaderCaseCamel,
	HeaderCaseLowerCamel,
}

// ParseHeaderCase validates a header case name. The empty string means none.
func ParseHeaderCase(s string) (HeaderCase, error) {
	if s == "" {
		return HeaderCaseNone, nil
	}
	for _, c := range HeaderCases {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q", errors.ErrInvalidHeaderCase, s)
}

// Apply renders a column name in this case
func (h HeaderCase) Apply(name string) string {
	switch h {
	case HeaderCaseSnake:
		return strcase.ToSnake(name)
	case HeaderCaseScreamingSnake:
		return strcase.ToScreamingSnake(name)
	case HeaderCaseKebab:
		return strcase.ToKebab(name)
	case HeaderCaseCamel:
		return strcase.ToCamel(name)
	case HeaderCaseLowerCamel:
		return strcase.ToLowerCamel(name)
	default:
		return name
	}
}

// Formatter renders tables as CSV text: comma separated, double-quote
// escaped, newline terminated.
type Formatter struct {
	headerCase HeaderCase
	separate   bool
}

// Option configures a Formatter
type Option func(*Formatter)

// WithHeaderCase rewrites header names; row lookup keeps using the raw keys
func WithHeaderCase(h HeaderCase) Option {
	return func(f *Formatter) {
		f.headerCase = h
	}
}

// WithBlankLineBetweenTables puts an empty line between consecutive tables
func WithBlankLineBetweenTables(enabled bool) Option {
	return func(f *Formatter) {
		f.separate = enabled
	}
}

// NewFormatter creates a new Formatter instance
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{headerCase: HeaderCaseNone}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Format renders one table: a header line, then one line per row in resolved
// column order. A table without columns renders as the empty string.
func (f *Formatter) Format(table models.Table) string {
	if table.Empty() {
		return ""
	}

	header := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		header[i] = f.headerCase.Apply(column)
	}

	var b strings.Builder
	writeRecord(&b, header)
	for _, row := range table.Rows {
		writeRecord(&b, row.Project(table.Columns))
	}
	return b.String()
}

// Aggregate renders tables in the given order and concatenates them. Each
// table starts with its own header line; with WithBlankLineBetweenTables an
// empty line also separates non-empty tables.
func (f *Formatter) Aggregate(tables []models.Table) string {
	var b strings.Builder
	written := false
	for _, table := range tables {
		text := f.Format(table)
		if text == "" {
			continue
		}
		if written && f.separate {
			b.WriteByte('\n')
		}
		b.WriteString(text)
		written = true
	}
	return b.String()
}

// writeRecord writes one CSV line. A lone empty field is written as "" so the
// line is not mistaken for a blank one.
func writeRecord(b *strings.Builder, values []string) {
	if len(values) == 1 && values[0] == "" {
		b.WriteString(`""` + "\n")
		return
	}
	for i, value := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeField(value))
	}
	b.WriteByte('\n')
}

// EscapeField quotes s when it holds a comma, a double quote or a line break,
// doubling any embedded quotes. Anything else is returned unchanged.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
