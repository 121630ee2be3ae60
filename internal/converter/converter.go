// Package converter turns a parsed JSON document into CSV tables, one per
// configured needle.
//
// A conversion walks the document once, extracts rows for every match,
// resolves each needle's columns and renders the tables in declaration order.
// Converters hold no per-conversion state and may be shared between
// goroutines converting independent documents.
package converter

import (
	"fmt"
	"io"

	"github.com/mcncl/json2csv/internal/extractor"
	"github.com/mcncl/json2csv/internal/formatter"
	"github.com/mcncl/json2csv/internal/models"
	"github.com/mcncl/json2csv/internal/needles"
	"github.com/mcncl/json2csv/internal/parser"
	"github.com/mcncl/json2csv/internal/resolver"
	"github.com/mcncl/json2csv/internal/walker"
)

// Converter runs the walk, extract, resolve and format pipeline
type Converter struct {
	formatter *formatter.Formatter
	debug     io.Writer
}

// Option configures a Converter
type Option func(*Converter)

// WithFormatter sets the formatter used to render tables
func WithFormatter(f *formatter.Formatter) Option {
	return func(c *Converter) {
		c.formatter = f
	}
}

// WithDebug writes a line per match and per unmatched needle to w
func WithDebug(w io.Writer) Option {
	return func(c *Converter) {
		c.debug = w
	}
}

// New creates a Converter
func New(opts ...Option) *Converter {
	c := &Converter{}
	for _, o := range opts {
		o(c)
	}
	if c.formatter == nil {
		c.formatter = formatter.NewFormatter()
	}
	return c
}

// Tables flattens doc into one table per needle, in declaration order. A
// needle that never matches yields a header-only table when its columns are
// explicit and an empty table otherwise.
func (c *Converter) Tables(cfg *needles.Config, doc models.Value) []models.Table {
	if cfg.Len() == 0 {
		c.debugf("no needles configured")
		return nil
	}

	rows := make(map[string][]models.Row, cfg.Len())
	matches := make(map[string]int, cfg.Len())
	for m := range walker.Walk(doc, cfg.Names()) {
		extracted := extractor.Extract(m)
		c.debugf("needle %q matched at %s: %d row(s)", m.Needle, m.Path, len(extracted))
		matches[m.Needle]++
		rows[m.Needle] = append(rows[m.Needle], extracted...)
	}

	tables := make([]models.Table, 0, cfg.Len())
	for _, n := range cfg.Needles() {
		if matches[n.Name] == 0 {
			c.debugf("needle %q matched nothing", n.Name)
		}
		tables = append(tables, models.Table{
			Needle:  n.Name,
			Columns: resolver.Resolve(n, rows[n.Name]),
			Rows:    rows[n.Name],
		})
	}
	return tables
}

// Convert flattens doc and renders all tables as CSV text
func (c *Converter) Convert(cfg *needles.Config, doc models.Value) string {
	return c.formatter.Aggregate(c.Tables(cfg, doc))
}

// ConvertJSON parses data and converts the resulting document
func (c *Converter) ConvertJSON(cfg *needles.Config, data []byte) (string, error) {
	doc, err := parser.ParseBytes(data)
	if err != nil {
		return "", err
	}
	return c.Convert(cfg, doc), nil
}

func (c *Converter) debugf(format string, args ...any) {
	if c.debug == nil {
		return
	}
	fmt.Fprintf(c.debug, "[debug] "+format+"\n", args...)
}
