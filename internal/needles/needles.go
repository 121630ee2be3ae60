// Package needles describes which JSON keys to extract and which columns each
// extracted table carries.
package needles

import (
	"fmt"
	"strings"

	"github.com/mcncl/json2csv/internal/errors"
	"gopkg.in/yaml.v3"
)

// Mode selects how a needle's columns are determined
type Mode int

const (
	// Inferred columns are discovered from the matched data
	Inferred Mode = iota
	// Explicit columns are fixed by configuration
	Explicit
)

// String returns the mode name
func (m Mode) String() string {
	if m == Explicit {
		return "explicit"
	}
	return "inferred"
}

// Columns is either Inferred or an Explicit, ordered, duplicate-free list of
// column names. The zero value is Inferred.
type Columns struct {
	mode  Mode
	names []string
}

// InferColumns returns the Inferred variant
func InferColumns() Columns {
	return Columns{mode: Inferred}
}

// ExplicitColumns returns the Explicit variant for names. The list must be
// non-empty and must not repeat a name.
func ExplicitColumns(names ...string) (Columns, error) {
	if len(names) == 0 {
		return Columns{}, errors.ErrEmptyColumns
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return Columns{}, fmt.Errorf("column %q: %w", name, errors.ErrDuplicateColumn)
		}
		seen[name] = struct{}{}
	}
	return Columns{mode: Explicit, names: append([]string(nil), names...)}, nil
}

// Mode returns the variant
func (c Columns) Mode() Mode {
	return c.mode
}

// IsExplicit reports whether the columns are fixed by configuration
func (c Columns) IsExplicit() bool {
	return c.mode == Explicit
}

// Names returns a copy of the explicit column names; it is nil for Inferred.
func (c Columns) Names() []string {
	if c.mode != Explicit {
		return nil
	}
	return append([]string(nil), c.names...)
}

// String renders the columns the way they are written on the command line
func (c Columns) String() string {
	if c.mode != Explicit {
		return "<inferred>"
	}
	return strings.Join(c.names, ",")
}

// Needle is a JSON key to search for together with its column selection
type Needle struct {
	Name    string
	Columns Columns
}

// Config is an ordered set of needles. Declaration order is the order of the
// tables in the output. The zero value is an empty configuration.
type Config struct {
	needles []Needle
	index   map[string]int
}

// New builds a configuration from needles, in order
func New(needles ...Needle) (*Config, error) {
	cfg := &Config{}
	for _, n := range needles {
		if err := cfg.Add(n.Name, n.Columns); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Add appends a needle. Names must be non-empty and unique.
func (c *Config) Add(name string, columns Columns) error {
	if name == "" {
		return errors.ErrEmptyNeedleName
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, dup := c.index[name]; dup {
		return fmt.Errorf("needle %q: %w", name, errors.ErrDuplicateNeedle)
	}
	c.index[name] = len(c.needles)
	c.needles = append(c.needles, Needle{Name: name, Columns: columns})
	return nil
}

// AddInferred appends a needle whose columns are inferred from the data
func (c *Config) AddInferred(name string) error {
	return c.Add(name, InferColumns())
}

// AddExplicit appends a needle projected onto columns
func (c *Config) AddExplicit(name string, columns ...string) error {
	cols, err := ExplicitColumns(columns...)
	if err != nil {
		return fmt.Errorf("needle %q: %w", name, err)
	}
	return c.Add(name, cols)
}

// Needles returns the needles in declaration order
func (c *Config) Needles() []Needle {
	if c == nil {
		return nil
	}
	return append([]Needle(nil), c.needles...)
}

// Len returns the number of needles
func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.needles)
}

// Lookup returns the needle called name
func (c *Config) Lookup(name string) (Needle, bool) {
	if c == nil {
		return Needle{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Needle{}, false
	}
	return c.needles[i], true
}

// Names returns the set of needle names
func (c *Config) Names() map[string]struct{} {
	names := make(map[string]struct{}, c.Len())
	for _, n := range c.Needles() {
		names[n.Name] = struct{}{}
	}
	return names
}

// UnmarshalYAML decodes a mapping of needle name to a column list or null.
// Mapping order is kept, which is why this works on the node tree rather than
// a Go map.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: needles must be a mapping of name to column list", node.Line)
	}

	cfg := Config{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		name := keyNode.Value

		columns, err := decodeColumns(valueNode)
		if err != nil {
			return fmt.Errorf("line %d: needle %q: %w", valueNode.Line, name, err)
		}
		if err := cfg.Add(name, columns); err != nil {
			return fmt.Errorf("line %d: %w", keyNode.Line, err)
		}
	}

	*c = cfg
	return nil
}

func decodeColumns(node *yaml.Node) (Columns, error) {
	switch {
	case node.Kind == yaml.ScalarNode && node.Tag == "!!null":
		return InferColumns(), nil
	case node.Kind == yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return Columns{}, err
		}
		return ExplicitColumns(names...)
	default:
		return Columns{}, fmt.Errorf("columns must be a list or null")
	}
}

// ParseFlag parses a command line needle: "name" infers columns,
// "name=col1,col2" projects onto the listed columns.
func ParseFlag(value string) (Needle, error) {
	name, list, hasColumns := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return Needle{}, errors.ErrEmptyNeedleName
	}
	if !hasColumns {
		return Needle{Name: name, Columns: InferColumns()}, nil
	}

	var names []string
	for _, column := range strings.Split(list, ",") {
		if column = strings.TrimSpace(column); column != "" {
			names = append(names, column)
		}
	}
	columns, err := ExplicitColumns(names...)
	if err != nil {
		return Needle{}, fmt.Errorf("needle %q: %w", name, err)
	}
	return Needle{Name: name, Columns: columns}, nil
}

// ParseFlags builds a configuration from command line needles, in order
func ParseFlags(values []string) (*Config, error) {
	cfg := &Config{}
	for _, value := range values {
		n, err := ParseFlag(value)
		if err != nil {
			return nil, err
		}
		if err := cfg.Add(n.Name, n.Columns); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
