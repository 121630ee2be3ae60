package walker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcncl/json2csv/internal/models"
	"github.com/mcncl/json2csv/internal/parser"
	"github.com/stretchr/testify/require"
)

type found struct {
	Needle string
	Path   string
	Kind   models.Kind
}

func collect(t *testing.T, input string, names ...string) []found {
	t.Helper()
	doc, err := parser.ParseString(input)
	require.NoError(t, err)

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	var out []found
	for m := range Walk(doc, set) {
		out = append(out, found{Needle: m.Needle, Path: m.Path, Kind: m.Value.Kind()})
	}
	return out
}

func TestWalk(t *testing.T) {
	tests := []struct {
		name  string
		input string
		names []string
		want  []found
	}{
		{
			name:  "top level key",
			input: `{"diabetes": 5}`,
			names: []string{"diabetes"},
			want:  []found{{"diabetes", "$.diabetes", models.KindNumber}},
		},
		{
			name:  "deeply nested key",
			input: `{"a": {"b": {"c": {"target": {"x": 1}}}}}`,
			names: []string{"target"},
			want:  []found{{"target", "$.a.b.c.target", models.KindObject}},
		},
		{
			name:  "keys inside arrays of objects",
			input: `{"days": [{"steps": 1}, {"other": 2}, {"steps": 3}]}`,
			names: []string{"steps"},
			want: []found{
				{"steps", "$.days[0].steps", models.KindNumber},
				{"steps", "$.days[2].steps", models.KindNumber},
			},
		},
		{
			name:  "document order across needles",
			input: `{"b": 1, "x": {"a": 2, "b": 3}, "a": 4}`,
			names: []string{"a", "b"},
			want: []found{
				{"b", "$.b", models.KindNumber},
				{"a", "$.x.a", models.KindNumber},
				{"b", "$.x.b", models.KindNumber},
				{"a", "$.a", models.KindNumber},
			},
		},
		{
			name:  "needle nested inside a needle",
			input: `{"outer": {"inner": {"outer": [1]}}}`,
			names: []string{"outer", "inner"},
			want: []found{
				{"outer", "$.outer", models.KindObject},
				{"inner", "$.outer.inner", models.KindObject},
				{"outer", "$.outer.inner.outer", models.KindArray},
			},
		},
		{
			name:  "root array and nested arrays",
			input: `[[{"k": null}], {"k": "v"}]`,
			names: []string{"k"},
			want: []found{
				{"k", "$[0][0].k", models.KindNull},
				{"k", "$[1].k", models.KindString},
			},
		},
		{
			name:  "array indices and string values never match",
			input: `{"list": ["k", "0"], "s": "k"}`,
			names: []string{"k", "0"},
			want:  nil,
		},
		{
			name:  "non identifier keys are quoted in paths",
			input: `{"odd key": {"k": 1}}`,
			names: []string{"k", "odd key"},
			want: []found{
				{"odd key", `$["odd key"]`, models.KindObject},
				{"k", `$["odd key"].k`, models.KindNumber},
			},
		},
		{
			name:  "scalar root",
			input: `42`,
			names: []string{"k"},
			want:  nil,
		},
		{
			name:  "no names",
			input: `{"k": 1}`,
			names: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tt.input, tt.names...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	doc, err := parser.ParseString(`{"k": 1, "x": {"k": 2}, "y": [{"k": 3}]}`)
	require.NoError(t, err)

	var paths []string
	for m := range Walk(doc, map[string]struct{}{"k": {}}) {
		paths = append(paths, m.Path)
		if len(paths) == 2 {
			break
		}
	}
	if diff := cmp.Diff([]string{"$.k", "$.x.k"}, paths); diff != "" {
		t.Errorf("Walk() early stop mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_IsRepeatable(t *testing.T) {
	doc, err := parser.ParseString(`{"k": {"k": 1}}`)
	require.NoError(t, err)

	seq := Walk(doc, map[string]struct{}{"k": {}})
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	require.Equal(t, 2, count())
	require.Equal(t, 2, count())
}

func TestWalk_MatchValueIsTheSubtree(t *testing.T) {
	doc, err := parser.ParseString(`{"wrap": {"target": {"a": 1, "b": [2]}}}`)
	require.NoError(t, err)

	var got models.Value
	for m := range Walk(doc, map[string]struct{}{"target": {}}) {
		got = m.Value
	}
	obj, ok := got.(*models.Object)
	require.True(t, ok)
	if diff := cmp.Diff([]string{"a", "b"}, obj.Keys()); diff != "" {
		t.Errorf("subtree keys mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_NilDocument(t *testing.T) {
	for range Walk(nil, map[string]struct{}{"k": {}}) {
		t.Fatal("Walk(nil) yielded a match")
	}
}
