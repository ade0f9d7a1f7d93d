package dotpath

import (
	"testing"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasheet-tools/settings-generator/internal/pkg/encoding/json"
)

func mapFromJSON(t *testing.T, str string) *orderedmap.OrderedMap {
	t.Helper()
	m := orderedmap.New()
	require.NoError(t, json.DecodeString(str, m))
	return m
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	return json.MustEncodeString(v, false)
}

func TestExpand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    `{}`,
			expected: `{}`,
		},
		{
			name:     "flat keys",
			input:    `{"id":"a","zh":"x","en":"y"}`,
			expected: `{"id":"a","zh":"x","en":"y"}`,
		},
		{
			name:     "dotted keys",
			input:    `{"zh_CN.msg":"hi","zh_CN.title":"t","en_US.msg":"hello"}`,
			expected: `{"zh_CN":{"msg":"hi","title":"t"},"en_US":{"msg":"hello"}}`,
		},
		{
			name:     "deep",
			input:    `{"a.b.c":1,"a.b.d":[1,2],"a.e":null}`,
			expected: `{"a":{"b":{"c":1,"d":[1,2]},"e":null}}`,
		},
		{
			name:     "merge into existing map",
			input:    `{"a":{"x":1},"a.y":2}`,
			expected: `{"a":{"x":1,"y":2}}`,
		},
		{
			name:     "merge maps",
			input:    `{"a.b.x":1,"a":{"b":{"y":2}}}`,
			expected: `{"a":{"b":{"x":1,"y":2}}}`,
		},
		{
			name:     "empty segments",
			input:    `{".a":1,"b.":2,"c..d":3}`,
			expected: `{"":{"a":1},"b":{"":2},"c":{"":{"d":3}}}`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			input := mapFromJSON(t, c.input)
			inputBefore := toJSON(t, input)

			out, err := Expand(input)
			require.NoError(t, err)
			assert.Equal(t, c.expected, toJSON(t, out))

			// Input is not modified
			assert.Equal(t, inputBefore, toJSON(t, input))
		})
	}
}

func TestExpand_Conflict(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input    string
		expected string
	}{
		{`{"a":"x","a.b":"y"}`, `key "a.b" conflicts with the value at "a"`},
		{`{"a.b":"y","a":"x"}`, `key "a" is defined as an object and also as a value`},
		{`{"a.b.c":"y","a.b":"x"}`, `key "a.b" is defined as an object and also as a value`},
		{`{"a.b":"y","a":{"b":{"c":1}}}`, `key "a" conflicts with the value at "a.b"`},
	}

	for _, c := range cases {
		_, err := Expand(mapFromJSON(t, c.input))
		require.Error(t, err, c.input)
		assert.Equal(t, c.expected, err.Error(), c.input)
		var conflictErr ConflictError
		assert.ErrorAs(t, err, &conflictErr)
	}
}

func TestExpand_ReferencesLeafValues(t *testing.T) {
	t.Parallel()
	row := orderedmap.New()
	row.Set("msg", "hi")
	list := []any{"recB"}
	flat := orderedmap.New()
	flat.Set("a.row", row)
	flat.Set("a.list", list)

	out, err := Expand(flat)
	require.NoError(t, err)

	// The same map instance, not a copy
	a, _ := out.Get("a")
	actualRow, _ := a.(*orderedmap.OrderedMap).Get("row")
	assert.Same(t, row, actualRow)
	row.Set("msg", "changed")
	assert.Equal(t, `{"a":{"row":{"msg":"changed"},"list":["recB"]}}`, toJSON(t, out))
}

func TestExpandFlatten_RoundTrip(t *testing.T) {
	t.Parallel()
	inputs := []string{
		`{"id":"a","zh":"x","en":"y"}`,
		`{"zh_CN.msg":"hi","zh_CN.title":"t","en_US.msg":"hello"}`,
		`{"a.b.c":1,"a.b.d":[1,{"x":1}],"a.e":null,"f":true,"g.h":{}}`,
	}
	for _, input := range inputs {
		flat := mapFromJSON(t, input)
		nested, err := Expand(flat)
		require.NoError(t, err)
		assert.Equal(t, input, toJSON(t, Flatten(nested)))
	}

	// Empty segments are pruned
	flat := mapFromJSON(t, `{".a":1,"b.c":2}`)
	nested, err := Expand(flat)
	require.NoError(t, err)
	PruneEmptyKeys(nested)
	assert.Equal(t, `{"b.c":2}`, toJSON(t, Flatten(nested)))
}

func TestRemoveKeyPath(t *testing.T) {
	t.Parallel()

	doc := mapFromJSON(t, `{"a":{"b":{"c":1},"d":2},"e":{"f":{"g":3}}}`)

	assert.True(t, RemoveKeyPath(doc, "a.b.c"))
	assert.Equal(t, `{"a":{"d":2},"e":{"f":{"g":3}}}`, toJSON(t, doc))

	assert.True(t, RemoveKeyPath(doc, "e.f.g"))
	assert.Equal(t, `{"a":{"d":2}}`, toJSON(t, doc))

	assert.False(t, RemoveKeyPath(doc, "a.missing"))
	assert.False(t, RemoveKeyPath(doc, "a.d.x"))

	// Root is kept
	assert.True(t, RemoveKeyPath(doc, "a.d"))
	assert.Equal(t, `{}`, toJSON(t, doc))
}

func TestPruneEmptyKeys(t *testing.T) {
	t.Parallel()
	doc := mapFromJSON(t, `{"":1,"a":{"":2,"b":3},"c":[{"":4,"d":5}]}`)
	PruneEmptyKeys(doc)
	assert.Equal(t, `{"a":{"b":3},"c":[{"d":5}]}`, toJSON(t, doc))
}
