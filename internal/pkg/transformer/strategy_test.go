package transformer

import (
	"context"
	"testing"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/model"
)

func parseRows(t *testing.T, records ...model.Record) []*Row {
	t.Helper()
	logger := log.NewNopLogger()
	return NewParser(logger, NewCache(logger)).ParseAll(context.Background(), records)
}

func TestShape_Array(t *testing.T) {
	t.Parallel()
	rows := parseRows(t,
		record(t, "rec1", `{"id":"a","zh":"x"}`),
		record(t, "rec2", `{"zh":"no id"}`),
		record(t, "rec3", `{"id":"b","zh":"p"}`),
	)

	out, err := Shape(model.FormatArray, rows, model.TableConfig{})
	require.NoError(t, err)
	list := out.([]any)

	// Length equals number of rows with the "id" field
	require.Len(t, list, 2)
	assert.Equal(t, `[{"id":"a","zh":"x"},{"id":"b","zh":"p"}]`, toJSON(t, out))

	// Values are the cached rows
	assert.Same(t, rows[0].Value, list[0])
}

func TestShape_Rows(t *testing.T) {
	t.Parallel()
	rows := parseRows(t,
		record(t, "rec1", `{"id":"a","zh":"x","en":"y"}`),
		record(t, "rec2", `{"id":"group.item","zh":"p"}`),
		record(t, "rec3", `{"id":"b.","zh":"q"}`),
	)

	// Without id
	out, err := Shape(model.FormatRows, rows, model.TableConfig{ID: false})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"zh":"x","en":"y"},"group":{"item":{"zh":"p"}},"b":{}}`, toJSON(t, out))

	// Cached rows still contain the id
	assert.Equal(t, `{"id":"a","zh":"x","en":"y"}`, toJSON(t, rows[0].Value))

	// With id
	out, err = Shape(model.FormatRows, rows, model.TableConfig{ID: true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"id":"a","zh":"x","en":"y"},"group":{"item":{"id":"group.item","zh":"p"}},"b":{}}`, toJSON(t, out))
}

func TestShape_Rows_KeySetAndIDStripping(t *testing.T) {
	t.Parallel()
	rows := parseRows(t,
		record(t, "rec1", `{"id":"a","v":1}`),
		record(t, "rec2", `{"id":"b","v":2}`),
		record(t, "rec3", `{"id":"a","v":3}`),
		record(t, "rec4", `{"id":7,"v":4}`),
	)

	out, err := Shape(model.FormatRows, rows, model.TableConfig{})
	require.NoError(t, err)
	m := out.(*orderedmap.OrderedMap)

	// Key set equals the distinct primary ids, the last row wins
	assert.Equal(t, []string{"a", "b", "7"}, m.Keys())
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		_, found := value.(*orderedmap.OrderedMap).Get(model.IDField)
		assert.False(t, found, key)
	}
	a, _ := m.Get("a")
	assert.Equal(t, `{"v":3}`, toJSON(t, a))
}

func TestShape_Rows_CachedRowKeepsID(t *testing.T) {
	t.Parallel()
	rows := parseRows(t, record(t, "rec1", `{"id":"a","nested":{"x":1}}`))

	out, err := Shape(model.FormatRows, rows, model.TableConfig{})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"nested":{"x":1}}}`, toJSON(t, out))

	// Only the shaped copy is without "id", nested values are shared with the cached row
	assert.Equal(t, `{"id":"a","nested":{"x":1}}`, toJSON(t, rows[0].Value))
	a, _ := out.(*orderedmap.OrderedMap).Get("a")
	shaped, _ := a.(*orderedmap.OrderedMap).Get("nested")
	cached, _ := rows[0].Value.Get("nested")
	assert.Same(t, cached, shaped)
}

func TestShape_Rows_Conflict(t *testing.T) {
	t.Parallel()
	rows := parseRows(t,
		record(t, "rec1", `{"id":"a"}`),
		record(t, "rec2", `{"id":"a.b"}`),
	)

	// Map values are merged
	out, err := Shape(model.FormatRows, rows, model.TableConfig{})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":{}}}`, toJSON(t, out))

	// Scalar cannot be replaced by a map
	rows = parseRows(t,
		record(t, "rec1", `{"id":"a.b","x":"y"}`),
		record(t, "rec2", `{"id":"a.b.x.z"}`),
	)
	_, err = Shape(model.FormatRows, rows, model.TableConfig{})
	require.Error(t, err)
	assert.Equal(t, `key "a.b.x.z" conflicts with the value at "a.b.x"`, err.Error())
}

func TestShape_Columns(t *testing.T) {
	t.Parallel()
	rows := parseRows(t,
		record(t, "rec1", `{"id":"a","zh":"x","en":"y"}`),
		record(t, "rec2", `{"id":"b","zh":"p","en":"q","de":{"x":1}}`),
	)

	for _, format := range []model.Format{model.FormatColumns, model.FormatColumnFiles, model.FormatPropertiesFiles} {
		out, err := Shape(format, rows, model.TableConfig{})
		require.NoError(t, err)
		assert.Equal(t, `{"zh":{"a":"x","b":"p"},"en":{"a":"y","b":"q"},"de":{"b":{"x":1}}}`, toJSON(t, out))

		// output[field][row.primaryId] == row[field]
		m := out.(*orderedmap.OrderedMap)
		_, found := m.Get(model.IDField)
		assert.False(t, found)
		for _, row := range rows {
			for _, field := range row.Value.Keys() {
				if field == model.IDField {
					continue
				}
				column, _ := m.Get(field)
				actual, _ := column.(*orderedmap.OrderedMap).Get(row.Key())
				expected, _ := row.Value.Get(field)
				assert.Equal(t, expected, actual)
			}
		}
	}
}

func TestShape_Unknown(t *testing.T) {
	t.Parallel()
	_, err := Shape(model.FormatUnknown, nil, model.TableConfig{})
	require.Error(t, err)
	assert.Equal(t, `unexpected format "unknown"`, err.Error())
}
