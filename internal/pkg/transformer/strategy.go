package transformer

import (
	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/datasheet-tools/settings-generator/internal/pkg/dotpath"
	"github.com/datasheet-tools/settings-generator/internal/pkg/model"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

// Shape rows of a table according to the format.
// Row values are referenced, not copied, so relations resolved in the Cache are visible in the result.
func Shape(format model.Format, rows []*Row, table model.TableConfig) (any, error) {
	switch format {
	case model.FormatArray:
		return shapeArray(rows), nil
	case model.FormatRows:
		return shapeRows(rows, table.ID)
	case model.FormatColumns, model.FormatColumnFiles, model.FormatPropertiesFiles:
		return shapeColumns(rows), nil
	default:
		return nil, errors.Errorf(`unexpected format "%s"`, format)
	}
}

// shapeArray returns list of the row values.
func shapeArray(rows []*Row) []any {
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Value)
	}
	return out
}

// shapeRows returns the row values keyed by primary id, dotted ids are expanded.
func shapeRows(rows []*Row, includeID bool) (*orderedmap.OrderedMap, error) {
	flat := orderedmap.New()
	for _, row := range rows {
		value := row.Value
		if !includeID {
			value = withoutID(value)
		}
		flat.Set(row.Key(), value)
	}

	out, err := dotpath.Expand(flat)
	if err != nil {
		return nil, err
	}
	dotpath.PruneEmptyKeys(out)
	return out, nil
}

// shapeColumns pivots rows: field -> primary id -> value. The "id" field is excluded.
func shapeColumns(rows []*Row) *orderedmap.OrderedMap {
	out := orderedmap.New()
	for _, row := range rows {
		for _, field := range row.Value.Keys() {
			if field == model.IDField {
				continue
			}

			existing, _ := out.Get(field)
			column, ok := existing.(*orderedmap.OrderedMap)
			if !ok {
				column = orderedmap.New()
				out.Set(field, column)
			}
			value, _ := row.Value.Get(field)
			column.Set(row.Key(), value)
		}
	}
	return out
}

// withoutID returns a shallow copy of the row value without the "id" field, the cached row keeps it.
func withoutID(m *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	out := orderedmap.New()
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out.Set(k, v)
	}
	dotpath.RemoveKeyPath(out, model.IDField)
	return out
}
