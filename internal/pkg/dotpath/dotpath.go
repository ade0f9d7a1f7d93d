// Package dotpath converts between flat maps with dotted keys, for example "a.b.c", and nested ordered maps.
package dotpath

import (
	"fmt"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"
)

const Separator = "."

// ConflictError means that one key implies a container and another key a value at the same path.
type ConflictError struct {
	Key  string
	Path string
}

func (e ConflictError) Error() string {
	if e.Key == e.Path {
		return fmt.Sprintf(`key "%s" is defined as an object and also as a value`, e.Key)
	}
	return fmt.Sprintf(`key "%s" conflicts with the value at "%s"`, e.Key, e.Path)
}

// Expand builds a nested map from the flat map, keys are split by the Separator.
// The order of keys is preserved. The input map is never modified,
// nested maps from the input are copied before a value is merged into them, other values are referenced.
func Expand(flat *orderedmap.OrderedMap) (*orderedmap.OrderedMap, error) {
	e := &expander{owned: make(map[*orderedmap.OrderedMap]bool)}
	out := e.newMap()
	if flat == nil {
		return out, nil
	}

	for _, key := range flat.Keys() {
		value, _ := flat.Get(key)
		if err := e.setPath(out, strings.Split(key, Separator), value, key); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type expander struct {
	// owned maps are created by the expander and can be modified
	owned map[*orderedmap.OrderedMap]bool
}

func (e *expander) newMap() *orderedmap.OrderedMap {
	m := orderedmap.New()
	e.owned[m] = true
	return m
}

// own replaces the map in the parent by a shallow copy, if it is not owned.
func (e *expander) own(parent *orderedmap.OrderedMap, key string, m *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	if e.owned[m] {
		return m
	}
	c := e.newMap()
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		c.Set(k, v)
	}
	parent.Set(key, c)
	return c
}

func (e *expander) setPath(target *orderedmap.OrderedMap, segments []string, value any, key string) error {
	last := len(segments) - 1
	for i, segment := range segments[:last] {
		child, _ := target.Get(segment)
		switch v := child.(type) {
		case nil:
			m := e.newMap()
			target.Set(segment, m)
			target = m
		case *orderedmap.OrderedMap:
			target = e.own(target, segment, v)
		default:
			return ConflictError{Key: key, Path: strings.Join(segments[:i+1], Separator)}
		}
	}
	return e.setValue(target, segments[last], value, key, strings.Join(segments, Separator))
}

func (e *expander) setValue(target *orderedmap.OrderedMap, segment string, value any, key, path string) error {
	existing, found := target.Get(segment)
	if !found || existing == nil {
		target.Set(segment, value)
		return nil
	}

	existingMap, existingIsMap := existing.(*orderedmap.OrderedMap)
	valueMap, valueIsMap := value.(*orderedmap.OrderedMap)
	switch {
	case existingIsMap && valueIsMap:
		merged := e.own(target, segment, existingMap)
		for _, k := range valueMap.Keys() {
			v, _ := valueMap.Get(k)
			if err := e.setValue(merged, k, v, key, path+Separator+k); err != nil {
				return err
			}
		}
		return nil
	case existingIsMap || valueIsMap:
		return ConflictError{Key: key, Path: path}
	default:
		target.Set(segment, value)
		return nil
	}
}

// RemoveKeyPath removes the value at the dotted path and then all ancestors left empty, the root is kept.
// It returns false if the path does not exist.
func RemoveKeyPath(doc *orderedmap.OrderedMap, path string) bool {
	if doc == nil {
		return false
	}

	segments := strings.Split(path, Separator)
	last := len(segments) - 1
	parents := []*orderedmap.OrderedMap{doc}
	for _, segment := range segments[:last] {
		child, _ := parents[len(parents)-1].Get(segment)
		m, ok := child.(*orderedmap.OrderedMap)
		if !ok {
			return false
		}
		parents = append(parents, m)
	}

	if _, found := parents[last].Get(segments[last]); !found {
		return false
	}
	parents[last].Delete(segments[last])

	// Remove empty ancestors, bottom-up
	for i := last; i > 0 && parents[i].Len() == 0; i-- {
		parents[i-1].Delete(segments[i-1])
	}
	return true
}

// PruneEmptyKeys removes "" keys, they are artifacts of leading, trailing or double separators.
func PruneEmptyKeys(doc *orderedmap.OrderedMap) {
	if doc == nil {
		return
	}
	doc.Delete("")
	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)
		pruneValue(value)
	}
}

func pruneValue(value any) {
	switch v := value.(type) {
	case *orderedmap.OrderedMap:
		PruneEmptyKeys(v)
	case []any:
		for _, item := range v {
			pruneValue(item)
		}
	}
}

// Flatten is inverse of Expand, nested non-empty maps are converted to dotted keys.
// Lists and empty maps are values.
func Flatten(doc *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	out := orderedmap.New()
	flatten(out, "", doc)
	return out
}

func flatten(out *orderedmap.OrderedMap, prefix string, doc *orderedmap.OrderedMap) {
	if doc == nil {
		return
	}
	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)
		path := key
		if prefix != "" {
			path = prefix + Separator + key
		}
		if m, ok := value.(*orderedmap.OrderedMap); ok && m.Len() > 0 {
			flatten(out, path, m)
		} else {
			out.Set(path, value)
		}
	}
}
