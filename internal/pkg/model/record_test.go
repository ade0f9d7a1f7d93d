package model

import (
	"testing"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
)

func TestRecord_Clone(t *testing.T) {
	t.Parallel()
	nested := orderedmap.New()
	nested.Set("en_US", "Hello")
	fields := orderedmap.New()
	fields.Set("id", "greeting")
	fields.Set("text", nested)
	fields.Set("link", []any{"recB"})

	original := Record{RecordID: "recA", Fields: fields}
	clone := original.Clone()
	assert.Equal(t, original, clone)

	// Modification of the clone is not visible in the original
	clone.Fields.Set("id", "changed")
	value, _ := clone.Fields.Get("text")
	value.(*orderedmap.OrderedMap).Set("en_US", "Changed")
	link, _ := clone.Fields.Get("link")
	link.([]any)[0] = "recC"

	id, _ := original.Fields.Get("id")
	assert.Equal(t, "greeting", id)
	assert.Equal(t, "Hello", nested.GetOrNil("en_US"))
	originalLink, _ := original.Fields.Get("link")
	assert.Equal(t, []any{"recB"}, originalLink)

	// Nil fields
	assert.Equal(t, 0, Record{RecordID: "recX"}.Clone().Fields.Len())
}
