package transformer

import (
	"fmt"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/spf13/cast"
)

// Row is a parsed record.
type Row struct {
	// RecordID is assigned by the data source, relations refer to it.
	RecordID string
	// ID is the raw value of the "id" field.
	ID any
	// Value is the nested row value, it is shared by all outputs.
	Value *orderedmap.OrderedMap
}

// Key returns the primary id as a map key.
func (r *Row) Key() string {
	if s, err := cast.ToStringE(r.ID); err == nil {
		return s
	}
	return fmt.Sprintf("%v", r.ID)
}
