package model

import (
	"github.com/keboola/go-utils/pkg/deepcopy"
	"github.com/keboola/go-utils/pkg/orderedmap"
)

// Record is a raw row of a datasheet as returned by the API.
type Record struct {
	RecordID string                 `json:"recordId"`
	Fields   *orderedmap.OrderedMap `json:"fields"`
}

// Records of a datasheet by datasheet id.
type Records map[string][]Record

// Clone returns a deep copy, so the transformation never modifies fetched data.
func (r Record) Clone() Record {
	out := Record{RecordID: r.RecordID, Fields: orderedmap.New()}
	if r.Fields != nil {
		out.Fields = deepcopy.Copy(r.Fields).(*orderedmap.OrderedMap)
	}
	return out
}
