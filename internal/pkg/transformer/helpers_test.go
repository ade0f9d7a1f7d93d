package transformer

import (
	"testing"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/stretchr/testify/require"

	"github.com/datasheet-tools/settings-generator/internal/pkg/encoding/json"
	"github.com/datasheet-tools/settings-generator/internal/pkg/model"
)

// record creates a record from JSON fields, the order of fields is kept.
func record(t *testing.T, recordID, fields string) model.Record {
	t.Helper()
	m := orderedmap.New()
	require.NoError(t, json.DecodeString(fields, m))
	return model.Record{RecordID: recordID, Fields: m}
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	return json.MustEncodeString(v, false)
}
