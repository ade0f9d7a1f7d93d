package writer

import (
	"context"

	"github.com/datasheet-tools/settings-generator/internal/pkg/encoding/json"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/transformer"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

// JSONWriter writes the whole document to one JSON file.
type JSONWriter struct{}

func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

func (w *JSONWriter) Files(_ context.Context, result *transformer.Result) ([]*filesystem.RawFile, error) {
	content, err := json.EncodeString(result.Data, true)
	if err != nil {
		return nil, errors.Errorf("cannot encode JSON: %w", err)
	}
	return []*filesystem.RawFile{
		filesystem.NewRawFile(OutputPath(result.Config), content).SetDescription("output file"),
	}, nil
}
