package writer

import (
	"context"

	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/datasheet-tools/settings-generator/internal/pkg/dotpath"
	"github.com/datasheet-tools/settings-generator/internal/pkg/encoding/json"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/transformer"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

// SplitJSONWriter writes one JSON file per language.
// Each file contains {tableName: {lang: values}} of all tables.
type SplitJSONWriter struct {
	logger log.Logger
}

func NewSplitJSONWriter(logger log.Logger) *SplitJSONWriter {
	return &SplitJSONWriter{logger: logger}
}

func (w *SplitJSONWriter) Files(ctx context.Context, result *transformer.Result) ([]*filesystem.RawFile, error) {
	langs := languages(result.Config, pivoted(result))
	if len(langs) == 0 {
		w.logger.Warnf(ctx, `No language found for the output "%s", no file is written.`, result.Config.FileName)
		return nil, nil
	}

	var files []*filesystem.RawFile
	for _, lang := range langs {
		flat := orderedmap.New()
		for _, table := range result.Tables {
			values := orderedmap.New()
			if m, ok := table.Value.(*orderedmap.OrderedMap); ok {
				if v, found := m.Get(lang); found {
					values.Set(lang, v)
				}
			}
			flat.Set(table.Config.DatasheetName, values)
		}

		doc, err := dotpath.Expand(flat)
		if err != nil {
			return nil, errors.PrefixErrorf(err, `language "%s"`, lang)
		}
		dotpath.PruneEmptyKeys(doc)

		content, err := json.EncodeString(doc, true)
		if err != nil {
			return nil, errors.Errorf("cannot encode JSON: %w", err)
		}

		path := filesystem.Join(result.Config.DirName, FileNameForLanguage(result.Config.FileName, lang))
		files = append(files, filesystem.NewRawFile(path, content).SetDescription("output file"))
	}
	return files, nil
}
