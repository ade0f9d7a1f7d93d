// Package writer converts transformation results to output files.
package writer

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/model"
	"github.com/datasheet-tools/settings-generator/internal/pkg/transformer"
)

// Writer generates files of an output, nothing is written to the filesystem.
type Writer interface {
	Files(ctx context.Context, result *transformer.Result) ([]*filesystem.RawFile, error)
}

// ForOutput returns the writer for the format of the output.
func ForOutput(logger log.Logger, format model.Format) Writer {
	switch format {
	case model.FormatColumnFiles:
		return NewSplitJSONWriter(logger)
	case model.FormatPropertiesFiles:
		return NewPropertiesWriter(logger)
	default:
		return NewJSONWriter()
	}
}

// OutputPath returns path of the output file, relative to the working directory.
func OutputPath(output model.OutputConfig) string {
	return filesystem.Join(output.DirName, output.FileName)
}

// FileNameForLanguage replaces the "{lang}" placeholder in the file name.
// If the placeholder is missing, the language is inserted before the extension,
// for example "strings.json" -> "strings.en_US.json".
func FileNameForLanguage(fileName, lang string) string {
	if strings.Contains(fileName, model.LangPlaceholder) {
		return strings.ReplaceAll(fileName, model.LangPlaceholder, lang)
	}

	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	if base == "" {
		return lang + ext
	}
	return base + "." + lang + ext
}

// languages returns the explicit list or the union of the keys of the pivoted documents.
func languages(output model.OutputConfig, docs []*orderedmap.OrderedMap) []string {
	if len(output.LanguageList) > 0 {
		return output.LanguageList
	}

	var out []string
	seen := make(map[string]bool)
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, lang := range doc.Keys() {
			if !seen[lang] {
				seen[lang] = true
				out = append(out, lang)
			}
		}
	}
	return out
}

// pivoted returns table values of the result, the values of file formats are pivoted maps.
func pivoted(result *transformer.Result) []*orderedmap.OrderedMap {
	out := make([]*orderedmap.OrderedMap, 0, len(result.Tables))
	for _, table := range result.Tables {
		if m, ok := table.Value.(*orderedmap.OrderedMap); ok {
			out = append(out, m)
		}
	}
	return out
}
