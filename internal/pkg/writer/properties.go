package writer

import (
	"context"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/magiconair/properties"
	"github.com/spf13/cast"

	"github.com/datasheet-tools/settings-generator/internal/pkg/dotpath"
	"github.com/datasheet-tools/settings-generator/internal/pkg/encoding/json"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/transformer"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

const propertiesLineSeparator = "\r\n"

// PropertiesWriter writes one ".properties" file per language, values of all tables are merged.
type PropertiesWriter struct {
	logger log.Logger
}

func NewPropertiesWriter(logger log.Logger) *PropertiesWriter {
	return &PropertiesWriter{logger: logger}
}

func (w *PropertiesWriter) Files(ctx context.Context, result *transformer.Result) ([]*filesystem.RawFile, error) {
	merged := mergeLanguages(pivoted(result))
	langs := languages(result.Config, []*orderedmap.OrderedMap{merged})
	if len(langs) == 0 {
		w.logger.Warnf(ctx, `No language found for the output "%s", no file is written.`, result.Config.FileName)
		return nil, nil
	}

	var files []*filesystem.RawFile
	for _, lang := range langs {
		values, _ := merged.Get(lang)
		doc, err := propertiesDoc(values)
		if err != nil {
			return nil, errors.PrefixErrorf(err, `language "%s"`, lang)
		}

		content := encodeProperties(doc)
		if err := verifyProperties(doc, content); err != nil {
			return nil, errors.PrefixErrorf(err, `language "%s"`, lang)
		}

		path := filesystem.Join(result.Config.DirName, FileNameForLanguage(result.Config.FileName, lang))
		files = append(files, filesystem.NewRawFile(path, content).SetDescription("output file"))
	}
	return files, nil
}

// mergeLanguages merges pivoted documents: lang -> key -> value, the last table wins.
func mergeLanguages(docs []*orderedmap.OrderedMap) *orderedmap.OrderedMap {
	out := orderedmap.New()
	for _, doc := range docs {
		for _, lang := range doc.Keys() {
			v, _ := doc.Get(lang)
			values, ok := v.(*orderedmap.OrderedMap)
			if !ok {
				continue
			}

			existing, _ := out.Get(lang)
			target, ok := existing.(*orderedmap.OrderedMap)
			if !ok {
				target = orderedmap.New()
				out.Set(lang, target)
			}
			for _, key := range values.Keys() {
				value, _ := values.Get(key)
				target.Set(key, value)
			}
		}
	}
	return out
}

// propertiesDoc flattens nested keys with "." and converts values to strings.
func propertiesDoc(values any) (*properties.Properties, error) {
	doc := properties.NewProperties()
	doc.DisableExpansion = true

	m, ok := values.(*orderedmap.OrderedMap)
	if !ok {
		return doc, nil
	}

	flat := dotpath.Flatten(m)
	for _, key := range flat.Keys() {
		value, _ := flat.Get(key)
		str, err := propertiesValue(value)
		if err != nil {
			return nil, errors.PrefixErrorf(err, `key "%s"`, key)
		}
		if _, _, err := doc.Set(key, str); err != nil {
			return nil, errors.PrefixErrorf(err, `key "%s"`, key)
		}
	}
	return doc, nil
}

func propertiesValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case *orderedmap.OrderedMap, []any:
		return json.EncodeString(v, false)
	default:
		return cast.ToStringE(v)
	}
}

// encodeProperties writes "key=value" lines separated by CRLF, in the order of keys.
func encodeProperties(doc *properties.Properties) string {
	lines := make([]string, 0, doc.Len())
	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)
		lines = append(lines, escapeProperty(key, true)+"="+escapeProperty(value, false))
	}
	return strings.Join(lines, propertiesLineSeparator)
}

// verifyProperties parses the encoded content back, it must contain the same keys and values as the doc.
func verifyProperties(doc *properties.Properties, content string) error {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	parsed, err := loader.LoadBytes([]byte(content))
	if err != nil {
		return errors.PrefixError(err, "cannot read back properties")
	}

	errs := errors.NewMultiError()
	for _, key := range doc.Keys() {
		expected, _ := doc.Get(key)
		if actual, found := parsed.Get(key); !found || actual != expected {
			errs.Append(errors.Errorf(`key "%s" is not encoded correctly`, key))
		}
	}
	if parsed.Len() != doc.Len() {
		errs.Append(errors.Errorf(`expected %d keys, found %d`, doc.Len(), parsed.Len()))
	}
	return errs.ErrorOrNil()
}

func escapeProperty(s string, isKey bool) string {
	var b strings.Builder
	for i, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '=', ':', '#', '!', ' ':
			// Separators in keys and leading characters of values
			if isKey || i == 0 {
				b.WriteRune('\\')
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
