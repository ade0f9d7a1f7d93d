// Package json encodes values with preserved key order of ordered maps and without HTML escaping.
// Pretty output is indented with 4 spaces and ends with a new line.
package json

import (
	"bytes"
	"encoding/json"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

const Indent = 4

var (
	compactAPI = jsoniter.Config{EscapeHTML: false, SortMapKeys: true, ValidateJsonRawMessage: true}.Froze()
	prettyAPI  = jsoniter.Config{EscapeHTML: false, SortMapKeys: true, ValidateJsonRawMessage: true, IndentionStep: Indent}.Froze()
)

func init() {
	// Ordered map is written key by key, so the indentation and escaping of the stream apply to nested values too
	jsoniter.RegisterTypeEncoderFunc("orderedmap.OrderedMap", encodeOrderedMap, func(ptr unsafe.Pointer) bool {
		return (*orderedmap.OrderedMap)(ptr).Len() == 0
	})
}

func encodeOrderedMap(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	m := (*orderedmap.OrderedMap)(ptr)
	if m.Len() == 0 {
		stream.WriteEmptyObject()
		return
	}

	stream.WriteObjectStart()
	for i, key := range m.Keys() {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(key)
		value, _ := m.Get(key)
		stream.WriteVal(value)
	}
	stream.WriteObjectEnd()
}

func Encode(v any, pretty bool) ([]byte, error) {
	var data []byte
	var err error
	if pretty {
		data, err = prettyAPI.Marshal(v)
		data = append(data, '\n')
	} else {
		data, err = compactAPI.Marshal(v)
	}
	if err != nil {
		return nil, errors.Errorf("cannot encode JSON: %w", err)
	}
	return data, nil
}

func MustEncode(v any, pretty bool) []byte {
	data, err := Encode(v, pretty)
	if err != nil {
		panic(err)
	}
	return data
}

func EncodeString(v any, pretty bool) (string, error) {
	data, err := Encode(v, pretty)
	return string(data), err
}

func MustEncodeString(v any, pretty bool) string {
	data, err := EncodeString(v, pretty)
	if err != nil {
		panic(err)
	}
	return data
}

// Decode uses the standard decoder, its typed errors are converted to readable messages.
func Decode(data []byte, m any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(m); err != nil {
		return processJSONError(err)
	}
	return nil
}

func MustDecode(data []byte, m any) {
	if err := Decode(data, m); err != nil {
		panic(err)
	}
}

func DecodeString(data string, m any) error {
	return Decode([]byte(data), m)
}

func MustDecodeString(data string, m any) {
	if err := DecodeString(data, m); err != nil {
		panic(err)
	}
}

func processJSONError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return errors.Errorf(`invalid type "%s", expected "%s"`, typeErr.Value, typeErr.Type)
		}
		return errors.Errorf(`key "%s" has invalid type "%s"`, typeErr.Field, typeErr.Value)
	case errors.As(err, &syntaxErr):
		return errors.Errorf("%s, offset: %d", syntaxErr, syntaxErr.Offset)
	default:
		return errors.WithStack(err)
	}
}
