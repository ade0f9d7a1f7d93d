package model

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// Format selects how parsed rows of a table are shaped.
type Format int

const (
	FormatUnknown Format = iota
	// FormatArray is an ordered list of the row values.
	FormatArray
	// FormatRows is an object keyed by the primary id of each row.
	FormatRows
	// FormatColumns is an object pivoted by field: field -> primary id -> value.
	FormatColumns
	// FormatColumnFiles is pivoted as FormatColumns, the output is split to one JSON file per language.
	FormatColumnFiles
	// FormatPropertiesFiles is pivoted as FormatColumns, the output is written as ".properties" file per language.
	FormatPropertiesFiles
)

var formatNames = map[Format]string{
	FormatArray:           "array",
	FormatRows:            "rows",
	FormatColumns:         "columns",
	FormatColumnFiles:     "column-files",
	FormatPropertiesFiles: "properties-files",
}

// UnknownFormatError is returned by ParseFormat for an unsupported format name.
type UnknownFormatError struct {
	Name string
}

func (e UnknownFormatError) Error() string {
	return fmt.Sprintf(`unknown format "%s", expected one of: %s`, e.Name, strings.Join(FormatNames(), ", "))
}

// ParseFormat resolves format name regardless of its case and style,
// for example "column-files", "columnFiles", "ColumnFiles", "column_files" and "Column files" are the same format.
func ParseFormat(name string) (Format, error) {
	normalized := strings.ToLower(strcase.ToKebab(strings.TrimSpace(name)))
	for format, formatName := range formatNames {
		if normalized == formatName {
			return format, nil
		}
	}
	return FormatUnknown, UnknownFormatError{Name: name}
}

// FormatNames returns canonical names of all formats.
func FormatNames() []string {
	return []string{
		FormatArray.String(),
		FormatRows.String(),
		FormatColumns.String(),
		FormatColumnFiles.String(),
		FormatPropertiesFiles.String(),
	}
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// IsFileFormat returns true if the output is split to multiple files by language.
func (f Format) IsFileFormat() bool {
	return f == FormatColumnFiles || f == FormatPropertiesFiles
}

// IsPivoted returns true if the rows are pivoted by field.
func (f Format) IsPivoted() bool {
	return f == FormatColumns || f.IsFileFormat()
}
