package model

import (
	"github.com/keboola/go-utils/pkg/orderedmap"
)

const (
	// IDField is the reserved field with the primary id of a row.
	IDField = "id"
	// LangPlaceholder in the output file name is replaced by the language code.
	LangPlaceholder = "{lang}"
)

// TableConfig identifies one source datasheet and how to shape its rows.
type TableConfig struct {
	DatasheetID   string `json:"datasheetId" validate:"required"`
	DatasheetName string `json:"datasheetName" validate:"required"`
	Format        string `json:"format" validate:"required"`
	// ID keeps the "id" field in the row values of the rows format.
	ID bool `json:"id,omitempty"`
	// Create=false excludes the table from the output, the table is still parsed for relations.
	Create *bool                  `json:"create,omitempty"`
	Params *orderedmap.OrderedMap `json:"params,omitempty"`
}

// OutputConfig identifies one output artifact.
type OutputConfig struct {
	DirName      string        `json:"dirName"`
	FileName     string        `json:"fileName" validate:"required"`
	LanguageList []string      `json:"languageList,omitempty" validate:"omitempty,dive,required"`
	Create       *bool         `json:"create,omitempty"`
	Tables       []TableConfig `json:"tables" validate:"required,min=1,dive"`
}

func (c TableConfig) IncludeInOutput() bool {
	return c.Create == nil || *c.Create
}

// ParseFormat returns the format of the table.
func (c TableConfig) ParseFormat() (Format, error) {
	return ParseFormat(c.Format)
}

func (c OutputConfig) ShouldWrite() bool {
	return c.Create == nil || *c.Create
}

// Format of the output, file formats take precedence because they cannot be mixed with other formats.
func (c OutputConfig) Format() Format {
	out := FormatUnknown
	for _, table := range c.Tables {
		if f, err := table.ParseFormat(); err == nil {
			if f.IsFileFormat() {
				return f
			}
			out = f
		}
	}
	return out
}
