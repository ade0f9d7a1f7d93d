package config

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem/aferofs"
	"github.com/datasheet-tools/settings-generator/internal/pkg/model"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

const configJSON = `
[
  {
    "dirName": "./generated",
    "fileName": "strings.rows.auto.json",
    "tables": [
      {"datasheetId": "dstDEMO", "datasheetName": "strings", "format": "rows", "id": true, "params": {"viewId": "viw1", "fields": ["id", "zh_CN"]}}
    ]
  },
  {
    "dirName": "./generated",
    "fileName": "i18n.{lang}.generated.json",
    "languageList": ["en_US", "zh_CN"],
    "create": false,
    "tables": [
      {"datasheetId": "dstDEMO", "datasheetName": "i18n_strings", "format": "Column-files", "create": false}
    ]
  }
]
`

func TestLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := aferofs.NewMemoryFs()
	require.NoError(t, fs.WriteFile(ctx, filesystem.NewRawFile("config.json", configJSON)))

	outputs, err := Load(ctx, fs, "config.json")
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	first := outputs[0]
	assert.Equal(t, "./generated", first.DirName)
	assert.Equal(t, "strings.rows.auto.json", first.FileName)
	assert.True(t, first.ShouldWrite())
	require.Len(t, first.Tables, 1)
	assert.Equal(t, "dstDEMO", first.Tables[0].DatasheetID)
	assert.True(t, first.Tables[0].ID)
	assert.True(t, first.Tables[0].IncludeInOutput())
	assert.Equal(t, []string{"viewId", "fields"}, first.Tables[0].Params.Keys())

	second := outputs[1]
	assert.Equal(t, []string{"en_US", "zh_CN"}, second.LanguageList)
	assert.False(t, second.ShouldWrite())
	assert.False(t, second.Tables[0].IncludeInOutput())
	assert.Equal(t, model.FormatColumnFiles, second.Format())

	assert.NoError(t, Validate(ctx, outputs))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := aferofs.NewMemoryFs()

	_, err := Load(ctx, fs, "missing.json")
	require.Error(t, err)
	assert.Equal(t, `missing config file "missing.json"`, err.Error())

	require.NoError(t, fs.WriteFile(ctx, filesystem.NewRawFile("config.json", `{"fileName": "foo"}`)))
	_, err = Load(ctx, fs, "config.json")
	require.Error(t, err)
	assert.Equal(t, "config file \"config.json\" is not valid:\n- invalid type \"object\", expected \"[]model.OutputConfig\"", err.Error())
}

func TestValidateOutput_MixedFormats(t *testing.T) {
	t.Parallel()
	output := model.OutputConfig{
		FileName: "mixed.json",
		Tables: []model.TableConfig{
			{DatasheetID: "dst1", DatasheetName: "a", Format: "rows"},
			{DatasheetID: "dst2", DatasheetName: "b", Format: "column-files"},
			{DatasheetID: "dst3", DatasheetName: "c", Format: "columnFiles"},
		},
	}

	err := ValidateOutput(output)
	require.Error(t, err)
	assert.Equal(t, `format "column-files" cannot be combined with other formats in one output, found: column-files, rows`, err.Error())

	var mixedErr MixedFormatsError
	require.True(t, errors.As(err, &mixedErr))
	assert.Equal(t, "mixed.json", mixedErr.FileName)
}

func TestValidateOutput_SameFileFormat(t *testing.T) {
	t.Parallel()
	output := model.OutputConfig{
		FileName: "{lang}.properties",
		Tables: []model.TableConfig{
			{DatasheetID: "dst1", DatasheetName: "a", Format: "properties-files"},
			{DatasheetID: "dst2", DatasheetName: "b", Format: "PropertiesFiles"},
		},
	}
	assert.NoError(t, ValidateOutput(output))

	// Non-file formats can be mixed
	output.Tables[0].Format = "rows"
	output.Tables[1].Format = "array"
	assert.NoError(t, ValidateOutput(output))
}

func TestPartition(t *testing.T) {
	t.Parallel()
	outputs := []model.OutputConfig{
		{
			FileName: "valid.json",
			Tables:   []model.TableConfig{{DatasheetID: "dst1", DatasheetName: "a", Format: "rows"}},
		},
		{
			FileName: "unknown.json",
			Tables:   []model.TableConfig{{DatasheetID: "dst1", DatasheetName: "a", Format: "matrix"}},
		},
		{
			Tables: []model.TableConfig{{DatasheetName: "a", Format: "array"}},
		},
		{
			FileName: "valid.json",
			Tables:   []model.TableConfig{{DatasheetID: "dst2", DatasheetName: "b", Format: "array"}},
		},
	}

	valid, err := Partition(context.Background(), outputs)
	require.Error(t, err)
	require.Len(t, valid, 1)
	assert.Equal(t, "valid.json", valid[0].FileName)

	expected := `
- output "unknown.json":
  - table "a":
    - unknown format "matrix", expected one of: array, rows, columns, column-files, properties-files
- output #3:
  - "fileName" is a required field
  - "tables[0].datasheetId" is a required field
- output "valid.json":
  - file name "valid.json" is already used by another output
`
	assert.Equal(t, strings.TrimSpace(expected), err.Error())
	assert.Equal(t, 3, errors.Len(err))
}
