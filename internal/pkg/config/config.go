// Package config loads and validates the list of output definitions.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/datasheet-tools/settings-generator/internal/pkg/encoding/json"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/model"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
	"github.com/datasheet-tools/settings-generator/internal/pkg/validator"
)

// MixedFormatsError means that an output mixes a file format with another format.
type MixedFormatsError struct {
	FileName string
	Formats  []string
}

func (e MixedFormatsError) Error() string {
	return fmt.Sprintf(
		`format "%s" cannot be combined with other formats in one output, found: %s`,
		e.Formats[0], strings.Join(e.Formats, ", "),
	)
}

// Load the configuration file, a JSON list of outputs. The configuration is not validated.
func Load(ctx context.Context, fs filesystem.Fs, path string) ([]model.OutputConfig, error) {
	file, err := fs.ReadFile(ctx, filesystem.NewFileDef(path).SetDescription("config file"))
	if err != nil {
		return nil, err
	}

	var outputs []model.OutputConfig
	if err := json.DecodeString(file.Content, &outputs); err != nil {
		return nil, errors.PrefixErrorf(err, `config file "%s" is not valid`, path)
	}
	return outputs, nil
}

// Validate all outputs, errors of all outputs are returned as a MultiError.
func Validate(ctx context.Context, outputs []model.OutputConfig) error {
	_, err := Partition(ctx, outputs)
	return err
}

// Partition outputs to the valid ones and errors of the invalid ones.
// If more outputs have the same file name, the first one is used.
func Partition(ctx context.Context, outputs []model.OutputConfig) ([]model.OutputConfig, error) {
	v := validator.New()
	errs := errors.NewMultiError()
	fileNames := make(map[string]bool)
	valid := make([]model.OutputConfig, 0, len(outputs))
	for i, output := range outputs {
		outputErrs := errors.NewMultiError()
		outputErrs.Append(v.Validate(ctx, output))
		if output.FileName != "" && fileNames[output.FileName] {
			outputErrs.Append(errors.Errorf(`file name "%s" is already used by another output`, output.FileName))
		}
		fileNames[output.FileName] = true
		outputErrs.Append(ValidateOutput(output))

		if outputErrs.Len() > 0 {
			errs.AppendWithPrefix(outputErrs, OutputLabel(i, output))
			continue
		}
		valid = append(valid, output)
	}
	return valid, errs.ErrorOrNil()
}

// ValidateOutput checks format of each table and that a file format is not mixed with other formats.
func ValidateOutput(output model.OutputConfig) error {
	errs := errors.NewMultiError()
	var formats []model.Format
	hasFileFormat := false
	for _, table := range output.Tables {
		format, err := table.ParseFormat()
		if err != nil {
			errs.AppendWithPrefixf(err, `table "%s"`, table.DatasheetName)
			continue
		}
		if format.IsFileFormat() {
			hasFileFormat = true
		}
		formats = appendUnique(formats, format)
	}

	if hasFileFormat && len(formats) > 1 {
		mixed := MixedFormatsError{FileName: output.FileName}
		// File format first
		for _, f := range formats {
			if f.IsFileFormat() {
				mixed.Formats = append([]string{f.String()}, mixed.Formats...)
			} else {
				mixed.Formats = append(mixed.Formats, f.String())
			}
		}
		errs.Append(mixed)
	}

	return errs.ErrorOrNil()
}

// OutputLabel identifies the output in messages.
func OutputLabel(index int, output model.OutputConfig) string {
	if output.FileName == "" {
		return fmt.Sprintf(`output #%d`, index+1)
	}
	return fmt.Sprintf(`output "%s"`, output.FileName)
}

func appendUnique(formats []model.Format, format model.Format) []model.Format {
	for _, f := range formats {
		if f == format {
			return formats
		}
	}
	return append(formats, format)
}
