// Package transformer converts fetched records to output documents.
//
// All datasheets are parsed to the shared Cache first, then relations are resolved once,
// and then the documents are shaped from the cached rows.
package transformer

import (
	"context"
	"maps"
	"slices"
	"sort"

	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/datasheet-tools/settings-generator/internal/pkg/config"
	"github.com/datasheet-tools/settings-generator/internal/pkg/dotpath"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/model"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

// Result is the document of one output.
type Result struct {
	// Index of the output in the configuration.
	Index  int
	Config model.OutputConfig
	Format model.Format
	// Data is keyed by datasheet name, dotted names are expanded.
	Data *orderedmap.OrderedMap
	// Tables included in the output, in the configured order.
	Tables []TableResult
}

type TableResult struct {
	Config model.TableConfig
	Value  any
}

// ResultMap is keyed by the output file name.
type ResultMap map[string]*Result

// Ordered returns results in the configured order of outputs.
func (m ResultMap) Ordered() []*Result {
	out := make([]*Result, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}

type Transformer struct {
	logger log.Logger
}

func New(logger log.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// Run the transformation. The records must contain all datasheets of all outputs.
// Records of datasheets not used by the outputs are parsed too, they can be targets of relations.
// An invalid output is skipped, its error is returned together with the results of the other outputs.
func (t *Transformer) Run(ctx context.Context, outputs []model.OutputConfig, records model.Records) (ResultMap, error) {
	errs := errors.NewMultiError()
	cache := NewCache(t.logger)
	parser := NewParser(t.logger, cache)

	// Validate outputs
	valid := make(map[int]bool)
	fileNames := make(map[string]bool)
	for i, output := range outputs {
		if fileNames[output.FileName] {
			errs.AppendWithPrefix(errors.Errorf(`file name "%s" is already used by another output`, output.FileName), config.OutputLabel(i, output))
			continue
		}
		fileNames[output.FileName] = true
		if err := config.ValidateOutput(output); err != nil {
			errs.AppendWithPrefix(err, config.OutputLabel(i, output))
			continue
		}
		valid[i] = true
	}

	// Parse each datasheet once, including datasheets of the invalid outputs, they can be targets of relations
	rowsByDatasheet := make(map[string][]*Row)
	for _, output := range outputs {
		for _, table := range output.Tables {
			if _, done := rowsByDatasheet[table.DatasheetID]; done {
				continue
			}
			datasheetRecords, found := records[table.DatasheetID]
			if !found {
				continue
			}
			rows := parser.ParseAll(ctx, datasheetRecords)
			rowsByDatasheet[table.DatasheetID] = rows
			t.logger.Infof(ctx, `Datasheet "%s" (%s): %d records, %d rows.`, table.DatasheetName, table.DatasheetID, len(datasheetRecords), len(rows))
		}
	}

	// Parse remaining datasheets, for example of outputs rejected by the caller
	for _, datasheetID := range slices.Sorted(maps.Keys(records)) {
		if _, done := rowsByDatasheet[datasheetID]; done {
			continue
		}
		rows := parser.ParseAll(ctx, records[datasheetID])
		rowsByDatasheet[datasheetID] = rows
		t.logger.Infof(ctx, `Datasheet "%s": %d records, %d rows.`, datasheetID, len(records[datasheetID]), len(rows))
	}

	// Resolve relations, all datasheets must be parsed
	if err := cache.Resolve(ctx); err != nil {
		return nil, err
	}

	// Shape documents
	results := make(ResultMap)
	for i, output := range outputs {
		if !valid[i] {
			continue
		}
		result, err := t.shapeOutput(ctx, i, output, rowsByDatasheet)
		if err != nil {
			errs.AppendWithPrefix(err, config.OutputLabel(i, output))
			continue
		}
		results[output.FileName] = result
	}

	return results, errs.ErrorOrNil()
}

func (t *Transformer) shapeOutput(ctx context.Context, index int, output model.OutputConfig, rowsByDatasheet map[string][]*Row) (*Result, error) {
	result := &Result{Index: index, Config: output, Format: output.Format()}
	flat := orderedmap.New()
	for _, table := range output.Tables {
		rows, found := rowsByDatasheet[table.DatasheetID]
		if !found {
			return nil, errors.Errorf(`records of datasheet "%s" have not been fetched`, table.DatasheetID)
		}

		format, err := table.ParseFormat()
		if err != nil {
			return nil, err
		}

		value, err := Shape(format, rows, table)
		if err != nil {
			return nil, errors.PrefixErrorf(err, `table "%s"`, table.DatasheetName)
		}

		if !table.IncludeInOutput() {
			continue
		}
		if _, found := flat.Get(table.DatasheetName); found {
			t.logger.Warnf(ctx, `Datasheet name "%s" is used multiple times in the output "%s", the last table is used.`, table.DatasheetName, output.FileName)
		}
		flat.Set(table.DatasheetName, value)
		result.Tables = append(result.Tables, TableResult{Config: table, Value: value})
	}

	data, err := dotpath.Expand(flat)
	if err != nil {
		return nil, err
	}
	dotpath.PruneEmptyKeys(data)
	result.Data = data
	return result, nil
}
