package transformer

import (
	"context"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/datasheet-tools/settings-generator/internal/pkg/dotpath"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/model"
)

// CommentPrefix marks fields which are not part of the output.
const CommentPrefix = "."

// Parser converts records to rows and registers them in the Cache.
type Parser struct {
	logger log.Logger
	cache  *Cache
}

func NewParser(logger log.Logger, cache *Cache) *Parser {
	return &Parser{logger: logger, cache: cache}
}

// Parse the record. A record without the "id" field, or with conflicting dotted keys, is skipped with a warning.
func (p *Parser) Parse(ctx context.Context, record model.Record) (*Row, bool) {
	record = record.Clone()

	id, found := record.Fields.Get(model.IDField)
	if !found || id == nil {
		p.logger.Warnf(ctx, `Record "%s" does not have the "%s" field, it is skipped.`, record.RecordID, model.IDField)
		return nil, false
	}

	// Remove comments
	fields := orderedmap.New()
	for _, key := range record.Fields.Keys() {
		name := strings.TrimSpace(key)
		if name == "" || strings.HasPrefix(name, CommentPrefix) {
			continue
		}
		value, _ := record.Fields.Get(key)
		fields.Set(name, value)
	}

	value, err := dotpath.Expand(fields)
	if err != nil {
		p.logger.Warnf(ctx, `Record "%s" is skipped: %s`, record.RecordID, err.Error())
		return nil, false
	}
	dotpath.PruneEmptyKeys(value)

	row := &Row{RecordID: record.RecordID, ID: id, Value: value}
	p.cache.Add(ctx, row)
	return row, true
}

// ParseAll records of a datasheet, skipped records are not included.
func (p *Parser) ParseAll(ctx context.Context, records []model.Record) []*Row {
	rows := make([]*Row, 0, len(records))
	for _, record := range records {
		if row, ok := p.Parse(ctx, record); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
