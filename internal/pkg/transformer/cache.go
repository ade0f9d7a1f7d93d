package transformer

import (
	"context"
	"strings"

	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

// RelationPrefix starts each record id, a cell value with the prefix is a relation to another record.
const RelationPrefix = "rec"

var ErrAlreadyResolved = errors.New("relations have already been resolved")

// Cache maps record id to the parsed row, across all datasheets of one run.
// It is filled by the Parser and rewritten once by Resolve. It is not safe for concurrent use.
type Cache struct {
	logger   log.Logger
	rows     map[string]*Row
	order    []string
	resolved bool
}

func NewCache(logger log.Logger) *Cache {
	return &Cache{logger: logger, rows: make(map[string]*Row)}
}

// Add the row, a row with the same record id is replaced.
func (c *Cache) Add(ctx context.Context, row *Row) {
	if _, found := c.rows[row.RecordID]; found {
		c.logger.Warnf(ctx, `Record "%s" is defined multiple times, the last definition is used.`, row.RecordID)
	} else {
		c.order = append(c.order, row.RecordID)
	}
	c.rows[row.RecordID] = row
}

func (c *Cache) Get(recordID string) (*Row, bool) {
	row, found := c.rows[recordID]
	return row, found
}

func (c *Cache) Len() int {
	return len(c.rows)
}

func (c *Cache) Resolved() bool {
	return c.resolved
}

// Resolve relations in all top-level list fields of all rows:
//   - a relation to a cached record is replaced by the primary id of the record,
//   - a relation to a missing record is removed and a warning is logged,
//   - a single item list without a relation is replaced by the item.
//
// The rows are modified in place. Relations can be resolved only once.
func (c *Cache) Resolve(ctx context.Context) error {
	if c.resolved {
		return ErrAlreadyResolved
	}
	c.resolved = true

	for _, recordID := range c.order {
		row := c.rows[recordID]
		for _, key := range row.Value.Keys() {
			value, _ := row.Value.Get(key)
			if list, ok := value.([]any); ok {
				row.Value.Set(key, c.resolveList(ctx, row, list))
			}
		}
	}
	return nil
}

func (c *Cache) resolveList(ctx context.Context, row *Row, list []any) any {
	out := make([]any, 0, len(list))
	for _, item := range list {
		if ref, ok := item.(string); ok && strings.HasPrefix(ref, RelationPrefix) {
			if target, found := c.rows[ref]; found {
				out = append(out, target.ID)
			} else {
				c.logger.Warnf(ctx, `Relation record "%s" does not exist, it is referenced by record "%s".`, ref, row.RecordID)
			}
			continue
		}

		if len(list) == 1 {
			return item
		}
		out = append(out, item)
	}
	return out
}
