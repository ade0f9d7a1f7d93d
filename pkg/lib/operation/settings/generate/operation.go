package generate

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/sync/errgroup"

	"github.com/datasheet-tools/settings-generator/internal/pkg/api/datasheet"
	"github.com/datasheet-tools/settings-generator/internal/pkg/config"
	"github.com/datasheet-tools/settings-generator/internal/pkg/encoding/json"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/model"
	"github.com/datasheet-tools/settings-generator/internal/pkg/transformer"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
	"github.com/datasheet-tools/settings-generator/internal/pkg/writer"
)

const DefaultFetchWorkers = 4

type Options struct {
	ConfigPath   string
	DryRun       bool
	FetchWorkers int
}

type dependencies interface {
	Clock() clockwork.Clock
	DatasheetClient(ctx context.Context) (*datasheet.Client, error)
	Fs() filesystem.Fs
	Logger() log.Logger
}

// Run loads the configuration, fetches all datasheets, transforms them and writes the output files.
// An invalid output does not stop the others, all errors are returned at the end.
func Run(ctx context.Context, o Options, d dependencies) error {
	logger := d.Logger()
	start := d.Clock().Now()
	errs := errors.NewMultiError()

	outputs, err := config.Load(ctx, d.Fs(), o.ConfigPath)
	if err != nil {
		return err
	}

	// Invalid outputs are skipped
	valid, err := config.Partition(ctx, outputs)
	if err != nil {
		errs.Append(errors.PrefixError(err, "invalid configuration"))
	}
	if len(valid) == 0 {
		errs.Append(errors.New("no valid output found"))
		return errs.ErrorOrNil()
	}

	client, err := d.DatasheetClient(ctx)
	if err != nil {
		return err
	}

	// All datasheets must be fetched before the transformation, records can be related across datasheets.
	// Datasheets of the invalid outputs are fetched too, they can be targets of relations.
	records, err := fetchAll(ctx, logger, client, outputs, valid, o.FetchWorkers)
	if err != nil {
		return err
	}

	results, err := transformer.New(logger).Run(ctx, valid, records)
	if err != nil {
		errs.Append(err)
	}

	paths, err := writer.NewManager(d.Fs(), logger, d.Clock(), writer.WithDryRun(o.DryRun)).Write(ctx, results)
	if err != nil {
		errs.Append(err)
	}

	logger.Infof(ctx, `Generated %d files from %d outputs, time: %s.`, len(paths), len(results), d.Clock().Since(start))
	return errs.ErrorOrNil()
}

type fetchTask struct {
	table model.TableConfig
	// required is false if the datasheet is used only by invalid outputs
	required bool
}

// fetchAll fetches each datasheet once, in parallel.
// A failure of a datasheet used only by invalid outputs is logged as a warning.
func fetchAll(ctx context.Context, logger log.Logger, client *datasheet.Client, all, valid []model.OutputConfig, workers int) (model.Records, error) {
	if workers < 1 {
		workers = DefaultFetchWorkers
	}

	tasks := fetchTasks(ctx, logger, all, valid)
	records := make(model.Records, len(tasks))
	lock := &deadlock.Mutex{}

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for _, task := range tasks {
		table := task.table
		grp.Go(func() error {
			datasheetRecords, err := client.FetchRecords(grpCtx, table.DatasheetID, table.Params)
			if err != nil {
				err = errors.PrefixErrorf(err, `cannot fetch datasheet "%s" (%s)`, table.DatasheetName, table.DatasheetID)
				if !task.required {
					// Cancelled by a failure of another fetch
					if grpCtx.Err() == nil {
						logger.Warnf(ctx, "%s", errors.Format(err))
					}
					return nil
				}
				return err
			}

			lock.Lock()
			records[table.DatasheetID] = datasheetRecords
			lock.Unlock()

			logger.Infof(ctx, `Fetched datasheet "%s" (%s), %d records.`, table.DatasheetName, table.DatasheetID, len(datasheetRecords))
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// fetchTasks returns the first table of each datasheet, tables of the valid outputs go first.
// Tables without a datasheet id are ignored.
func fetchTasks(ctx context.Context, logger log.Logger, all, valid []model.OutputConfig) []*fetchTask {
	var out []*fetchTask
	byID := make(map[string]*fetchTask)
	params := make(map[string]string)
	add := func(outputs []model.OutputConfig, required bool) {
		for _, output := range outputs {
			for _, table := range output.Tables {
				if table.DatasheetID == "" {
					continue
				}
				tableParams := json.MustEncodeString(table.Params, false)
				if _, found := byID[table.DatasheetID]; found {
					if required && params[table.DatasheetID] != tableParams {
						logger.Warnf(ctx, `Datasheet "%s" is used with different params, the params of the first table are used.`, table.DatasheetID)
					}
					continue
				}
				task := &fetchTask{table: table, required: required}
				byID[table.DatasheetID] = task
				params[table.DatasheetID] = tableParams
				out = append(out, task)
			}
		}
	}
	add(valid, true)
	add(all, false)
	return out
}
