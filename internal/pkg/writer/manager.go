package writer

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/datasheet-tools/settings-generator/internal/pkg/config"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/transformer"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

// Manager writes files of all results to the filesystem.
type Manager struct {
	fs     filesystem.Fs
	logger log.Logger
	clock  clockwork.Clock
	dryRun bool
}

type ManagerOption func(m *Manager)

// WithDryRun only logs files, nothing is written.
func WithDryRun(dryRun bool) ManagerOption {
	return func(m *Manager) {
		m.dryRun = dryRun
	}
}

func NewManager(fs filesystem.Fs, logger log.Logger, clock clockwork.Clock, opts ...ManagerOption) *Manager {
	m := &Manager{fs: fs, logger: logger, clock: clock}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Write results in the configured order of outputs.
// An output that fails does not stop the others, all errors are returned.
// Paths of the written files are returned, in dry run mode the files that would be written.
func (m *Manager) Write(ctx context.Context, results transformer.ResultMap) ([]string, error) {
	errs := errors.NewMultiError()
	var written []string
	for _, result := range results.Ordered() {
		paths, err := m.writeResult(ctx, result)
		if err != nil {
			errs.AppendWithPrefix(err, config.OutputLabel(result.Index, result.Config))
		}
		written = append(written, paths...)
	}
	return written, errs.ErrorOrNil()
}

func (m *Manager) writeResult(ctx context.Context, result *transformer.Result) ([]string, error) {
	if !result.Config.ShouldWrite() {
		m.logger.Infof(ctx, `Output "%s" is skipped, "create" is false.`, result.Config.FileName)
		return nil, nil
	}

	start := m.clock.Now()
	files, err := ForOutput(m.logger, result.Format).Files(ctx, result)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, file := range files {
		if m.dryRun {
			m.logger.Infof(ctx, `Dry run, %s would be written.`, file.Label())
			paths = append(paths, file.Path())
			continue
		}
		if err := m.fs.WriteFile(ctx, file); err != nil {
			return paths, err
		}
		paths = append(paths, file.Path())
	}

	if !m.dryRun {
		m.logger.Infof(ctx, `Output "%s" written, %d files, time: %s.`, result.Config.FileName, len(paths), m.clock.Since(start))
	}
	return paths, nil
}
