package validate

import (
	"context"

	"github.com/datasheet-tools/settings-generator/internal/pkg/config"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

type Options struct {
	ConfigPath string
}

type dependencies interface {
	Fs() filesystem.Fs
	Logger() log.Logger
}

// Run validates the configuration file, nothing is fetched.
func Run(ctx context.Context, o Options, d dependencies) error {
	logger := d.Logger()

	outputs, err := config.Load(ctx, d.Fs(), o.ConfigPath)
	if err != nil {
		return err
	}

	if err := config.Validate(ctx, outputs); err != nil {
		return errors.PrefixError(err, "invalid configuration")
	}

	tables := 0
	for _, output := range outputs {
		tables += len(output.Tables)
	}
	logger.Infof(ctx, `Configuration is valid, %d outputs, %d tables.`, len(outputs), tables)
	return nil
}
