package env

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

// LoadDotEnv loads envs from ".env" files if they exist. Existing envs take precedence.
func LoadDotEnv(ctx context.Context, logger log.Logger, osEnvs *Map, fs filesystem.Fs, dirs []string) *Map {
	envs := osEnvs.Clone()

	for _, dir := range dirs {
		for _, file := range Files() {
			path := filesystem.Join(dir, file)
			if !fs.IsFile(ctx, path) {
				continue
			}

			fileEnvs, err := LoadEnvFile(ctx, fs, path)
			if err != nil {
				logger.Warn(ctx, err.Error())
				continue
			}
			logger.Infof(ctx, `Loaded env file "%s".`, path)

			// Merge ENVs, existing keys take precedence.
			envs.Merge(fileEnvs, false)
		}
	}

	return envs
}

func LoadEnvFile(ctx context.Context, fs filesystem.Fs, path string) (*Map, error) {
	file, err := fs.ReadFile(ctx, filesystem.NewFileDef(path).SetDescription("env file"))
	if err != nil {
		return nil, err
	}

	envs, err := LoadEnvString(file.Content)
	if err != nil {
		return nil, errors.Errorf(`cannot parse env file "%s": %w`, path, err)
	}

	return envs, nil
}

func LoadEnvString(str string) (*Map, error) {
	envsMap, err := godotenv.Unmarshal(str)
	if err != nil {
		return nil, err
	}

	// A line without "=" is parsed as a value with an empty name
	if value, found := envsMap[""]; found {
		return nil, errors.Errorf(`missing variable name for the value "%s"`, value)
	}

	return FromMap(envsMap), nil
}
