// Package options binds command flags and ENV variables to a single source of values.
// Priority: flag > OS ENV > ".env" file > flag default.
package options

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/datasheet-tools/settings-generator/internal/pkg/env"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

const (
	VerboseOpt    = "verbose"
	LogFileOpt    = "log-file"
	WorkingDirOpt = "working-dir"
)

// sensitive options are masked in Dump.
var sensitive = map[string]bool{"token": true}

// Options contains parsed flags and ENV variables.
type Options struct {
	*viper.Viper
	envNaming *env.NamingConvention
	// setBy records the source of each option: flag, env or default.
	setBy map[string]string
}

func New() *Options {
	return &Options{
		Viper:     viper.New(),
		envNaming: env.NewNamingConvention(),
		setBy:     make(map[string]string),
	}
}

// BindPersistentFlags for all commands.
func (o *Options) BindPersistentFlags(flags *pflag.FlagSet) {
	flags.SortFlags = true
	flags.BoolP("help", "h", false, "print help for command")
	flags.StringP(LogFileOpt, "l", "", "path to a log file for details")
	flags.StringP(WorkingDirOpt, "d", "", "use other working directory")
	flags.BoolP(VerboseOpt, "v", false, "print details")
}

// Load values from flags and ENVs. The ".env" files are read from the working directory.
func (o *Options) Load(ctx context.Context, logger log.Logger, osEnvs *env.Map, fs filesystem.Fs, flags *pflag.FlagSet) error {
	// Bind flags
	if err := o.BindPFlags(flags); err != nil {
		return errors.Wrap(err, "cannot bind flags")
	}

	// Load ".env" files, OS ENVs take precedence
	envs := env.LoadDotEnv(ctx, logger, osEnvs, fs, []string{fs.WorkingDir()})

	// Set options from ENVs, if the flag is not set explicitly
	flags.VisitAll(func(flag *pflag.Flag) {
		switch {
		case flag.Changed:
			o.setBy[flag.Name] = "flag"
		default:
			if value, found := envs.Lookup(o.envNaming.FlagToEnv(flag.Name)); found {
				o.Set(flag.Name, value)
				o.setBy[flag.Name] = "env"
			} else {
				o.setBy[flag.Name] = "default"
			}
		}
	})

	return nil
}

// SetBy returns source of the option value: "flag", "env" or "default".
func (o *Options) SetBy(key string) string {
	return o.setBy[key]
}

// EnvName returns name of the ENV variable for the flag.
func (o *Options) EnvName(flagName string) string {
	return o.envNaming.FlagToEnv(flagName)
}

// Dump options for debugging, sensitive values are masked.
func (o *Options) Dump() string {
	keys := o.AllKeys()
	sort.Strings(keys)

	var lines []string
	for _, key := range keys {
		value := fmt.Sprintf("%v", o.Get(key))
		if sensitive[key] && value != "" {
			value = maskSecret(value)
		}
		lines = append(lines, fmt.Sprintf("  %s=%s", key, value))
	}
	return "Parsed options:\n" + strings.Join(lines, "\n")
}

var secretPrefixRegexp = regexp.MustCompile(`^(.{1,7}).*$`)

func maskSecret(value string) string {
	return secretPrefixRegexp.ReplaceAllString(value, `$1*****`)
}
