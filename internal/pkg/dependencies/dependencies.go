// Package dependencies provides dependencies container for operations and CLI commands.
//
// Dependencies are created lazily, so a command creates only what it needs.
// For example the "validate" command never creates the datasheet API client.
package dependencies

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/sasha-s/go-deadlock"

	"github.com/datasheet-tools/settings-generator/internal/pkg/api/datasheet"
	"github.com/datasheet-tools/settings-generator/internal/pkg/env"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/options"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

const (
	TokenOpt = "token"
	HostOpt  = "host"
)

// Base contains dependencies for all commands.
type Base interface {
	Clock() clockwork.Clock
	Envs() *env.Map
	Fs() filesystem.Fs
	Logger() log.Logger
	Options() *options.Options
}

// Container contains dependencies for all operations.
type Container interface {
	Base
	DatasheetClient(ctx context.Context) (*datasheet.Client, error)
}

type container struct {
	clock   clockwork.Clock
	envs    *env.Map
	fs      filesystem.Fs
	logger  log.Logger
	options *options.Options

	clientOpts []datasheet.Option
	client     lazy[*datasheet.Client]
}

type Option func(c *container)

// WithClientOptions modifies the datasheet API client, for example in tests.
func WithClientOptions(opts ...datasheet.Option) Option {
	return func(c *container) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *container) {
		c.clock = clock
	}
}

func NewContainer(logger log.Logger, envs *env.Map, fs filesystem.Fs, opts *options.Options, containerOpts ...Option) Container {
	c := &container{
		clock:   clockwork.NewRealClock(),
		envs:    envs,
		fs:      fs,
		logger:  logger,
		options: opts,
	}
	for _, o := range containerOpts {
		o(c)
	}
	return c
}

func (c *container) Clock() clockwork.Clock {
	return c.clock
}

func (c *container) Envs() *env.Map {
	return c.envs
}

func (c *container) Fs() filesystem.Fs {
	return c.fs
}

func (c *container) Logger() log.Logger {
	return c.logger
}

func (c *container) Options() *options.Options {
	return c.options
}

// DatasheetClient returns the API client, the token is required.
func (c *container) DatasheetClient(ctx context.Context) (*datasheet.Client, error) {
	return c.client.InitAndGet(func() (*datasheet.Client, error) {
		token := c.options.GetString(TokenOpt)
		if token == "" {
			return nil, errors.Errorf(`missing datasheet API token, please use the "--%s" flag or the "%s" ENV variable`, TokenOpt, c.options.EnvName(TokenOpt))
		}

		host := c.options.GetString(HostOpt)
		if host == "" {
			host = datasheet.DefaultHost
		}

		opts := append([]datasheet.Option{datasheet.WithVerbose(c.options.GetBool(options.VerboseOpt))}, c.clientOpts...)
		client := datasheet.NewClient(c.logger, host, token, opts...)
		c.logger.Debugf(ctx, `Datasheet API host "%s".`, client.Host())
		return client, nil
	})
}

// lazy value is initialized on the first call.
type lazy[T any] struct {
	lock  deadlock.Mutex
	init  bool
	value T
}

// InitAndGet returns the value, the initFn is called until it succeeds.
func (v *lazy[T]) InitAndGet(initFn func() (T, error)) (T, error) {
	v.lock.Lock()
	defer v.lock.Unlock()
	if !v.init {
		value, err := initFn()
		if err != nil {
			return value, err
		}
		v.value = value
		v.init = true
	}
	return v.value, nil
}
