package aferofs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

type Backend interface {
	afero.Fs
	Name() string
	BasePath() string
}

// Fs implements filesystem.Fs on top of an afero backend.
type Fs struct {
	backend    Backend
	utils      *afero.Afero
	logger     log.Logger
	workingDir string
}

type Option func(fs *Fs)

func WithLogger(logger log.Logger) Option {
	return func(fs *Fs) {
		fs.logger = logger
	}
}

// WithWorkingDir sets the directory, relative to the base path, used to resolve relative paths.
func WithWorkingDir(workingDir string) Option {
	return func(fs *Fs) {
		fs.workingDir = workingDir
	}
}

func New(backend Backend, opts ...Option) *Fs {
	fs := &Fs{
		backend:    backend,
		utils:      &afero.Afero{Fs: backend},
		logger:     log.NewNopLogger(),
		workingDir: string(filepath.Separator),
	}
	for _, o := range opts {
		o(fs)
	}
	return fs
}

func (fs *Fs) Name() string {
	return fs.backend.Name()
}

func (fs *Fs) BasePath() string {
	return fs.backend.BasePath()
}

func (fs *Fs) WorkingDir() string {
	return fs.workingDir
}

// Backend returns the underlying afero filesystem.
func (fs *Fs) Backend() Backend {
	return fs.backend
}

func (fs *Fs) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(fs.workingDir, path)
}

func (fs *Fs) Exists(_ context.Context, path string) bool {
	ok, err := fs.utils.Exists(fs.Resolve(path))
	return err == nil && ok
}

func (fs *Fs) IsFile(_ context.Context, path string) bool {
	s, err := fs.backend.Stat(fs.Resolve(path))
	return err == nil && !s.IsDir()
}

func (fs *Fs) IsDir(_ context.Context, path string) bool {
	ok, err := fs.utils.IsDir(fs.Resolve(path))
	return err == nil && ok
}

func (fs *Fs) Mkdir(_ context.Context, path string) error {
	if err := fs.backend.MkdirAll(fs.Resolve(path), dirPermissions); err != nil {
		return errors.Errorf(`cannot create directory "%s": %w`, path, err)
	}
	return nil
}

func (fs *Fs) ReadFile(ctx context.Context, def *filesystem.FileDef) (*filesystem.RawFile, error) {
	path := fs.Resolve(def.Path())
	content, err := fs.utils.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Errorf(`missing %s`, def.Label())
		}
		return nil, errors.Errorf(`cannot open %s: %w`, def.Label(), err)
	}

	fs.logger.Debugf(ctx, `Loaded %s.`, def.Label())
	return def.ToRawFile(string(content)), nil
}

// WriteFile creates missing parent directories and replaces the file content.
func (fs *Fs) WriteFile(ctx context.Context, file *filesystem.RawFile) error {
	path := fs.Resolve(file.Path())
	if err := fs.backend.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return errors.Errorf(`cannot create directory for %s: %w`, file.Label(), err)
	}

	if err := fs.utils.WriteFile(path, []byte(file.Content), filePermissions); err != nil {
		return errors.Errorf(`cannot write %s: %w`, file.Label(), err)
	}

	fs.logger.Debugf(ctx, `Saved %s.`, file.Label())
	return nil
}
