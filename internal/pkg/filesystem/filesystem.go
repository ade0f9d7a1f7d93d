// Package filesystem is an abstraction of the filesystem used to read configuration and write generated files.
// Relative paths are resolved against the working directory.
package filesystem

import (
	"context"
	"path/filepath"
)

// Fs - filesystem interface.
type Fs interface {
	Name() string // name of the used implementation, for example local, memory, ...
	BasePath() string
	WorkingDir() string
	// Resolve returns the absolute path of the file.
	Resolve(path string) string
	Exists(ctx context.Context, path string) bool
	IsFile(ctx context.Context, path string) bool
	IsDir(ctx context.Context, path string) bool
	Mkdir(ctx context.Context, path string) error
	ReadFile(ctx context.Context, def *FileDef) (*RawFile, error)
	WriteFile(ctx context.Context, file *RawFile) error
}

// Join joins any number of path elements into a single path.
func Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Dir returns all but the last element of path, typically the path's directory.
func Dir(path string) string {
	return filepath.Dir(path)
}

// Base returns the last element of path.
func Base(path string) string {
	return filepath.Base(path)
}

func IsAbs(path string) bool {
	return filepath.IsAbs(path)
}

// Rel returns relative path, or the path itself if it cannot be made relative.
func Rel(base, path string) string {
	relPath, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return relPath
}
