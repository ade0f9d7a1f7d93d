package aferofs

import (
	"os"
	"path/filepath"

	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem/aferofs/localfs"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem/aferofs/memoryfs"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

// NewLocalFs creates the local filesystem, relative paths are resolved against the workingDir.
// Empty workingDir means the current directory of the process.
func NewLocalFs(workingDir string, opts ...Option) (filesystem.Fs, error) {
	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			return nil, errors.Errorf(`cannot get working dir from OS: %w`, err)
		}
	}

	// Convert working dir path to absolute
	workingDir, err := filepath.Abs(workingDir)
	if err != nil {
		return nil, errors.Errorf(`cannot resolve working dir "%s": %w`, workingDir, err)
	}

	// Absolute paths outside the working dir are allowed, so the backend is rooted at the volume root
	backend, err := localfs.New(filepath.VolumeName(workingDir) + string(filepath.Separator))
	if err != nil {
		return nil, err
	}

	return New(backend, append([]Option{WithWorkingDir(workingDir)}, opts...)...), nil
}

func NewMemoryFs(opts ...Option) filesystem.Fs {
	return New(memoryfs.New(), opts...)
}
