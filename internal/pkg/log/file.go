package log

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

type File struct {
	file *os.File
	path string
	temp bool
}

// NewLogFile creates a log file defined in the flags or a temp file.
// Log file can be outside the working directory, so it is NOT using virtual filesystem.
func NewLogFile(path string) (*File, error) {
	f := &File{}
	if path == "" {
		// Temp log file is removed at the end, it is preserved only in case of error
		f.path = filepath.Join(os.TempDir(), fmt.Sprintf("settings-generator-%d%s.txt", time.Now().Unix(), randomSuffix()))
		f.temp = true
	} else {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Errorf(`cannot resolve log file path "%s": %w`, path, err)
		}
		f.path = absPath
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, errors.Errorf(`cannot open log file "%s": %w`, f.path, err)
	}

	f.file = file
	return f, nil
}

// randomSuffix distinguishes temp files of processes started at the same second.
func randomSuffix() string {
	randomBytes := make([]byte, 6)
	if _, err := rand.Read(randomBytes); err != nil {
		return ""
	}
	return fmt.Sprintf(`-%x`, randomBytes)
}

func (f *File) File() *os.File {
	return f.file
}

func (f *File) Path() string {
	return f.path
}

func (f *File) IsTemp() bool {
	return f.temp
}

func (f *File) TearDown(errorOccurred bool) {
	if f == nil {
		return
	}

	if err := f.file.Close(); err != nil {
		panic(errors.Errorf("cannot close log file \"%s\": %w", f.path, err))
	}

	// No error -> remove log file if temporary
	if !errorOccurred && f.temp {
		// nolint: forbidigo
		if err := os.Remove(f.path); err != nil {
			panic(errors.Errorf("cannot remove temp log file \"%s\": %w", f.path, err))
		}
	}
}
