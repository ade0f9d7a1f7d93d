package aferofs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
)

func TestMemoryFs_WriteAndRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger := log.NewDebugLogger()
	fs := NewMemoryFs(WithLogger(logger), WithWorkingDir("/project"))

	assert.Equal(t, "memory", fs.Name())
	assert.Equal(t, "/project", fs.WorkingDir())
	assert.False(t, fs.Exists(ctx, "out/strings.json"))

	// Parent directories are created
	file := filesystem.NewRawFile("out/strings.json", "{}\n").SetDescription("output")
	require.NoError(t, fs.WriteFile(ctx, file))
	assert.True(t, fs.Exists(ctx, "out/strings.json"))
	assert.True(t, fs.IsFile(ctx, "/project/out/strings.json"))
	assert.True(t, fs.IsDir(ctx, "out"))

	loaded, err := fs.ReadFile(ctx, filesystem.NewFileDef("/project/out/strings.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", loaded.Content)

	assert.Equal(t, "DEBUG  Saved output \"out/strings.json\".\nDEBUG  Loaded \"/project/out/strings.json\".\n", logger.AllMessages())
}

func TestMemoryFs_ReadMissing(t *testing.T) {
	t.Parallel()
	fs := NewMemoryFs()
	_, err := fs.ReadFile(context.Background(), filesystem.NewFileDef("config.json").SetDescription("config file"))
	require.Error(t, err)
	assert.Equal(t, `missing config file "config.json"`, err.Error())
}

func TestLocalFs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	workingDir := t.TempDir()
	fs, err := NewLocalFs(workingDir)
	require.NoError(t, err)
	assert.Equal(t, "local", fs.Name())
	assert.Equal(t, workingDir, fs.WorkingDir())

	require.NoError(t, fs.WriteFile(ctx, filesystem.NewRawFile("sub/file.properties", "a=b")))
	content, err := os.ReadFile(filepath.Join(workingDir, "sub", "file.properties"))
	require.NoError(t, err)
	assert.Equal(t, "a=b", string(content))

	// Absolute path outside the working dir
	otherDir := t.TempDir()
	require.NoError(t, fs.Mkdir(ctx, filepath.Join(otherDir, "nested")))
	assert.True(t, fs.IsDir(ctx, filepath.Join(otherDir, "nested")))
}
