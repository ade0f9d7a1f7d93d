package cli

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/keboola/go-utils/pkg/wildcards"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasheet-tools/settings-generator/internal/pkg/api/datasheet"
	"github.com/datasheet-tools/settings-generator/internal/pkg/dependencies"
	"github.com/datasheet-tools/settings-generator/internal/pkg/env"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem/aferofs"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
)

type testRoot struct {
	*RootCommand
	fs        filesystem.Fs
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	transport *httpmock.MockTransport
}

func newTestRootCommand(t *testing.T, envs *env.Map, args ...string) *testRoot {
	t.Helper()
	fs := aferofs.NewMemoryFs()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	transport := httpmock.NewMockTransport()

	fsFactory := func(log.Logger, string) (filesystem.Fs, error) {
		return fs, nil
	}

	root := NewRootCommand(&bytes.Buffer{}, stdout, stderr, envs, fsFactory, dependencies.WithClientOptions(
		datasheet.WithTransport(transport),
		datasheet.WithRetry(1, time.Millisecond, time.Millisecond),
	))

	// Log file is outside the virtual filesystem
	root.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "log.txt")))
	return &testRoot{RootCommand: root, fs: fs, stdout: stdout, stderr: stderr, transport: transport}
}

func TestRootSubCommands(t *testing.T) {
	t.Parallel()
	root := newTestRootCommand(t, env.Empty())

	var names []string
	for _, cmd := range root.cmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"generate", "validate"}, names)
}

func TestRootCmdPersistentFlags(t *testing.T) {
	t.Parallel()
	root := newTestRootCommand(t, env.Empty())

	var names []string
	root.cmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		names = append(names, flag.Name)
	})
	assert.Equal(t, []string{"help", "log-file", "verbose", "working-dir"}, names)
}

func TestRootCmdFlags(t *testing.T) {
	t.Parallel()
	root := newTestRootCommand(t, env.Empty())

	var names []string
	root.cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		names = append(names, flag.Name)
	})
	assert.Equal(t, []string{"version"}, names)
}

func TestGenerateCmdFlags(t *testing.T) {
	t.Parallel()
	root := newTestRootCommand(t, env.Empty())
	cmd := generateCommand(root.RootCommand)

	var names []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		names = append(names, flag.Name)
	})
	assert.Equal(t, []string{"config", "dry-run", "fetch-workers", "host", "token"}, names)
	assert.Equal(t, "https://apitable.com/fusion/v1", cmd.Flags().Lookup("host").DefValue)
	assert.Equal(t, "4", cmd.Flags().Lookup("fetch-workers").DefValue)
}

func TestExecute_Help(t *testing.T) {
	t.Parallel()
	root := newTestRootCommand(t, env.Empty())
	assert.Equal(t, 0, root.Execute(context.Background()))
	assert.Contains(t, root.stdout.String(), "Available Commands:")
	assert.Contains(t, root.stdout.String(), "generate")
	assert.Empty(t, root.stderr.String())
}

func TestExecute_Version(t *testing.T) {
	t.Parallel()
	root := newTestRootCommand(t, env.Empty(), "--version")
	assert.Equal(t, 0, root.Execute(context.Background()))
	wildcards.Assert(t, "Version:    dev\nGit commit: -\nBuild date: -\n%A", root.stdout.String())
}

func TestExecute_Validate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := newTestRootCommand(t, env.Empty(), "validate", "--config", "config.json")
	require.NoError(t, root.fs.WriteFile(ctx, filesystem.NewRawFile("config.json", `[
		{"fileName":"strings.json","tables":[{"datasheetId":"dst1","datasheetName":"strings","format":"columns"}]}
	]`)))

	assert.Equal(t, 0, root.Execute(ctx))
	assert.Equal(t, "Configuration is valid, 1 outputs, 1 tables.\n", root.stdout.String())
	assert.Empty(t, root.stderr.String())
}

func TestExecute_Validate_Invalid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := newTestRootCommand(t, env.Empty(), "validate", "-c", "config.json")
	require.NoError(t, root.fs.WriteFile(ctx, filesystem.NewRawFile("config.json", `[
		{"fileName":"strings.json","tables":[{"datasheetId":"dst1","datasheetName":"strings","format":"tree"}]}
	]`)))

	assert.Equal(t, 1, root.Execute(ctx))
	wildcards.Assert(t, `invalid configuration:
- output "strings.json":
  - table "strings":
    - unknown format "tree", expected one of: array, rows, columns, column-files, properties-files
`, root.stderr.String())
	wildcards.Assert(t, "Details can be found in the log file \"%s\".\n", root.stdout.String())
}

func TestExecute_Generate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Token is loaded from ENV
	envs := env.Empty()
	envs.Set("SETTINGS_GENERATOR_TOKEN", "my-token")

	root := newTestRootCommand(t, envs, "generate", "--config", "config.json", "--host", "https://api.test/fusion/v1")
	require.NoError(t, root.fs.WriteFile(ctx, filesystem.NewRawFile("config.json", `[
		{"dirName":"out","fileName":"strings.json","tables":[{"datasheetId":"dst1","datasheetName":"strings","format":"columns"}]}
	]`)))
	root.transport.RegisterResponder(http.MethodGet, "https://api.test/fusion/v1/datasheets/dst1/records", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer my-token", req.Header.Get("Authorization"))
		return httpmock.NewStringResponse(http.StatusOK, `{"success":true,"code":200,"message":"SUCCESS","data":{"total":1,"records":[{"recordId":"rec1","fields":{"id":"hello","en_US":"Hello"}}]}}`), nil
	})

	assert.Equal(t, 0, root.Execute(ctx))
	assert.Empty(t, root.stderr.String())
	wildcards.Assert(t, `%AGenerated 1 files from 1 outputs, time: %s.%A`, root.stdout.String())

	file, err := root.fs.ReadFile(ctx, filesystem.NewFileDef("out/strings.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"strings\": {\n        \"en_US\": {\n            \"hello\": \"Hello\"\n        }\n    }\n}\n", file.Content)
}

func TestExecute_Generate_MissingToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := newTestRootCommand(t, env.Empty(), "generate", "--config", "config.json")
	require.NoError(t, root.fs.WriteFile(ctx, filesystem.NewRawFile("config.json", `[
		{"fileName":"strings.json","tables":[{"datasheetId":"dst1","datasheetName":"strings","format":"columns"}]}
	]`)))

	assert.Equal(t, 1, root.Execute(ctx))
	assert.Equal(t, "missing datasheet API token, please use the \"--token\" flag or the \"SETTINGS_GENERATOR_TOKEN\" ENV variable\n", root.stderr.String())
	assert.Equal(t, 0, root.transport.GetTotalCallCount())
}

func TestExecute_Generate_MissingConfig(t *testing.T) {
	t.Parallel()
	root := newTestRootCommand(t, env.Empty(), "generate")
	assert.Equal(t, 1, root.Execute(context.Background()))
	assert.Equal(t, "missing configuration file, please use the \"--config\" flag\n", root.stderr.String())
}
