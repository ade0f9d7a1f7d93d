package validate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasheet-tools/settings-generator/internal/pkg/dependencies"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/pkg/lib/operation/settings/validate"
)

func TestRun_Valid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := dependencies.NewMocked(t)
	require.NoError(t, d.Fs().WriteFile(ctx, filesystem.NewRawFile("config.json", `[
		{"fileName":"a.json","tables":[{"datasheetId":"dst1","datasheetName":"a","format":"Rows"}]},
		{"fileName":"b.json","tables":[
			{"datasheetId":"dst2","datasheetName":"b","format":"column_files"},
			{"datasheetId":"dst3","datasheetName":"c","format":"ColumnFiles"}
		]}
	]`)))
	d.DebugLogger().Truncate()

	require.NoError(t, validate.Run(ctx, validate.Options{ConfigPath: "config.json"}, d))
	assert.Equal(t, "INFO  Configuration is valid, 2 outputs, 3 tables.\n", d.DebugLogger().InfoMessages())
	assert.Equal(t, 0, d.MockedHTTPTransport().GetTotalCallCount())
}

func TestRun_Invalid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := dependencies.NewMocked(t)
	require.NoError(t, d.Fs().WriteFile(ctx, filesystem.NewRawFile("config.json", `[
		{"fileName":"a.json","tables":[]},
		{"fileName":"b.json","tables":[
			{"datasheetId":"dst2","datasheetName":"b","format":"columns"},
			{"datasheetId":"dst3","datasheetName":"c","format":"column-files"}
		]}
	]`)))

	err := validate.Run(ctx, validate.Options{ConfigPath: "config.json"}, d)
	require.Error(t, err)
	assert.Equal(t, `invalid configuration:
- output "a.json": "tables" must contain at least 1 item
- output "b.json":
  - format "column-files" cannot be combined with other formats in one output, found: column-files, columns`, err.Error())
}
