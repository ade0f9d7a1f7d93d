package cli

import (
	"github.com/spf13/cobra"

	"github.com/datasheet-tools/settings-generator/internal/pkg/api/datasheet"
	"github.com/datasheet-tools/settings-generator/internal/pkg/dependencies"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
	"github.com/datasheet-tools/settings-generator/pkg/lib/operation/settings/generate"
)

const (
	configOpt       = "config"
	dryRunOpt       = "dry-run"
	fetchWorkersOpt = "fetch-workers"
)

const generateShortDescription = `Generate settings files from datasheets`

const generateLongDescription = `Command "generate"

Fetch records of all datasheets defined in the configuration file,
transform them and write the output files.

Output formats: array, rows, columns, column-files, properties-files.
`

func generateCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: generateShortDescription,
		Long:  generateLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := generate.Options{
				ConfigPath:   root.options.GetString(configOpt),
				DryRun:       root.options.GetBool(dryRunOpt),
				FetchWorkers: root.options.GetInt(fetchWorkersOpt),
			}
			if o.ConfigPath == "" {
				return errors.Errorf(`missing configuration file, please use the "--%s" flag`, configOpt)
			}
			return generate.Run(cmd.Context(), o, root.Dependencies())
		},
	}

	cmd.Flags().SortFlags = true
	cmd.Flags().StringP(configOpt, "c", "", "path to the configuration file")
	cmd.Flags().StringP(dependencies.TokenOpt, "t", "", "APITable API token")
	cmd.Flags().String(dependencies.HostOpt, datasheet.DefaultHost, "APITable API host")
	cmd.Flags().Bool(dryRunOpt, false, "only log the files that would be written")
	cmd.Flags().Int(fetchWorkersOpt, generate.DefaultFetchWorkers, "number of datasheets fetched in parallel")
	return cmd
}
