package cli

import (
	"github.com/spf13/cobra"

	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
	"github.com/datasheet-tools/settings-generator/pkg/lib/operation/settings/validate"
)

const validateShortDescription = `Validate the configuration file`

const validateLongDescription = `Command "validate"

Validate the configuration file without fetching any data.
Required fields, format names and combinations of formats are checked.
`

func validateCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: validateShortDescription,
		Long:  validateLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := validate.Options{ConfigPath: root.options.GetString(configOpt)}
			if o.ConfigPath == "" {
				return errors.Errorf(`missing configuration file, please use the "--%s" flag`, configOpt)
			}
			return validate.Run(cmd.Context(), o, root.Dependencies())
		},
	}

	cmd.Flags().StringP(configOpt, "c", "", "path to the configuration file")
	return cmd
}
