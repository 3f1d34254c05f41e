package cli

import (
	"github.com/spf13/cobra"
)

// profileCommand creates the profile command, which prints the machine
// profile convert would use.
func (c *CLI) profileCommand() *cobra.Command {
	var config string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the effective machine profile as TOML",
		Long: `Print the machine profile used by convert as TOML.

Without --config the profile is read from $XDG_CONFIG_HOME/dpvgen/machine.toml
(~/.config/dpvgen/machine.toml) when present, otherwise the built-in defaults
are printed. Redirect the output into that file to start a custom profile:

  dpvgen profile > ~/.config/dpvgen/machine.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, source, err := resolveProfile(config)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("machine profile", "source", source)
			return prof.WriteTOML(c.Out)
		},
	}

	cmd.Flags().StringVar(&config, "config", "", "machine profile to load")
	return cmd
}
