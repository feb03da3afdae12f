// filepath: internal/cli/config_command.go
package cli

import (
	"fmt"
	"io"
	"os"

	"streamstore/internal/config"

	"github.com/spf13/cobra"
)

var (
	configOutput string
	configForce  bool
)

// configCmd groups commands operating on the configuration file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

// configWriteCmd writes the effective configuration (file, environment and
// flags merged, defaults filled in) to a TOML file.
var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the effective configuration to a TOML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configOutput
		if path == "" {
			path = cfgFile
		}
		return runConfigWrite(cmd.OutOrStdout(), path, configForce)
	},
}

func init() {
	configWriteCmd.Flags().StringVarP(&configOutput, "output", "o", "", "Destination file. Defaults to the --config_path value.")
	configWriteCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite the destination if it exists.")
	configCmd.AddCommand(configWriteCmd)
	RootCmd.AddCommand(configCmd)
}

func runConfigWrite(out io.Writer, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; use --force to overwrite it", path)
		}
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration written to %s\n", path)
	return nil
}
