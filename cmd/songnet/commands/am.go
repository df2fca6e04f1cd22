package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/songnet/am"
	"github.com/teranos/songnet/errors"
	"gopkg.in/yaml.v3"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage songnet configuration",
	Long: `am - Manage songnet configuration ("I am")

Configuration sources (later overrides earlier):
  1. Built-in defaults
  2. /etc/songnet/am.toml
  3. ~/.songnet/am.toml
  4. ./am.toml (searched up from the working directory)
  5. SONGNET_* environment variables (SONGNET_SERVER_PORT -> server.port)

Examples:
  songnet am show                 # Show current configuration
  songnet am show --format json   # Show configuration in JSON format
  songnet am get canvas.width     # Get one value
  songnet am validate             # Validate current configuration
  songnet am sources              # Show where each value came from`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := am.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}
		return writeConfig(cmd.OutOrStdout(), cfg, configFormat)
	},
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a configuration value using dot notation (e.g., canvas.width, server.port)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !am.GetViper().IsSet(key) {
			return errors.Newf("configuration key %q not found", key)
		}
		fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
		return nil
	},
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		pterm.Success.Println("Configuration is valid")
		return nil
	},
}

var amSourcesCmd = &cobra.Command{
	Use:     "sources",
	Aliases: []string{"where"},
	Short:   "Show where each configuration value is loaded from",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := [][]string{{"Key", "Value", "Source", "From"}}
		for _, s := range am.GetConfigIntrospection() {
			rows = append(rows, []string{s.Key, fmt.Sprintf("%v", s.Value), string(s.Source), s.SourcePath})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amSourcesCmd)
}

// writeConfig marshals cfg in the given format
func writeConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		_, err = fmt.Fprintf(w, "# songnet configuration\n%s", data)
		return err

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		_, err = fmt.Fprintf(w, "# songnet configuration\n%s", data)
		return err

	default:
		return errors.WithHint(
			errors.Newf("unsupported format: %s", format),
			"supported formats are toml, json and yaml",
		)
	}
}
