package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/teranos/songnet/cmd/songnet/commands"
	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/logger"
)

var rootCmd = &cobra.Command{
	Use:   "songnet",
	Short: "songnet - interactive song network layouts",
	Long: `songnet - force-directed and radial layouts of a song network.

Songs are nodes sized by playcount, links are similarities between songs.
The layout runs on the server and is streamed to browsers over WebSocket.

Available commands:
  serve    - Start the layout server
  layout   - Settle a layout headlessly and print positions
  console  - Drive a layout session from an interactive prompt
  am       - Show or validate configuration ("I am")
  version  - Show build information

Examples:
  songnet serve --data songs.json --watch
  songnet layout songs.yaml --mode radial --filter popular
  songnet console songs.toml
  songnet am show --format yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// am show prints config to stdout, keep it free of log lines
		if cmd.Name() == "show" {
			return nil
		}
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON instead of the console format")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.LayoutCmd)
	rootCmd.AddCommand(commands.ConsoleCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
