package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/songnet/am"
	"github.com/teranos/songnet/dataset"
	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/graph"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/server"
)

// ServeCmd starts the layout server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the layout server",
	Long: `Run a layout session and stream it to browsers over WebSocket.

The dataset comes from --data or data.path in am.toml. It may be a local
.json, .yaml or .toml file or an http(s) URL. With --watch a local file is
reloaded whenever it changes.

Endpoints:
  /ws          WebSocket: layout, filter, sort, search, hover, reload
  /api/graph   JSON snapshot of what is drawn
  /api/status  Session status
  /health      Liveness and client count`,
	RunE: runServe,
}

var (
	serveData  string
	servePort  int
	serveWatch bool
)

func init() {
	ServeCmd.Flags().StringVar(&serveData, "data", "", "Dataset path or URL (overrides data.path)")
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides server.port)")
	ServeCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the dataset when the file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		// The server reports startup and client activity by default
		verbosity = logger.VerbosityInfo
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.SetTheme(cfg.GetServerLogTheme())
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	src := serveData
	if src == "" {
		src = cfg.Data.Path
	}
	watch := serveWatch || cfg.Data.Watch

	// The server tees the global logger, so it is created before anything
	// that takes a component logger
	srv := server.New(server.OptionsFromConfig(cfg))

	sess, err := startSession(cfg, 0, srv)
	if err != nil {
		return err
	}
	defer sess.Stop()
	srv.Attach(sess)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if src != "" {
		srv.SetLoader(func(ctx context.Context) (graph.RawData, error) {
			return dataset.Open(ctx, src)
		})
		if err := loadDataset(ctx, sess, src); err != nil {
			return err
		}
		if watch {
			startDatasetWatch(ctx, sess, src)
		}
	} else {
		pterm.Warning.Println("No dataset configured. Set --data or data.path, clients will see an empty canvas.")
	}

	if path := am.ActiveConfigFile(); path != "" {
		if cw, err := am.NewConfigWatcher(path); err != nil {
			logger.Warnw("Config hot reload disabled", logger.FieldPath, path, logger.FieldError, err)
		} else {
			cw.OnReload(func(c *am.Config) error {
				logger.SetTheme(c.GetServerLogTheme())
				return nil
			})
			cw.Start()
			defer cw.Stop()
		}
	}

	if logger.ShouldOutput(verbosity, logger.OutputStartup) {
		printStartupBanner(verbosity, cfg.Address(), src, watch)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe(cfg.Address())
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return errors.Wrap(err, "server stopped")
	case <-sigChan:
		pterm.Info.Println("Shutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			pterm.Warning.Println("Force shutdown - exiting immediately")
			os.Exit(1)
			return nil
		}
	}
}

// startDatasetWatch feeds every valid change of a local dataset into the
// session until ctx is cancelled
func startDatasetWatch(ctx context.Context, sess *runningSession, src string) {
	if dataset.IsRemote(src) {
		pterm.Warning.Printf("--watch ignored for remote dataset %s\n", src)
		return
	}
	go func() {
		err := dataset.Watch(ctx, src, func(raw graph.RawData) {
			if err := sess.UpdateData(raw); err != nil {
				logger.Warnw("Dataset reload rejected", logger.FieldPath, src, logger.FieldError, err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorw("Dataset watch stopped", logger.FieldPath, src, logger.FieldError, err)
		}
	}()
}
