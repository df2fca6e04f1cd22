package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/teranos/songnet/am"
	"github.com/teranos/songnet/dataset"
	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/session"
)

// headlessTick drives the engine as fast as the loop allows when nothing
// is watching the frames
const headlessTick = time.Millisecond

// runningSession is a session whose loop is running in the background
type runningSession struct {
	*session.Session
	cancel context.CancelFunc
}

// Stop ends the loop and waits for it to exit
func (r *runningSession) Stop() {
	r.cancel()
	<-r.Done()
}

// startSession builds a session from cfg and starts its loop. tick overrides
// the configured step interval when non-zero.
func startSession(cfg *am.Config, tick time.Duration, pipelines ...render.Pipeline) (*runningSession, error) {
	opts := session.OptionsFromConfig(cfg)
	if tick > 0 {
		opts.TickInterval = tick
	}
	opts.Pipelines = pipelines

	sess, err := session.New(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorw("Session loop stopped", logger.FieldError, err)
		}
	}()
	return &runningSession{Session: sess, cancel: cancel}, nil
}

// loadDataset reads src (a path or an http(s) URL) into the session
func loadDataset(ctx context.Context, sess *runningSession, src string) error {
	raw, err := dataset.Open(ctx, src)
	if err != nil {
		return err
	}
	if err := sess.UpdateData(raw); err != nil {
		return errors.Wrapf(err, "failed to load %s", src)
	}
	return nil
}

// loadConfig loads and validates the configuration
func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration is invalid")
	}
	return cfg, nil
}

// commandContext is cmd's context, or Background when it runs outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
