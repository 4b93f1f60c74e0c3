package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/five82/froggi-ocr/internal/bootstrap"
	"github.com/five82/froggi-ocr/internal/config"
	"github.com/five82/froggi-ocr/internal/metrics"
	"github.com/five82/froggi-ocr/internal/relay"
	"github.com/five82/froggi-ocr/internal/state"
)

// Options configure the froggi-ocr agent.
type Options struct {
	ConfigPath string    // empty uses ./config.toml
	StatusAddr string    // empty disables the status server
	Theme      string    // empty uses the default console theme
	In         io.Reader // nil uses os.Stdin
	Out        io.Writer // nil uses os.Stdout
	Logger     *slog.Logger
}

// Run either bootstraps a configuration and returns, or relays until ctx is
// cancelled, depending on whether the configuration file exists.
func Run(ctx context.Context, opts Options) error {
	opts = withDefaults(opts)

	startup, err := config.Inspect(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if startup.NeedsBootstrap {
		opts.Logger.Debug("no configuration found, starting bootstrap", "path", opts.ConfigPath)
		return runBootstrap(ctx, opts)
	}
	return runRelay(ctx, startup.Config, opts)
}

func withDefaults(opts Options) Options {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return opts
}

func runBootstrap(ctx context.Context, opts Options) error {
	b, err := bootstrap.New(bootstrap.Options{
		In:         opts.In,
		Out:        opts.Out,
		ConfigPath: opts.ConfigPath,
		Theme:      opts.Theme,
		Logger:     opts.Logger,
	})
	if err != nil {
		return fmt.Errorf("init bootstrap: %w", err)
	}
	if _, err := b.Run(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	return nil
}

func runRelay(ctx context.Context, cfg config.Config, opts Options) error {
	var (
		store *state.Store
		rec   *metrics.Recorder
	)
	if opts.StatusAddr != "" {
		store = &state.Store{}
		rec = metrics.NewRecorder()
	}

	loop, err := relay.New(relay.Options{
		Config:  cfg,
		Out:     opts.Out,
		Theme:   opts.Theme,
		Store:   store,
		Metrics: rec,
		Logger:  opts.Logger,
	})
	if err != nil {
		return fmt.Errorf("init relay: %w", err)
	}

	if opts.StatusAddr != "" {
		stop, err := startStatusServer(opts.StatusAddr, store, rec, opts.Logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	return loop.Run(ctx)
}
