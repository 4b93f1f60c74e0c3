package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/froggi-ocr/internal/app"
	"github.com/five82/froggi-ocr/internal/config"
	"github.com/five82/froggi-ocr/internal/prefs"
	"github.com/five82/froggi-ocr/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "froggi-ocr: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	var (
		opts      app.Options
		prefsPath string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "froggi-ocr",
		Short: "Relay local OCR output to froggi",
		Long: "froggi-ocr polls a local OCR service and forwards each result to froggi.\n\n" +
			"On first start, when the config file does not exist, it asks for the froggi URL\n" +
			"and API key, checks both, writes the config file and exits.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if opts.Theme == "" {
				opts.Theme = prefs.Load(prefsPath).Theme
			}
			opts.In = cmd.InOrStdin()
			opts.Out = cmd.OutOrStdout()
			return app.Run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ConfigPath, "config", config.DefaultPath, "path to the config file")
	f.StringVar(&opts.StatusAddr, "status-addr", "", "listen address for /metrics and /status (empty disables)")
	f.StringVar(&opts.Theme, "theme", "",
		"console colour theme ("+strings.Join(ui.ThemeNames(), ", ")+"), overrides prefs")
	f.StringVar(&prefsPath, "prefs", prefs.DefaultPath(), "path to the preferences file")
	f.BoolVarP(&verbose, "verbose", "v", false, "log debug diagnostics to stderr")

	return cmd
}
