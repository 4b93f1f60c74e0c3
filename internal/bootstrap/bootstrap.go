package bootstrap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/five82/froggi-ocr/internal/config"
	"github.com/five82/froggi-ocr/internal/froggi"
	"github.com/five82/froggi-ocr/internal/ui"
)

const (
	httpsPrefix = "https://"
	httpPrefix  = "http://"
	declineWord = "n"
)

// Options configure a Bootstrapper.
type Options struct {
	In         io.Reader
	Out        io.Writer
	ConfigPath string       // empty uses config.DefaultPath
	Theme      string
	HTTPClient *http.Client // nil uses a client without overall timeout
	Logger     *slog.Logger // optional
}

// Bootstrapper walks an operator through choosing a froggi URL and API key
// and writes the resulting configuration.
type Bootstrapper struct {
	in         *bufio.Reader
	out        io.Writer
	styles     ui.Styles
	configPath string
	httpClient *http.Client
	logger     *slog.Logger
}

// New builds a Bootstrapper reading operator answers from opts.In.
func New(opts Options) (*Bootstrapper, error) {
	if opts.In == nil || opts.Out == nil {
		return nil, fmt.Errorf("bootstrap requires input and output streams")
	}
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = config.DefaultPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	theme := ui.GetTheme(opts.Theme)
	logger.Debug("bootstrap console theme", "theme", theme.Name)
	return &Bootstrapper{
		in:         bufio.NewReader(opts.In),
		out:        opts.Out,
		styles:     theme.Styles(opts.Out),
		configPath: path,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}, nil
}

// Run acquires a reachable froggi URL, then a valid API key, and saves the
// configuration. Both acquisition loops retry without limit; ctx is checked
// before every attempt.
func (b *Bootstrapper) Run(ctx context.Context) (config.Config, error) {
	if err := b.say(b.styles.AccentText.Render("It looks like froggi-ocr hasn't been set up yet, starting config process now...") +
		"\n" + b.styles.Text.Render("Ensure froggi is LAN or WAN accessible and type in its URL") + "\n\n"); err != nil {
		return config.Config{}, err
	}

	client, err := b.acquireURL(ctx)
	if err != nil {
		return config.Config{}, err
	}

	if err := b.say(b.styles.Text.Render("What is the API key for froggi?") + "\n\n"); err != nil {
		return config.Config{}, err
	}
	key, err := b.acquireKey(ctx, client)
	if err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	cfg.FroggiURL = client.BaseURL()
	cfg.APIKey = key
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if err := b.say(b.styles.Text.Render(fmt.Sprintf("Writing config to %s...", b.configPath)) + "\n"); err != nil {
		return config.Config{}, err
	}
	if err := config.Save(b.configPath, cfg); err != nil {
		return config.Config{}, fmt.Errorf("save config: %w", err)
	}
	if err := b.say(b.styles.SuccessText.Render("Config written successfully!") + "\n"); err != nil {
		return config.Config{}, err
	}
	b.logger.Info("configuration written", "path", b.configPath, "froggi_url", cfg.FroggiURL)
	return cfg, nil
}

// acquireURL loops until a candidate URL answers the HEAD probe with 200.
func (b *Bootstrapper) acquireURL(ctx context.Context) (*froggi.Client, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := b.readLine()
		if err != nil {
			return nil, err
		}

		keepHTTP := false
		note := ""
		switch {
		case strings.HasPrefix(raw, httpsPrefix):
		case strings.HasPrefix(raw, httpPrefix):
			keepHTTP, err = b.confirmHTTP()
			if err != nil {
				return nil, err
			}
			note = "Using https"
			if keepHTTP {
				note = b.styles.WarningText.Render("Using http anyway")
			}
		default:
			note = fmt.Sprintf("Using https (%s)", NormalizeURL(raw, false))
		}
		if note != "" {
			if err := b.say(note + "\n"); err != nil {
				return nil, err
			}
		}

		client, ok, err := b.probe(ctx, NormalizeURL(raw, keepHTTP))
		if err != nil {
			return nil, err
		}
		if ok {
			return client, nil
		}
	}
}

// probe reports whether candidate answered 200. Transport failures are not
// fatal here; only output failures are returned as errors.
func (b *Bootstrapper) probe(ctx context.Context, candidate string) (*froggi.Client, bool, error) {
	if err := b.say(b.styles.MutedText.Render("Testing connection with froggi...") + "\n"); err != nil {
		return nil, false, err
	}

	client, err := froggi.NewClient(candidate, froggi.WithHTTPClient(b.httpClient))
	var reply froggi.Reply
	if err == nil {
		reply, err = client.Probe(ctx)
	}
	if err != nil {
		b.logger.Debug("froggi probe failed", "url", candidate, "error", err)
		return nil, false, b.say(b.styles.DangerText.Render(fmt.Sprintf("Could not reach froggi (%v), try again", err)) + "\n\n")
	}
	if !reply.OK() {
		b.logger.Debug("froggi probe rejected", "url", candidate, "status", reply.Status)
		return nil, false, b.say(b.styles.DangerText.Render("Connection with froggi unsuccessful, try again") + "\n\n")
	}
	return client, true, b.say(b.styles.SuccessText.Render("Connection with froggi successful! Adding to config...") + "\n\n")
}

// confirmHTTP warns about plain http and reports whether the operator
// declined the upgrade. Only an exact "n" declines.
func (b *Bootstrapper) confirmHTTP() (bool, error) {
	warning := "It looks like the url uses http (unencrypted) instead of https (encrypted). " +
		"Sending API keys over http is discouraged and a bad security practice. " +
		"Unless this is 100% intentional, https should be used."
	if err := b.say(b.styles.WarningText.Render(warning) + "\nSwitch to https? (Y or n)\n\n"); err != nil {
		return false, err
	}
	answer, err := b.readLine()
	if err != nil {
		return false, err
	}
	return answer == declineWord, nil
}

// acquireKey loops until froggi accepts a key. A transport failure while
// checking is fatal, unlike the URL probe.
func (b *Bootstrapper) acquireKey(ctx context.Context, client *froggi.Client) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		key, err := b.readLine()
		if err != nil {
			return "", err
		}

		if err := b.say(b.styles.MutedText.Render("Testing API key...") + "\n"); err != nil {
			return "", err
		}
		reply, err := client.CheckKey(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check api key with froggi: %w", err)
		}
		if reply.OK() {
			if err := b.say(b.styles.SuccessText.Render("API key valid! Adding to config...") + "\n\n"); err != nil {
				return "", err
			}
			return key, nil
		}
		b.logger.Debug("api key rejected", "status", reply.Status)
		if err := b.say(b.styles.DangerText.Render("API key invalid, try again") + "\n\n"); err != nil {
			return "", err
		}
	}
}

// readLine returns the next trimmed line. A final line without a newline is
// still returned; running out of input is an error.
func (b *Bootstrapper) readLine() (string, error) {
	line, err := b.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("read operator input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (b *Bootstrapper) say(text string) error {
	if _, err := io.WriteString(b.out, text); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}
	return nil
}

// NormalizeURL applies the scheme rules to an operator-typed URL: https is
// kept, http is upgraded unless keepHTTP is set, and a bare host gets https.
func NormalizeURL(raw string, keepHTTP bool) string {
	switch {
	case strings.HasPrefix(raw, httpsPrefix):
		return raw
	case strings.HasPrefix(raw, httpPrefix):
		if keepHTTP {
			return raw
		}
		_, rest, _ := strings.Cut(raw, "://")
		return "https://" + rest
	default:
		return httpsPrefix + raw
	}
}
