package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/five82/froggi-ocr/internal/config"
	"github.com/five82/froggi-ocr/internal/froggi"
	"github.com/five82/froggi-ocr/internal/metrics"
	"github.com/five82/froggi-ocr/internal/ocr"
	"github.com/five82/froggi-ocr/internal/state"
	"github.com/five82/froggi-ocr/internal/ui"
)

// errStopped ends Run cleanly when ctx is cancelled mid-cycle.
var errStopped = errors.New("relay stopped")

// Options configure a Loop.
type Options struct {
	Config     config.Config
	Out        io.Writer
	Theme      string
	HTTPClient *http.Client      // nil uses a client without timeout
	Store      *state.Store      // optional
	Metrics    *metrics.Recorder // optional
	Logger     *slog.Logger      // optional
}

// Loop fetches from the OCR source and relays to froggi at a fixed cadence.
type Loop struct {
	ocr     *ocr.Client
	froggi  *froggi.Client
	period  time.Duration
	out     *bufio.Writer
	theme   string
	styles  ui.Styles
	store   *state.Store
	metrics *metrics.Recorder
	logger  *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Loop from a validated configuration.
func New(opts Options) (*Loop, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("relay config: %w", err)
	}
	if opts.Out == nil {
		return nil, fmt.Errorf("relay requires an output stream")
	}

	source, err := ocr.NewClient(opts.Config.OCRURL, opts.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("init ocr client: %w", err)
	}
	target, err := froggi.NewClient(opts.Config.FroggiURL,
		froggi.WithAPIKey(opts.Config.APIKey),
		froggi.WithHTTPClient(opts.HTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("init froggi client: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	theme := ui.GetTheme(opts.Theme)

	return &Loop{
		ocr:     source,
		froggi:  target,
		period:  opts.Config.Period(),
		out:     bufio.NewWriter(opts.Out),
		theme:   theme.Name,
		styles:  theme.Styles(opts.Out),
		store:   opts.Store,
		metrics: opts.Metrics,
		logger:  logger,
		now:     time.Now,
		sleep:   sleepContext,
	}, nil
}

// Run repeats cycles until ctx is cancelled, which returns nil. Any other
// return is fatal: an unreadable OCR body or a broken output stream.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("relay loop started",
		"ocr_url", l.ocr.URL(),
		"relay_url", l.froggi.RelayURL(),
		"period", l.period,
		"theme", l.theme,
	)

	for n := uint64(1); ; n++ {
		if ctx.Err() != nil {
			return nil
		}

		start := l.now()
		outcome, err := l.cycle(ctx, n)
		if errors.Is(err, errStopped) {
			return nil
		}
		if err != nil {
			return err
		}
		elapsed := l.now().Sub(start)
		outcome.Elapsed = elapsed
		if l.store != nil {
			l.store.Record(outcome)
		}
		l.metrics.CycleFinished(elapsed, l.period)

		if elapsed >= l.period {
			l.logger.Debug("cycle overran period", "cycle", n, "elapsed", elapsed, "period", l.period)
			continue
		}
		wait := l.period - elapsed
		l.logger.Debug("cycle finished", "cycle", n, "elapsed", elapsed, "wait", wait)
		if err := l.sleep(ctx, wait); err != nil {
			return nil
		}
	}
}

// cycle runs one fetch-then-relay pass and flushes its report. Transport
// failures are reported and end up in the outcome; a returned error is fatal.
func (l *Loop) cycle(ctx context.Context, n uint64) (state.Outcome, error) {
	l.metrics.CycleStarted()
	outcome := state.Outcome{Cycle: n}

	if err := l.printf("\n%s\n", l.styles.MutedText.Render(fmt.Sprintf("(%d)", n))); err != nil {
		return outcome, err
	}

	resp, err := l.ocr.Fetch(ctx)
	if err != nil {
		l.metrics.FetchFailed()
		outcome.Err = err
		if err := l.printf("%s\n", l.styles.DangerText.Render(err.Error())); err != nil {
			return outcome, err
		}
		return outcome, l.flush()
	}

	outcome.OCRStatus = resp.Status
	if err := l.printf("%s from %s\nSending OCR data to %s\n",
		l.styles.Status(resp.StatusCode, resp.Status),
		l.ocr.URL(),
		l.froggi.RelayURL(),
	); err != nil {
		_ = resp.Close()
		return outcome, err
	}

	payload, err := resp.Text()
	if err != nil {
		_ = l.out.Flush()
		if ctx.Err() != nil {
			return outcome, errStopped
		}
		return outcome, fmt.Errorf("read ocr response body: %w", err)
	}

	reply, err := l.froggi.Relay(ctx, payload)
	if err != nil {
		l.metrics.RelayFailed()
		outcome.Err = err
		if err := l.printf("%s\n", l.styles.DangerText.Render(err.Error())); err != nil {
			return outcome, err
		}
		return outcome, l.flush()
	}

	l.metrics.RelayAnswered(reply.StatusCode)
	outcome.RelayStatus = reply.Status
	if err := l.printf("%s from %s\n", l.styles.Status(reply.StatusCode, reply.Status), l.froggi.RelayURL()); err != nil {
		return outcome, err
	}
	return outcome, l.flush()
}

func (l *Loop) printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(l.out, format, args...); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

func (l *Loop) flush() error {
	if err := l.out.Flush(); err != nil {
		return fmt.Errorf("flush status output: %w", err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
