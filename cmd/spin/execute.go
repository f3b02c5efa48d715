//go:build !(js && wasm)

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/LISSConsulting/mainloop/internal/config"
	"github.com/LISSConsulting/mainloop/internal/metrics"
	"github.com/LISSConsulting/mainloop/internal/notify"
	"github.com/LISSConsulting/mainloop/internal/session"
	"github.com/LISSConsulting/mainloop/internal/store"
	"github.com/LISSConsulting/mainloop/mainloop"
)

// runOptions carries the run command's flags. The *Set fields record which
// flags were given explicitly and therefore override spin.toml.
type runOptions struct {
	steps       int
	maxSteps    int
	interval    time.Duration
	repeat      int
	failAt      int
	metricsAddr string
	noTUI       bool
	noLog       bool
	stepsSet    bool
	maxSet      bool
	intervalSet bool
}

// apply merges explicit flags into cfg.
func (o runOptions) apply(cfg *config.Config) {
	if o.stepsSet {
		cfg.Run.Steps = o.steps
	}
	if o.maxSet {
		cfg.Run.MaxSteps = o.maxSteps
	}
	if o.intervalSet {
		cfg.Run.Interval = o.interval
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}
	if o.noTUI {
		cfg.TUI.Enabled = false
	}
	if o.noLog {
		cfg.Log.Enabled = false
	}
}

// executeRun loads config, assembles the stepper and drives it with
// mainloop.Run. Run returns on native targets, so the summary below is
// always printed.
func executeRun(out io.Writer, opts runOptions) error {
	cfg, err := config.LoadOrDefaults()
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if opts.repeat < 1 {
		return fmt.Errorf("--repeat must be >= 1")
	}
	if opts.failAt < 0 {
		return fmt.Errorf("--fail-at must be >= 0")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	stop := session.NewStopRequest()
	cancelSignals := stopOnSignal(stop)
	defer cancelSignals()
	registerQuitHandler()

	rec := &session.Recorder{
		Project:  cfg.Project.Name,
		MaxSteps: plannedSteps(cfg.Run, opts.repeat),
		Stop:     stop,
		Log:      out,
	}

	var logPath string
	if cfg.Log.Enabled {
		st, err := openStore(dir, cfg.Log)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		rec.Store = st
		logPath = st.Path()
	}

	var hooks []func(session.LogEntry)

	var notifier *notify.Notifier
	if cfg.Notifications.URL != "" {
		n := cfg.Notifications
		notifier = notify.New(n.URL, cfg.Project.Name, n.OnTerminate, n.OnError, n.OnStop)
		hooks = append(hooks, notifier.Hook)
	}

	if cfg.Metrics.Addr != "" {
		collector := metrics.New(cfg.Project.Name)
		srv := metrics.NewServer(cfg.Metrics.Addr, collector)
		addr, err := srv.Start()
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		fmt.Fprintf(out, "Serving metrics on http://%s/metrics\n", addr)
		hooks = append(hooks, collector.Hook)
	}
	rec.Hook = fanOut(hooks)

	rec.Inner = stop.Wrap(buildStepper(cfg.Run, opts, rec))

	if cfg.TUI.Enabled {
		if err := runWithTUI(rec, stop, cfg.TUI.AccentColor, cfg.Project.Name); err != nil {
			return err
		}
	} else {
		runPlain(rec)
	}

	if notifier != nil && !notifier.Flush(5*time.Second) {
		fmt.Fprintln(out, "warning: some notifications were not delivered")
	}
	fmt.Fprintln(out, formatSummary(rec.Steps(), stop.Requested(), logPath))
	return nil
}

// fanOut combines recorder hooks into one; nil when there are none.
func fanOut(hooks []func(session.LogEntry)) func(session.LogEntry) {
	switch len(hooks) {
	case 0:
		return nil
	case 1:
		return hooks[0]
	}
	return func(entry session.LogEntry) {
		for _, h := range hooks {
			h(entry)
		}
	}
}

// buildStepper assembles the countdown pipeline:
// Limit(Paced(Chain(countdown...))) with an optional simulated failure.
func buildStepper(run config.RunConfig, opts runOptions, rec *session.Recorder) mainloop.Stepper {
	countdowns := make([]mainloop.Stepper, opts.repeat)
	for i := range countdowns {
		countdowns[i] = &session.Countdown{Remaining: run.Steps}
	}
	var s mainloop.Stepper = mainloop.Chain(countdowns...)
	if opts.failAt > 0 {
		s = failingAt(s, opts.failAt, rec)
	}
	s = &session.Paced{Inner: s, Interval: run.Interval}
	if run.MaxSteps > 0 {
		s = mainloop.Limit(s, run.MaxSteps)
	}
	return s
}

// failingAt makes step n of inner fail; the failure is reported through rec
// and folded into Terminate.
func failingAt(inner mainloop.Stepper, n int, rec *session.Recorder) mainloop.Stepper {
	step := 0
	return mainloop.Fallible(func() (mainloop.Event, error) {
		step++
		if step == n {
			return mainloop.Continue, fmt.Errorf("simulated failure at step %d", n)
		}
		return inner.Step(), nil
	}, func(err error) {
		rec.Errorf("%v", err)
	})
}

// plannedSteps is the number of steps the run takes when nothing fails or
// stops it early.
func plannedSteps(run config.RunConfig, repeat int) int {
	per := run.Steps
	if per < 1 {
		per = 1 // a zero countdown still takes one step to terminate
	}
	total := per * repeat
	if run.MaxSteps > 0 && run.MaxSteps < total {
		return run.MaxSteps
	}
	return total
}

// resolveLogDir expands a leading ~ and anchors relative paths at dir.
func resolveLogDir(dir, logDir string) (string, error) {
	expanded, err := homedir.Expand(logDir)
	if err != nil {
		return "", fmt.Errorf("log.dir %q: %w", logDir, err)
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(dir, expanded)
	}
	return expanded, nil
}

func openStore(dir string, lc config.LogConfig) (*store.JSONL, error) {
	logDir, err := resolveLogDir(dir, lc.Dir)
	if err != nil {
		return nil, err
	}
	st, err := store.NewJSONL(logDir)
	if err != nil {
		return nil, err
	}
	if err := store.EnforceRetention(logDir, lc.Retention); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func formatSummary(steps int, stopped bool, logPath string) string {
	var b strings.Builder
	outcome := "terminated"
	if stopped {
		outcome = "stopped"
	}
	fmt.Fprintf(&b, "Run %s after %d steps", outcome, steps)
	if logPath != "" {
		fmt.Fprintf(&b, " — session log: %s", logPath)
	}
	return b.String()
}

// showLogs prints the step summaries of a session log.
func showLogs(out io.Writer, sessionPath string) error {
	if sessionPath == "" {
		cfg, err := config.LoadOrDefaults()
		if err != nil {
			return err
		}
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		logDir, err := resolveLogDir(dir, cfg.Log.Dir)
		if err != nil {
			return err
		}
		latest, err := store.LatestSession(logDir)
		if err != nil {
			fmt.Fprintln(out, "No session logs found. Run 'spin run' first.")
			return nil
		}
		sessionPath = latest
	}

	sum, steps, err := store.ReadSession(sessionPath)
	if err != nil {
		return err
	}
	fmt.Fprint(out, formatSession(sum, steps))
	return nil
}

func formatSession(sum store.SessionSummary, steps []store.StepSummary) string {
	var b strings.Builder
	outcome := sum.Outcome
	if outcome == "" {
		outcome = "incomplete"
	}
	fmt.Fprintf(&b, "Session %s\n", sum.SessionID)
	fmt.Fprintln(&b, "────────────")
	if sum.Project != "" {
		fmt.Fprintf(&b, "  %-10s %s\n", "project:", sum.Project)
	}
	if !sum.StartedAt.IsZero() {
		fmt.Fprintf(&b, "  %-10s %s\n", "started:", sum.StartedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "  %-10s %d\n", "steps:", sum.Steps)
	fmt.Fprintf(&b, "  %-10s %s\n", "outcome:", outcome)
	for _, s := range steps {
		line := fmt.Sprintf("  #%-5d %-9s %.3fs", s.Number, s.Event, s.Duration)
		if s.Errors > 0 {
			line += fmt.Sprintf("  (%d error(s))", s.Errors)
		}
		fmt.Fprintln(&b, line)
	}
	return b.String()
}
