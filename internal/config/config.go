// Package config parses spin.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Load.
const FileName = "spin.toml"

// DefaultAccentColor is the default TUI accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level spin.toml configuration.
type Config struct {
	Project       ProjectConfig       `toml:"project"`
	Run           RunConfig           `toml:"run"`
	Log           LogConfig           `toml:"log"`
	TUI           TUIConfig           `toml:"tui"`
	Notifications NotificationsConfig `toml:"notifications"`
	Metrics       MetricsConfig       `toml:"metrics"`
}

// ProjectConfig identifies the project.
type ProjectConfig struct {
	Name string `toml:"name"`
}

// RunConfig shapes the demo countdown driven by mainloop.Run.
type RunConfig struct {
	Steps    int           `toml:"steps"`     // countdown start; the run takes this many steps
	MaxSteps int           `toml:"max_steps"` // hard cap; 0 = unlimited
	Interval time.Duration `toml:"interval"`  // pause between steps, e.g. "100ms"
}

// LogConfig controls the JSONL session log.
type LogConfig struct {
	Enabled   bool   `toml:"enabled"`
	Dir       string `toml:"dir"`
	Retention int    `toml:"retention"` // number of session logs to keep; 0 = unlimited
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	Enabled     bool   `toml:"enabled"`
	AccentColor string `toml:"accent_color"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL         string `toml:"url"`
	OnTerminate bool   `toml:"on_terminate"`
	OnError     bool   `toml:"on_error"`
	OnStop      bool   `toml:"on_stop"`
}

// MetricsConfig controls the Prometheus endpoint served during a run.
type MetricsConfig struct {
	Addr string `toml:"addr"` // listen address, e.g. "127.0.0.1:9464"; empty = disabled
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Run.Steps < 0 {
		errs = append(errs, fmt.Errorf("run.steps must be >= 0"))
	}
	if c.Run.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("run.max_steps must be >= 0 (0 = unlimited)"))
	}
	if c.Run.Interval < 0 {
		errs = append(errs, fmt.Errorf("run.interval must not be negative"))
	}

	if c.Log.Enabled && c.Log.Dir == "" {
		errs = append(errs, fmt.Errorf("log.dir must be set when log.enabled is true"))
	}
	if c.Log.Retention < 0 {
		errs = append(errs, fmt.Errorf("log.retention must be >= 0 (0 = unlimited)"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}

	if c.Notifications.URL != "" {
		u, parseErr := url.ParseRequestURI(c.Notifications.URL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
		}
	}

	if c.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			errs = append(errs, fmt.Errorf("metrics.addr must be host:port: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with the built-in defaults.
func Defaults() Config {
	return Config{
		Run: RunConfig{
			Steps:    10,
			MaxSteps: 0,
			Interval: 100 * time.Millisecond,
		},
		Log: LogConfig{
			Enabled:   true,
			Dir:       filepath.Join(".spin", "logs"),
			Retention: 20,
		},
		TUI: TUIConfig{
			Enabled:     true,
			AccentColor: DefaultAccentColor,
		},
		Notifications: NotificationsConfig{
			OnTerminate: true,
			OnError:     true,
			OnStop:      true,
		},
	}
}

// Load reads spin.toml from the given path. If path is empty, it walks up
// from the current working directory looking for spin.toml. Returns an error
// if the file contains unknown keys (likely typos) or fails validation.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}

	if cfg.Project.Name == "" {
		cfg.Project.Name = DetectProjectName(filepath.Dir(path))
	}

	return &cfg, nil
}

// LoadOrDefaults behaves like Load but falls back to Defaults when no
// spin.toml exists anywhere above the working directory.
func LoadOrDefaults() (*Config, error) {
	path, err := findConfig()
	if errors.Is(err, ErrNotFound) {
		cfg := Defaults()
		if wd, wdErr := os.Getwd(); wdErr == nil {
			cfg.Project.Name = DetectProjectName(wd)
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// ErrNotFound is returned when no spin.toml exists in the directory tree.
var ErrNotFound = errors.New("config: " + FileName + " not found")

// findConfig walks up from the current directory looking for spin.toml.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched up from %s)", ErrNotFound, dir)
		}
		dir = parent
	}
}

// InitFile writes a default spin.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	content := `# spin.toml — mainloop demo configuration
# Place this file in the root of your project.

[project]
name = ""

[run]
steps = 10         # countdown start; the run takes this many steps
max_steps = 0      # hard cap on dispatched steps; 0 = unlimited
interval = "100ms" # pause between steps

[log]
enabled = true
dir = ".spin/logs"
retention = 20     # number of session logs to keep; 0 = unlimited

[tui]
enabled = true
accent_color = "#7D56F4"  # hex color for header/accent elements

[notifications]
url = ""            # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_terminate = true # notify when the stepper terminates
on_error = true     # notify on step errors
on_stop = true      # notify when a run is stopped by request

[metrics]
addr = ""           # serve /metrics and /healthz here during a run (empty = disabled)
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

// ScaffoldProject writes spin.toml (unless present) and makes sure the log
// directory is ignored by git. Returns the list of created or modified paths.
func ScaffoldProject(dir string) ([]string, error) {
	var touched []string

	tomlPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		if _, initErr := InitFile(dir); initErr != nil {
			return touched, initErr
		}
		touched = append(touched, tomlPath)
	}

	const gitignoreEntry = ".spin/"
	gitignorePath := filepath.Join(dir, ".gitignore")
	existing, err := os.ReadFile(gitignorePath)
	switch {
	case os.IsNotExist(err):
		if writeErr := os.WriteFile(gitignorePath, []byte(gitignoreEntry+"\n"), 0644); writeErr != nil {
			return touched, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		touched = append(touched, gitignorePath)
	case err != nil:
		return touched, fmt.Errorf("scaffold: read %s: %w", gitignorePath, err)
	case !strings.Contains(string(existing), gitignoreEntry):
		content := string(existing)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content += "\n"
		}
		content += gitignoreEntry + "\n"
		if writeErr := os.WriteFile(gitignorePath, []byte(content), 0644); writeErr != nil {
			return touched, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		touched = append(touched, gitignorePath)
	}

	return touched, nil
}
