package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the persisted relay configuration.
type Config struct {
	APIKey           string `toml:"api_key"`
	OCRURL           string `toml:"ocr_url"`
	FroggiURL        string `toml:"froggi_url"`
	UpdatesPerSecond uint8  `toml:"updates_per_second"`
}

const (
	// DefaultPath is the configuration artifact location, relative to the
	// working directory.
	DefaultPath = "./config.toml"

	// DefaultOCRURL is the local OCR source endpoint.
	DefaultOCRURL = "http://localhost:18099/json?pivot"

	// DefaultUpdatesPerSecond is the poll cadence written by bootstrap.
	DefaultUpdatesPerSecond uint8 = 5

	relayPath = "/ocr"
)

// Default returns a Config with the OCR source and cadence filled in.
func Default() Config {
	return Config{
		OCRURL:           DefaultOCRURL,
		UpdatesPerSecond: DefaultUpdatesPerSecond,
	}
}

// RelayURL is the endpoint OCR payloads are posted to.
func (c Config) RelayURL() string {
	return c.FroggiURL + relayPath
}

// Period returns the target duration of one poll cycle.
func (c Config) Period() time.Duration {
	if c.UpdatesPerSecond == 0 {
		return 0
	}
	return time.Second / time.Duration(c.UpdatesPerSecond)
}

// Validate reports the first field that would make the relay loop unusable.
func (c Config) Validate() error {
	if c.UpdatesPerSecond < 1 {
		return fmt.Errorf("updates_per_second must be at least 1")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("api_key is empty")
	}
	if err := checkURL("froggi_url", c.FroggiURL); err != nil {
		return err
	}
	if err := checkURL("ocr_url", c.OCRURL); err != nil {
		return err
	}
	return nil
}

func checkURL(field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s is empty", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s %q must use http or https", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s %q has no host", field, raw)
	}
	return nil
}

func decode(r io.Reader) (Config, error) {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.FroggiURL = strings.TrimRight(strings.TrimSpace(cfg.FroggiURL), "/")
	cfg.OCRURL = strings.TrimSpace(cfg.OCRURL)
	if cfg.OCRURL == "" {
		cfg.OCRURL = DefaultOCRURL
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed. The file
// holds the API key so it is only readable by its owner.
func Save(path string, cfg Config) error {
	resolved := resolvePath(path)

	if dir := filepath.Dir(resolved); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	bytes, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Startup is the outcome of looking for the configuration artifact.
type Startup struct {
	// Config is only meaningful when NeedsBootstrap is false.
	Config         Config
	NeedsBootstrap bool
}

// Ready wraps a loaded configuration.
func Ready(cfg Config) Startup {
	return Startup{Config: cfg}
}

// Inspect decides between bootstrap and relay mode. A file that cannot be
// opened selects bootstrap; a file that opens but is malformed is an error.
func Inspect(path string) (Startup, error) {
	file, err := os.Open(resolvePath(path))
	if err != nil {
		return Startup{NeedsBootstrap: true}, nil
	}
	defer func() { _ = file.Close() }()

	cfg, err := decode(file)
	if err != nil {
		return Startup{}, err
	}
	return Ready(cfg), nil
}

func resolvePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return DefaultPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
		}
	}
	return trimmed
}
