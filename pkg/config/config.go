// Package config loads parrot's YAML configuration and resolves it against
// command-line flags and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/parrot/pkg/browser"
	"github.com/entrhq/parrot/pkg/cookies"
	"github.com/entrhq/parrot/pkg/explain"
	"github.com/entrhq/parrot/pkg/llm/openai"
	"github.com/entrhq/parrot/pkg/widget"
)

// Config is the complete parrot configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Widget  WidgetConfig  `yaml:"widget"`
	Cookies CookiesConfig `yaml:"cookies"`
	Browser BrowserConfig `yaml:"browser"`
	Logging LoggingConfig `yaml:"logging"`

	// Path is the file the configuration was loaded from, if any
	Path string `yaml:"-"`
}

// LLMConfig configures the explanation request.
type LLMConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`

	// Prompt is a format string with a single %s for the word
	Prompt string `yaml:"prompt"`

	// Timeout bounds one explanation request (0 = no bound)
	Timeout time.Duration `yaml:"timeout"`
}

// WidgetConfig configures the YouGlish widget and the search.
type WidgetConfig struct {
	Width        int           `yaml:"width"`
	AutoStart    bool          `yaml:"auto_start"`
	Components   int           `yaml:"components"`
	Language     string        `yaml:"language"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// CookiesConfig configures the session sanitizer.
type CookiesConfig struct {
	Domain       string `yaml:"domain"`
	PurgeOnStart bool   `yaml:"purge_on_start"`

	// PurgeOnSubmit clears the cookies again before every search
	PurgeOnSubmit bool `yaml:"purge_on_submit"`
}

// BrowserConfig configures the Chromium session hosting the widget.
type BrowserConfig struct {
	Headless       bool          `yaml:"headless"`
	ViewportWidth  int           `yaml:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height"`
	Timeout        time.Duration `yaml:"timeout"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Stderr sends logs to stderr instead of ~/.parrot/logs
	Stderr bool `yaml:"stderr"`
}

// Overrides are values given on the command line. Empty strings and nil
// pointers leave the configured value in place.
type Overrides struct {
	APIKey   string
	BaseURL  string
	Model    string
	Headless *bool
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:   openai.DefaultModel,
			Prompt:  explain.DefaultPrompt,
			Timeout: time.Minute,
		},
		Widget: WidgetConfig{
			Width:        widget.DefaultWidth,
			AutoStart:    true,
			Components:   widget.DefaultComponents,
			Language:     widget.DefaultLanguage,
			FetchTimeout: 30 * time.Second,
		},
		Cookies: CookiesConfig{
			Domain:        cookies.DefaultDomain,
			PurgeOnStart:  true,
			PurgeOnSubmit: true,
		},
		Browser: BrowserConfig{
			ViewportWidth:  browser.DefaultViewportWidth,
			ViewportHeight: browser.DefaultViewportHeight,
			Timeout:        time.Duration(browser.DefaultTimeout) * time.Millisecond,
		},
	}
}

// DefaultPath returns ~/.parrot/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".parrot", "config.yaml"), nil
}

// Load reads the configuration at path on top of the defaults. An empty path
// means DefaultPath, and a missing default file yields the defaults. A
// missing file that was named explicitly is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Path = path

	return cfg, nil
}

// Save writes cfg to path atomically. The API key is never written.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *cfg
	out.LLM.APIKey = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Temp file in the same directory so the rename stays on one filesystem
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp config file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values parrot cannot run with.
func (c *Config) Validate() error {
	if c.Widget.Width <= 0 {
		return fmt.Errorf("widget width must be positive")
	}

	if c.Widget.Components < 0 {
		return fmt.Errorf("widget components cannot be negative")
	}

	if c.Widget.Language == "" {
		return fmt.Errorf("widget language is required")
	}

	if c.Widget.FetchTimeout < 0 {
		return fmt.Errorf("widget fetch_timeout cannot be negative")
	}

	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm timeout cannot be negative")
	}

	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser timeout cannot be negative")
	}

	if c.Browser.ViewportWidth < 0 || c.Browser.ViewportHeight < 0 {
		return fmt.Errorf("browser viewport cannot be negative")
	}

	if c.Cookies.Domain == "" {
		return fmt.Errorf("cookies domain is required")
	}

	return nil
}

// Apply resolves the LLM settings with precedence
// CLI flags > environment variables > config file > defaults.
func (c *Config) Apply(o Overrides) {
	c.LLM.APIKey = firstNonEmpty(o.APIKey, os.Getenv("OPENAI_API_KEY"), c.LLM.APIKey)
	c.LLM.BaseURL = firstNonEmpty(o.BaseURL, os.Getenv("OPENAI_BASE_URL"), c.LLM.BaseURL)
	c.LLM.Model = firstNonEmpty(o.Model, c.LLM.Model, openai.DefaultModel)

	if o.Headless != nil {
		c.Browser.Headless = *o.Headless
	}
}

// WidgetOptions returns the widget construction options.
func (c *Config) WidgetOptions() widget.Options {
	return widget.Options{
		Width:      c.Widget.Width,
		AutoStart:  c.Widget.AutoStart,
		Components: c.Widget.Components,
	}
}

// SessionOptions returns the browser session options.
func (c *Config) SessionOptions() browser.SessionOptions {
	opts := browser.SessionOptions{
		Headless: c.Browser.Headless,
		Timeout:  float64(c.Browser.Timeout / time.Millisecond),
	}
	if c.Browser.ViewportWidth > 0 && c.Browser.ViewportHeight > 0 {
		opts.Viewport = &browser.Viewport{
			Width:  c.Browser.ViewportWidth,
			Height: c.Browser.ViewportHeight,
		}
	}
	return opts
}

// BuildProvider creates the OpenAI provider from the resolved LLM settings.
// Call Apply first. A missing API key is an error.
func BuildProvider(c *Config) (*openai.Provider, error) {
	if c.LLM.APIKey == "" {
		return nil, fmt.Errorf("API key is required. Set OPENAI_API_KEY environment variable, use -api-key flag, or configure llm.api_key in ~/.parrot/config.yaml")
	}

	providerOpts := []openai.ProviderOption{
		openai.WithModel(c.LLM.Model),
	}
	if c.LLM.BaseURL != "" {
		providerOpts = append(providerOpts, openai.WithBaseURL(c.LLM.BaseURL))
	}

	provider, err := openai.NewProvider(c.LLM.APIKey, providerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	return provider, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
