// Package main provides parrot, a terminal vocabulary helper. A submitted
// English word is explained by a language model while YouGlish plays real
// pronunciations of it in a browser window, replaying each caption before
// moving to the next video.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/parrot/pkg/browser"
	appconfig "github.com/entrhq/parrot/pkg/config"
	"github.com/entrhq/parrot/pkg/cookies"
	"github.com/entrhq/parrot/pkg/executor/cli"
	"github.com/entrhq/parrot/pkg/executor/tui"
	"github.com/entrhq/parrot/pkg/explain"
	"github.com/entrhq/parrot/pkg/llm/openai"
	"github.com/entrhq/parrot/pkg/logging"
	"github.com/entrhq/parrot/pkg/popup"
	"github.com/entrhq/parrot/pkg/widget/youglish"
)

const (
	version     = "0.1.0"
	sessionName = "parrot"
)

// Flags holds the command-line configuration
type Flags struct {
	ConfigFile  string
	APIKey      string
	BaseURL     string
	Model       string
	Headless    bool
	LineMode    bool
	ShowVersion bool
	InitConfig  bool

	headlessSet bool
}

func main() {
	flags := parseFlags()

	if flags.ShowVersion {
		fmt.Printf("parrot v%s\n", version)
		return
	}

	if flags.InitConfig {
		path, err := initConfig(flags.ConfigFile)
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
		return
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	provider, err := appconfig.BuildProvider(cfg)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := newLogger(cfg)
	defer logger.Close()

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Infof("signal received, shutting down")
		cancel()
	}()

	if runErr := run(ctx, cfg, provider, logger, flags.LineMode); runErr != nil {
		cancel()
		logger.Errorf("application error: %v", runErr)
		log.Fatalf("Application error: %v", runErr)
	}
}

// parseFlags parses command line flags
func parseFlags() *Flags {
	flags := &Flags{}

	flag.StringVar(&flags.ConfigFile, "config", "", "Path to configuration file (default: ~/.parrot/config.yaml)")
	flag.StringVar(&flags.APIKey, "api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	flag.StringVar(&flags.BaseURL, "base-url", "", "OpenAI API base URL (or set OPENAI_BASE_URL env var)")
	flag.StringVar(&flags.Model, "model", "", fmt.Sprintf("LLM model to use (default: %s)", openai.DefaultModel))
	flag.BoolVar(&flags.Headless, "headless", false, "Run the browser without a window (videos still play)")
	flag.BoolVar(&flags.LineMode, "cli", false, "Use the line-oriented interface instead of the TUI")
	flag.BoolVar(&flags.ShowVersion, "version", false, "Show version and exit")
	flag.BoolVar(&flags.InitConfig, "init-config", false, "Write a default configuration file and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "parrot - learn English words by explanation and repetition\n\n")
		fmt.Fprintf(os.Stderr, "Usage: parrot [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY     OpenAI API key\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_BASE_URL    OpenAI API base URL (for compatible APIs)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  parrot\n")
		fmt.Fprintf(os.Stderr, "  parrot -model gpt-4o-mini\n")
		fmt.Fprintf(os.Stderr, "  parrot -cli -config ./parrot.yaml\n")
	}

	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			flags.headlessSet = true
		}
	})

	return flags
}

// loadConfig reads the configuration file and applies flags and environment.
func loadConfig(flags *Flags) (*appconfig.Config, error) {
	cfg, err := appconfig.Load(flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	overrides := appconfig.Overrides{
		APIKey:  flags.APIKey,
		BaseURL: flags.BaseURL,
		Model:   flags.Model,
	}
	if flags.headlessSet {
		overrides.Headless = &flags.Headless
	}
	cfg.Apply(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initConfig writes the default configuration unless a file already exists.
func initConfig(path string) (string, error) {
	if path == "" {
		p, err := appconfig.DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := appconfig.Save(appconfig.DefaultConfig(), path); err != nil {
		return "", err
	}
	return path, nil
}

func newLogger(cfg *appconfig.Config) *logging.Logger {
	if cfg.Logging.Stderr {
		return logging.New("parrot", os.Stderr)
	}
	// On failure NewLogger already falls back to stderr and says so
	logger, _ := logging.NewLogger("parrot")
	return logger
}

// run starts the browser, loads the widget, purges the YouGlish cookies and
// hands control to the chosen interface.
func run(ctx context.Context, cfg *appconfig.Config, provider *openai.Provider, logger *logging.Logger, lineMode bool) error {
	logger.Infof("parrot v%s starting (model=%s, base_url=%s)", version, provider.GetModel(), provider.GetBaseURL())

	manager := browser.NewSessionManager()
	if err := manager.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := manager.Shutdown(); err != nil {
			logger.Warnf("browser shutdown: %v", err)
		}
	}()

	session, err := manager.StartSession(sessionName, cfg.SessionOptions())
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}

	panels := popup.NewPanels()

	yg := youglish.New(session.Page, cfg.WidgetOptions(), logger.With("widget"))
	if err := yg.Start(ctx); err != nil {
		return err
	}

	// The widget script has run by now, so the site's cookies are in the jar
	sanitizer := cookies.NewSanitizer(cookies.NewPlaywrightStore(session.Context), logger.With("cookies"))
	domain, err := cookies.RegistrableDomain(cfg.Cookies.Domain)
	if err != nil {
		logger.Warnf("cookie domain %q: %v", cfg.Cookies.Domain, err)
		panels.SetMessage(err.Error())
	} else if cfg.Cookies.PurgeOnStart {
		panels.SetMessage(purgeCookies(ctx, sanitizer, domain, logger))
	}

	requester := explain.NewRequester(provider,
		explain.WithPrompt(cfg.LLM.Prompt),
		explain.WithTimeout(cfg.LLM.Timeout),
		explain.WithLogger(logger.With("explain")),
	)

	orchOpts := []popup.Option{
		popup.WithLanguage(cfg.Widget.Language),
		popup.WithFetchTimeout(cfg.Widget.FetchTimeout),
		popup.WithLogger(logger.With("popup")),
	}
	if cfg.Cookies.PurgeOnSubmit && domain != "" {
		orchOpts = append(orchOpts, popup.WithCookiePurge(sanitizer, domain))
	}

	orch := popup.New(requester, yg, panels, orchOpts...)
	defer orch.Close()

	if lineMode {
		err = cli.NewExecutor(orch, panels).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	return tui.NewExecutor(orch, panels, tui.WithLogger(logger.With("tui"))).Run(ctx)
}

// purgeCookies removes domain's cookies and returns the outcome as a
// user-facing message. Failures never stop startup.
func purgeCookies(ctx context.Context, sanitizer *cookies.Sanitizer, domain string, logger *logging.Logger) string {
	result, err := sanitizer.Purge(ctx, domain)
	if err != nil {
		logger.Warnf("cookie purge for %s: %v", domain, err)
		return err.Error()
	}
	return result.String()
}
