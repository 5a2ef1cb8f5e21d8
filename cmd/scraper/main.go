package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-vagas-scraper/internal/config"
)

var (
	configPath   string
	baseURL      string
	maxPages     int
	engine       string
	headless     bool
	navTimeout   time.Duration
	waitTimeout  time.Duration
	settleDelay  time.Duration
	retryCount   int
	retryDelay   time.Duration
	minPageDelay time.Duration
	maxPageDelay time.Duration
	csvPath      string
	jsonPath     string
	logPath      string
	logLevel     string
	cookiesPath  string
)

var rootCmd = &cobra.Command{
	Use:   "vagas-scraper",
	Short: "Crawl catho.com.br job listings into CSV and JSON",
	Long: `Walks the Catho listing pages one by one, extracts every job card
(title, link, location, salary and parsed salary bounds) and writes them to
a CSV file as they are found plus a JSON array at the end of the run.

The crawl stops at the first page without job cards, when the cards never
show up, when a page cannot be loaded after retries, or at --max-pages.

Examples:
  # Default run, visible Chromium window
  vagas-scraper

  # Headless, first 10 pages only
  vagas-scraper --headless --max-pages 10

  # No browser, plain HTTP fetch of the server-rendered HTML
  vagas-scraper --engine http --max-pages 5`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

// loadConfig reads file and env config, then lets flags override it
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	def := config.Default()
	f := rootCmd.PersistentFlags()

	f.StringVar(&configPath, "config", "configs/config.yaml", "YAML config file (optional)")
	f.StringVar(&baseURL, "base-url", def.BaseURL, "listing URL, "+config.PagePlaceholder+" is replaced by the page number")
	f.IntVar(&maxPages, "max-pages", def.MaxPages, "last page to visit")
	f.StringVar(&engine, "engine", def.Engine, "page engine: playwright or http")
	f.BoolVar(&headless, "headless", def.Headless, "run Chromium without a window")
	f.DurationVar(&navTimeout, "nav-timeout", def.NavTimeout, "page navigation timeout")
	f.DurationVar(&waitTimeout, "wait-timeout", def.WaitTimeout, "how long to wait for job cards")
	f.DurationVar(&settleDelay, "settle-delay", def.SettleDelay, "pause after job cards appear")
	f.IntVar(&retryCount, "retries", def.RetryCount, "navigation attempts per page")
	f.DurationVar(&retryDelay, "retry-delay", def.RetryDelay, "pause between navigation attempts")
	f.DurationVar(&minPageDelay, "min-page-delay", def.MinPageDelay, "shortest pause between pages")
	f.DurationVar(&maxPageDelay, "max-page-delay", def.MaxPageDelay, "longest pause between pages")
	f.StringVar(&csvPath, "csv", def.CSVPath, "CSV output file")
	f.StringVar(&jsonPath, "json", def.JSONPath, "JSON output file")
	f.StringVar(&logPath, "log-file", def.LogPath, "run log file")
	f.StringVar(&logLevel, "log-level", def.LogLevel, "debug, info, warn or error")
	f.StringVar(&cookiesPath, "cookies", def.CookiesPath, "cookie JSON file loaded into the browser")

	rootCmd.AddCommand(probeCmd)
}

// applyFlags overrides cfg with the flags given on the command line;
// flags left at their default don't clobber the config file or env.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if f.Changed("max-pages") {
		cfg.MaxPages = maxPages
	}
	if f.Changed("engine") {
		cfg.Engine = engine
	}
	if f.Changed("headless") {
		cfg.Headless = headless
	}
	if f.Changed("nav-timeout") {
		cfg.NavTimeout = navTimeout
	}
	if f.Changed("wait-timeout") {
		cfg.WaitTimeout = waitTimeout
	}
	if f.Changed("settle-delay") {
		cfg.SettleDelay = settleDelay
	}
	if f.Changed("retries") {
		cfg.RetryCount = retryCount
	}
	if f.Changed("retry-delay") {
		cfg.RetryDelay = retryDelay
	}
	if f.Changed("min-page-delay") {
		cfg.MinPageDelay = minPageDelay
	}
	if f.Changed("max-page-delay") {
		cfg.MaxPageDelay = maxPageDelay
	}
	if f.Changed("csv") {
		cfg.CSVPath = csvPath
	}
	if f.Changed("json") {
		cfg.JSONPath = jsonPath
	}
	if f.Changed("log-file") {
		cfg.LogPath = logPath
	}
	if f.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if f.Changed("cookies") {
		cfg.CookiesPath = cookiesPath
	}
}

func main() {
	//ctrl+c stops the crawl between pages, what was collected still gets exported
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		stop()
		os.Exit(1)
	}
}
