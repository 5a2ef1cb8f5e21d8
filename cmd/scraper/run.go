package main

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"go-vagas-scraper/internal/browser"
	"go-vagas-scraper/internal/config"
	"go-vagas-scraper/internal/database"
	"go-vagas-scraper/internal/logger"
	"go-vagas-scraper/internal/reporter"
	"go-vagas-scraper/internal/runner"
	"go-vagas-scraper/internal/scraper"
	"go-vagas-scraper/internal/scraper/catho"
	"go-vagas-scraper/internal/storage"
)

func run(ctx context.Context, cfg *config.Config) error {
	log, closeLog, err := logger.New(logger.Options{Path: cfg.LogPath, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer closeLog()

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))
	printBanner(cfg, runID)
	log.Info("🔧 Config loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.Int("max_pages", cfg.MaxPages),
		zap.String("engine", cfg.Engine))

	notifier := newNotifier(cfg, log)

	//the CSV header must exist before the first page is visited
	csvW := storage.NewCSVWriter(cfg.CSVPath)
	if err := csvW.Create(); err != nil {
		return setupFailed(notifier, log, "❌ Could not create CSV file", err)
	}

	var mirrors []storage.Mirror
	if cfg.DatabaseURL != "" {
		repo, err := openRepository(ctx, cfg.DatabaseURL, runID)
		if err != nil {
			log.Warn("⚠️ Postgres mirror disabled", zap.Error(err))
			pterm.Warning.Printfln("Postgres mirror disabled: %v", err)
		} else {
			defer repo.Close()
			mirrors = append(mirrors, repo)
			log.Info("🐘 Mirroring jobs to Postgres")
		}
	}
	sink := storage.NewSink(csvW, storage.NewJSONExporter(cfg.JSONPath), log, mirrors...)

	page, closePage, err := openPage(cfg, log)
	if err != nil {
		return setupFailed(notifier, log, "❌ Failed to init page engine", err)
	}
	defer closePage()

	crawler := catho.NewCathoScraper(page, catho.Options{
		URLFor:      cfg.PageURL,
		NavTimeout:  cfg.NavTimeout,
		WaitTimeout: cfg.WaitTimeout,
		SettleDelay: cfg.SettleDelay,
		Retry: scraper.RetryConfig{
			Attempts: cfg.RetryCount,
			Delay:    cfg.RetryDelay,
		},
	}, log)

	progress := newPageProgress(cfg.MaxPages)
	summary := runner.New(crawler, sink, runner.Options{
		RunID:        runID,
		MaxPages:     cfg.MaxPages,
		MinPageDelay: cfg.MinPageDelay,
		MaxPageDelay: cfg.MaxPageDelay,
	}, log).WithProgress(progress).Run(ctx)
	progress.Finish()

	printSummary(summary, sink.Stats(), cfg)

	if notifier != nil {
		if err := notifier.SendRunSummary(summary); err != nil {
			log.Warn("⚠️ Failed to send run summary to Telegram", zap.Error(err))
		} else {
			log.Info("🤖 Run summary sent to Telegram")
		}
	}

	if summary.ExportErr != nil {
		return eris.Wrap(summary.ExportErr, "json export failed")
	}
	return nil
}

func openRepository(ctx context.Context, url, runID string) (*database.Repository, error) {
	repo, err := database.ConnectDB(ctx, url, runID)
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

// openPage builds the page engine picked in cfg. The returned func releases it.
func openPage(cfg *config.Config, log *zap.Logger) (scraper.Page, func(), error) {
	if cfg.Engine == config.EngineHTTP {
		log.Info("🌐 Using plain HTTP engine")
		return browser.NewStaticPage(&http.Client{}, cfg.UserAgent), func() {}, nil
	}

	pwManager, err := browser.NewPlaywright(browser.LaunchOptions{
		Headless:  cfg.Headless,
		UserAgent: cfg.UserAgent,
		Width:     cfg.ViewportW,
		Height:    cfg.ViewportH,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := pwManager.Close(); err != nil {
			log.Warn("⚠️ Error closing browser", zap.Error(err))
		}
	}

	cookies, err := browser.LoadCookies(cfg.CookiesPath)
	if err != nil {
		log.Warn("⚠️ Could not load cookies. Continuing.", zap.String("path", cfg.CookiesPath), zap.Error(err))
		cookies = nil
	} else if len(cookies) > 0 {
		log.Info("🍪 Loaded cookies", zap.Int("count", len(cookies)))
	}

	browserCtx, err := pwManager.NewContext(cookies)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	pwPage, err := browserCtx.NewPage()
	if err != nil {
		closeFn()
		return nil, nil, eris.Wrap(err, "browser: new page")
	}
	log.Info("✅ Browser initialized successfully!")

	shots := browser.NewScreenShotDebugger(cfg.ScreenshotsDir, log)
	return browser.NewPage(pwPage, shots), closeFn, nil
}

// runNotifier is what run needs from the Telegram reporter
type runNotifier interface {
	SendRunSummary(summary runner.Summary) error
	SendError(err error) error
}

// newNotifier returns nil when Telegram is not configured or the bot can't be reached
func newNotifier(cfg *config.Config, log *zap.Logger) runNotifier {
	if !cfg.TelegramEnabled() {
		return nil
	}
	bot, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Warn("⚠️ Failed to init Telegram bot", zap.Error(err))
		return nil
	}
	return bot
}

// setupFailed logs err, forwards it to Telegram when a notifier is set and
// returns it so the run aborts
func setupFailed(notifier runNotifier, log *zap.Logger, msg string, err error) error {
	log.Error(msg, zap.Error(err))
	if notifier != nil {
		if sendErr := notifier.SendError(err); sendErr != nil {
			log.Warn("⚠️ Failed to send error to Telegram", zap.Error(sendErr))
		}
	}
	return err
}
