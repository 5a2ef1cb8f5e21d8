package main

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-vagas-scraper/internal/config"
	"go-vagas-scraper/internal/logger"
	"go-vagas-scraper/internal/scraper"
	"go-vagas-scraper/internal/scraper/catho"
)

var probePage int

// probeCmd checks selectors, cookies and the engine against a single page
// without touching the CSV or JSON outputs
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Scrape one listing page and print what was extracted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		//a separate file so lumberjack doesn't rotate the crawl log away
		log, closeLog, err := logger.New(logger.Options{Path: singlePageLogPath(cfg), Level: cfg.LogLevel})
		if err != nil {
			return err
		}
		defer closeLog()

		pterm.Info.Printfln("🔍 Probing %s (%s engine)", cfg.PageURL(probePage), cfg.Engine)

		page, closePage, err := openPage(cfg, log)
		if err != nil {
			return err
		}
		defer closePage()

		crawler := catho.NewCathoScraper(page, catho.Options{
			URLFor:      cfg.PageURL,
			NavTimeout:  cfg.NavTimeout,
			WaitTimeout: cfg.WaitTimeout,
			SettleDelay: cfg.SettleDelay,
			Retry:       scraper.RetryConfig{Attempts: 1},
		}, log)

		res := crawler.CrawlPage(cmd.Context(), probePage, nil)
		if c, ok := page.(interface{ Capture(name, message string) }); ok {
			c.Capture("catho-probe", fmt.Sprintf("Catho: probe of page %d", probePage))
		}

		if res.Outcome != catho.OutcomeOK {
			log.Warn("⚠️ Probe finished without jobs", zap.String("outcome", res.Outcome.String()), zap.Error(res.Err))
			pterm.Warning.Printfln("Page %d: %s", probePage, res.Outcome)
			return nil
		}

		data := pterm.TableData{{"Título", "Local", "Salário", "Inf", "Sup"}}
		for _, job := range res.Jobs {
			data = append(data, []string{
				job.Title,
				job.Location,
				job.Salary,
				fmt.Sprintf("%.2f", job.SalaryLower),
				fmt.Sprintf("%.2f", job.SalaryUpper),
			})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		pterm.Success.Printfln("%d jobs extracted, %d cards skipped", len(res.Jobs), res.Skipped)
		return nil
	},
}

// singlePageLogPath sits next to the run log
func singlePageLogPath(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.LogPath), "single-page.log")
}

func init() {
	probeCmd.Flags().IntVar(&probePage, "page", 1, "listing page to probe")
}
