package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"go-vagas-scraper/internal/config"
	"go-vagas-scraper/internal/runner"
	"go-vagas-scraper/internal/scraper/catho"
	"go-vagas-scraper/internal/storage"
)

// pageProgress shows visited pages out of max pages on the terminal
type pageProgress struct {
	bar  *pb.ProgressBar
	jobs int
}

func newPageProgress(maxPages int) *pageProgress {
	bar := pb.New(maxPages)
	bar.Set("prefix", "📄 Pages ")
	bar.Start()
	return &pageProgress{bar: bar}
}

func (p *pageProgress) PageDone(res catho.PageResult) {
	p.jobs += len(res.Jobs)
	p.bar.Set("suffix", fmt.Sprintf(" %s jobs", humanize.Comma(int64(p.jobs))))
	p.bar.Increment()
}

func (p *pageProgress) Finish() {
	p.bar.Finish()
}

func printBanner(cfg *config.Config, runID string) {
	pterm.DefaultHeader.WithFullWidth().Println("Vagas scraper")
	pterm.Info.Printfln("Run %s: %s, up to %d pages (%s engine)", runID, cfg.PageURL(1), cfg.MaxPages, cfg.Engine)
}

func printSummary(s runner.Summary, stats storage.Stats, cfg *config.Config) {
	data := pterm.TableData{
		{"Pages scraped", humanize.Comma(int64(s.Pages))},
		{"Jobs", humanize.Comma(int64(s.Records))},
		{"Skipped cards", humanize.Comma(int64(s.Skipped))},
		{"Stopped at page", fmt.Sprintf("%d (%s)", s.LastPage, s.StopReason)},
		{"Took", s.Duration().Round(time.Millisecond).String()},
		{"CSV", fileLine(cfg.CSVPath)},
		{"JSON", fileLine(cfg.JSONPath)},
	}
	if stats.CSVFailures > 0 {
		data = append(data, []string{"CSV write failures", humanize.Comma(int64(stats.CSVFailures))})
	}
	if stats.MirrorFailures > 0 {
		data = append(data, []string{"Mirror failures", humanize.Comma(int64(stats.MirrorFailures))})
	}
	_ = pterm.DefaultTable.WithHasHeader(false).WithBoxed().WithData(data).Render()

	if s.ExportErr != nil {
		pterm.Error.Printfln("JSON export failed: %v", s.ExportErr)
		return
	}
	pterm.Success.Printfln("Done. Log written to %s", cfg.LogPath)
}

func fileLine(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return path + " (missing)"
	}
	return fmt.Sprintf("%s (%s)", path, humanize.Bytes(uint64(info.Size())))
}
