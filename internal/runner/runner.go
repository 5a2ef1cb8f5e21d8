package runner

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"go-vagas-scraper/internal/scraper"
	"go-vagas-scraper/internal/scraper/catho"
)

// PageCrawler visits one listing page
type PageCrawler interface {
	Name() string
	CrawlPage(ctx context.Context, page int, emit func(scraper.Job)) catho.PageResult
}

// RecordSink stores jobs as they arrive and exports them at the end
type RecordSink interface {
	Add(ctx context.Context, job scraper.Job)
	Export() error
}

// Progress is told about every finished page
type Progress interface {
	PageDone(res catho.PageResult)
}

type StopReason string

const (
	StopMaxPages  StopReason = "max pages reached"
	StopEmpty     StopReason = "no more job cards"
	StopTimeout   StopReason = "job cards did not appear"
	StopNavFailed StopReason = "navigation failed after retries"
	StopCanceled  StopReason = "canceled"
)

// Summary is what a run produced
type Summary struct {
	RunID      string
	Source     string
	Pages      int
	Records    int
	Skipped    int
	StopReason StopReason
	LastPage   int
	ExportErr  error
	StartedAt  time.Time
	FinishedAt time.Time
}

func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

type Options struct {
	RunID        string
	MaxPages     int
	MinPageDelay time.Duration
	MaxPageDelay time.Duration
}

// Runner drives the page loop: one page at a time, a jittered pause
// between pages, stop on the first page that isn't OK, export at the end.
type Runner struct {
	crawler  PageCrawler
	sink     RecordSink
	opts     Options
	log      *zap.Logger
	progress Progress

	sleep scraper.SleepFunc
	rnd   *rand.Rand
	now   func() time.Time
}

func New(crawler PageCrawler, sink RecordSink, opts Options, log *zap.Logger) *Runner {
	return &Runner{
		crawler: crawler,
		sink:    sink,
		opts:    opts,
		log:     log,
		sleep:   scraper.Sleep,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// WithSleep replaces the inter-page sleep, for tests
func (r *Runner) WithSleep(fn scraper.SleepFunc) *Runner {
	r.sleep = fn
	return r
}

func (r *Runner) WithProgress(p Progress) *Runner {
	r.progress = p
	return r
}

func (r *Runner) Run(ctx context.Context) Summary {
	summary := Summary{
		RunID:      r.opts.RunID,
		Source:     r.crawler.Name(),
		StopReason: StopMaxPages,
		StartedAt:  r.now(),
	}
	log := r.log.With(zap.String("run_id", r.opts.RunID))
	log.Info("🚀 Starting scraping", zap.String("source", summary.Source), zap.Int("max_pages", r.opts.MaxPages))

	emit := func(job scraper.Job) {
		r.sink.Add(ctx, job)
		summary.Records++
	}

	for page := 1; page <= r.opts.MaxPages; page++ {
		res := r.crawler.CrawlPage(ctx, page, emit)
		summary.LastPage = page
		summary.Skipped += res.Skipped
		if r.progress != nil {
			r.progress.PageDone(res)
		}

		if res.Outcome.Terminal() {
			summary.StopReason = stopReason(res.Outcome)
			log.Info("🛑 Finishing scraping",
				zap.Int("page", page),
				zap.String("reason", string(summary.StopReason)))
			break
		}
		summary.Pages++
		log.Info(fmt.Sprintf("📄 Page %d done", page), zap.Int("jobs", len(res.Jobs)), zap.Int("skipped", res.Skipped))

		if page == r.opts.MaxPages {
			break
		}
		delay := r.pageDelay()
		log.Debug("⏳ Waiting before next page", zap.Duration("delay", delay))
		if err := r.sleep(ctx, delay); err != nil {
			log.Warn("⚠️ Interrupted while waiting between pages", zap.Error(err))
			summary.StopReason = StopCanceled
			break
		}
	}

	if err := r.sink.Export(); err != nil {
		summary.ExportErr = err
	}
	summary.FinishedAt = r.now()

	log.Info("🏁 Scraping finished",
		zap.Int("pages", summary.Pages),
		zap.Int("records", summary.Records),
		zap.Int("skipped", summary.Skipped),
		zap.String("reason", string(summary.StopReason)),
		zap.Duration("duration", summary.Duration()))
	return summary
}

// pageDelay is uniform in [MinPageDelay, MaxPageDelay]
func (r *Runner) pageDelay() time.Duration {
	lo, hi := r.opts.MinPageDelay, r.opts.MaxPageDelay
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(r.rnd.Int63n(int64(hi-lo)+1))
}

func stopReason(o catho.Outcome) StopReason {
	switch o {
	case catho.OutcomeEmpty:
		return StopEmpty
	case catho.OutcomeTimeout:
		return StopTimeout
	case catho.OutcomeCanceled:
		return StopCanceled
	default:
		return StopNavFailed
	}
}
