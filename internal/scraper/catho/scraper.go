package catho

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-vagas-scraper/internal/filter"
	"go-vagas-scraper/internal/scraper"
)

// Outcome is how a page visit ended. Anything but OutcomeOK stops the run.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeEmpty
	OutcomeTimeout
	OutcomeNavFailed
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty page"
	case OutcomeTimeout:
		return "content wait timeout"
	case OutcomeNavFailed:
		return "navigation failed"
	case OutcomeCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (o Outcome) Terminal() bool {
	return o != OutcomeOK
}

// PageResult summarises one page visit
type PageResult struct {
	Page    int
	URL     string
	Outcome Outcome
	Jobs    []scraper.Job
	//cards that failed extraction and were skipped
	Skipped int
	Err     error
}

type Options struct {
	URLFor      func(page int) string
	NavTimeout  time.Duration
	WaitTimeout time.Duration
	//pause after the cards show up, lets lazy parts of the card render
	SettleDelay time.Duration
	Retry       scraper.RetryConfig
}

// capturer is implemented by engines that can take screenshots
type capturer interface {
	Capture(name, message string)
}

type CathoScraper struct {
	page  scraper.Page
	opts  Options
	log   *zap.Logger
	sleep scraper.SleepFunc
}

func NewCathoScraper(page scraper.Page, opts Options, log *zap.Logger) *CathoScraper {
	return &CathoScraper{
		page:  page,
		opts:  opts,
		log:   log,
		sleep: scraper.Sleep,
	}
}

// WithSleep replaces the sleep used for retries and the settle delay
func (s *CathoScraper) WithSleep(fn scraper.SleepFunc) *CathoScraper {
	s.sleep = fn
	return s
}

func (s *CathoScraper) Name() string {
	return "Catho"
}

// CrawlPage visits one listing page and turns every job card into a Job.
// emit, when not nil, receives each Job as soon as it is built.
func (s *CathoScraper) CrawlPage(ctx context.Context, pageNum int, emit func(scraper.Job)) PageResult {
	url := s.opts.URLFor(pageNum)
	result := PageResult{Page: pageNum, URL: url}

	if err := ctx.Err(); err != nil {
		return s.canceled(result, err)
	}

	//navigate
	retry := s.opts.Retry
	retry.OnRetry = func(attempt int, err error) {
		s.log.Error("❌ Error accessing page", zap.String("url", url), zap.Error(err))
		s.log.Info(fmt.Sprintf("⏳ Attempt %d of %d. Waiting %s before retrying", attempt, retry.Attempts, retry.Delay))
	}
	err := scraper.Retry(ctx, retry, s.sleep, func() error {
		return s.page.Goto(url, s.opts.NavTimeout)
	})
	if ctx.Err() != nil {
		return s.canceled(result, ctx.Err())
	}
	if err != nil {
		s.log.Error("🚫 Unrecoverable error accessing page after retries", zap.String("url", url), zap.Error(err))
		s.capture("catho-nav-failed", fmt.Sprintf("Catho: navigation failed on page %d", pageNum))
		result.Outcome = OutcomeNavFailed
		result.Err = err
		return result
	}

	//wait for job cards
	if err := s.page.WaitForSelector(CardSelector, s.opts.WaitTimeout); err != nil {
		s.log.Info("⌛ No job cards appeared, assuming end of listings",
			zap.Int("page", pageNum), zap.Error(err))
		s.capture("catho-wait-timeout", fmt.Sprintf("Catho: no job cards on page %d", pageNum))
		result.Outcome = OutcomeTimeout
		result.Err = err
		return result
	}

	if s.opts.SettleDelay > 0 {
		if err := s.sleep(ctx, s.opts.SettleDelay); err != nil {
			return s.canceled(result, err)
		}
	}

	s.log.Info(fmt.Sprintf("=== Accessing page %d: %s ===", pageNum, url))

	//get job cards
	cards, err := s.page.QuerySelectorAll(CardSelector)
	if err != nil {
		s.log.Error("⚠️ Error selecting job cards", zap.Int("page", pageNum), zap.Error(err))
		result.Outcome = OutcomeEmpty
		result.Err = err
		return result
	}
	if len(cards) == 0 {
		s.log.Info("📭 No jobs found on this page. Finishing scraping.", zap.Int("page", pageNum))
		result.Outcome = OutcomeEmpty
		return result
	}
	s.log.Info("📦 Job cards found", zap.Int("page", pageNum), zap.Int("count", len(cards)))

	for i, card := range cards {
		idx := i + 1
		job, err := s.processJobCard(card, url)
		if err != nil {
			s.log.Error("❌ Error processing job card",
				zap.Int("card", idx), zap.Int("page", pageNum), zap.Error(err))
			result.Skipped++
			continue
		}

		s.log.Info("✅ Job extracted",
			zap.Int("card", idx),
			zap.Int("page", pageNum),
			zap.String("title", job.Title),
			zap.String("link", job.Link),
			zap.String("location", job.Location),
			zap.String("salary", job.Salary),
			zap.Bool("salary_advertised", job.SalaryAdvertised),
			zap.Float64("salary_lower", job.SalaryLower),
			zap.Float64("salary_upper", job.SalaryUpper),
		)

		result.Jobs = append(result.Jobs, job)
		if emit != nil {
			emit(job)
		}
	}

	result.Outcome = OutcomeOK
	return result
}

func (s *CathoScraper) processJobCard(card scraper.Node, source string) (scraper.Job, error) {
	raw, err := ExtractFields(card)
	if err != nil {
		return scraper.Job{}, err
	}

	title := filter.SanitizeTitle(raw.Title)
	s.log.Info("📝 Original title", zap.String("title", raw.Title))
	s.log.Info("🧹 Sanitized title", zap.String("title", title))

	advertised, lower, upper := filter.ParseSalary(raw.Salary)
	if advertised && lower == 0 && upper == 0 && strings.Contains(raw.Salary, "R$") {
		//currency shown but no "1.234,56" amount could be read from it
		s.log.Debug("⚠️ Salary amount not parsed", zap.String("salary", raw.Salary))
	}

	return scraper.Job{
		Title:            title,
		Link:             raw.Link,
		Location:         raw.Location,
		Salary:           raw.Salary,
		SalaryAdvertised: advertised,
		Source:           source,
		SalaryLower:      lower,
		SalaryUpper:      upper,
	}, nil
}

func (s *CathoScraper) canceled(result PageResult, err error) PageResult {
	s.log.Warn("🛑 Page visit canceled", zap.Int("page", result.Page), zap.Error(err))
	result.Outcome = OutcomeCanceled
	result.Err = err
	return result
}

func (s *CathoScraper) capture(name, message string) {
	if c, ok := s.page.(capturer); ok {
		c.Capture(name, message)
	}
}
