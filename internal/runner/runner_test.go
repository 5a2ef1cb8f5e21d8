package runner

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-vagas-scraper/internal/scraper"
	"go-vagas-scraper/internal/scraper/catho"
	"go-vagas-scraper/internal/storage"
)

// scriptedCrawler returns counts[page-1] jobs per page; a zero count (or
// running past the script) yields an empty page
type scriptedCrawler struct {
	counts   []int
	outcomes map[int]catho.Outcome
	visited  []int
}

func (c *scriptedCrawler) Name() string { return "Scripted" }

func (c *scriptedCrawler) CrawlPage(_ context.Context, page int, emit func(scraper.Job)) catho.PageResult {
	c.visited = append(c.visited, page)
	url := fmt.Sprintf("https://example.com/vagas/?page=%d", page)
	res := catho.PageResult{Page: page, URL: url}

	if o, ok := c.outcomes[page]; ok {
		res.Outcome = o
		return res
	}
	if page > len(c.counts) || c.counts[page-1] == 0 {
		res.Outcome = catho.OutcomeEmpty
		return res
	}
	for i := 0; i < c.counts[page-1]; i++ {
		job := scraper.Job{
			Title:            fmt.Sprintf("Vaga %d.%d", page, i),
			Link:             fmt.Sprintf("/vagas/%d/%d/", page, i),
			Location:         "São Paulo - SP",
			Salary:           "A Combinar",
			SalaryAdvertised: false,
			Source:           url,
		}
		res.Jobs = append(res.Jobs, job)
		emit(job)
	}
	res.Outcome = catho.OutcomeOK
	return res
}

type memorySink struct {
	jobs      []scraper.Job
	exports   int
	exportErr error
}

func (s *memorySink) Add(_ context.Context, job scraper.Job) { s.jobs = append(s.jobs, job) }

func (s *memorySink) Export() error {
	s.exports++
	return s.exportErr
}

type progressRecorder struct {
	pages []int
}

func (p *progressRecorder) PageDone(res catho.PageResult) { p.pages = append(p.pages, res.Page) }

func newTestRunner(c PageCrawler, sink RecordSink, maxPages int) (*Runner, *[]time.Duration) {
	var slept []time.Duration
	r := New(c, sink, Options{
		RunID:        "test-run",
		MaxPages:     maxPages,
		MinPageDelay: time.Second,
		MaxPageDelay: 3 * time.Second,
	}, zap.NewNop())
	r.WithSleep(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	})
	return r, &slept
}

func TestRun_StopsOnEmptyPageAndExports(t *testing.T) {
	dir := t.TempDir()
	csvW := storage.NewCSVWriter(filepath.Join(dir, "vagas.csv"))
	require.NoError(t, csvW.Create())
	jsonE := storage.NewJSONExporter(filepath.Join(dir, "vagas.json"))
	sink := storage.NewSink(csvW, jsonE, zap.NewNop())

	crawler := &scriptedCrawler{counts: []int{5, 4, 3, 2, 0, 9}}
	r, _ := newTestRunner(crawler, sink, 200)

	summary := r.Run(context.Background())

	assert.Equal(t, []int{1, 2, 3, 4, 5}, crawler.visited)
	assert.Equal(t, 4, summary.Pages)
	assert.Equal(t, 14, summary.Records)
	assert.Equal(t, StopEmpty, summary.StopReason)
	assert.NoError(t, summary.ExportErr)

	f, err := os.Open(csvW.Path())
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	data, err := os.ReadFile(jsonE.Path())
	require.NoError(t, err)
	var exported []scraper.Job
	require.NoError(t, json.Unmarshal(data, &exported))

	assert.Len(t, exported, 14)
	assert.Equal(t, len(rows)-1, len(exported))
	assert.Equal(t, "Vaga 1.0", exported[0].Title)
	assert.Equal(t, "Vaga 4.1", exported[13].Title)
}

func TestRun_EmptyPageDoesNotVisitNext(t *testing.T) {
	crawler := &scriptedCrawler{counts: []int{3, 0, 3}}
	sink := &memorySink{}
	r, slept := newTestRunner(crawler, sink, 200)

	summary := r.Run(context.Background())

	assert.Equal(t, []int{1, 2}, crawler.visited)
	assert.Equal(t, 1, summary.Pages)
	assert.Equal(t, 2, summary.LastPage)
	//only one pause, between page 1 and 2
	assert.Len(t, *slept, 1)
	assert.Equal(t, 1, sink.exports)
}

func TestRun_MaxPagesCap(t *testing.T) {
	crawler := &scriptedCrawler{counts: []int{1, 1, 1, 1, 1}}
	sink := &memorySink{}
	r, slept := newTestRunner(crawler, sink, 3)

	summary := r.Run(context.Background())

	assert.Equal(t, []int{1, 2, 3}, crawler.visited)
	assert.Equal(t, StopMaxPages, summary.StopReason)
	assert.Equal(t, 3, summary.Records)
	assert.Len(t, *slept, 2)
	assert.Equal(t, 1, sink.exports)
}

func TestRun_TerminalOutcomesStillExport(t *testing.T) {
	tests := []struct {
		name    string
		outcome catho.Outcome
		reason  StopReason
	}{
		{"Navigation failed", catho.OutcomeNavFailed, StopNavFailed},
		{"Content timeout", catho.OutcomeTimeout, StopTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crawler := &scriptedCrawler{
				counts:   []int{2, 2, 2},
				outcomes: map[int]catho.Outcome{2: tt.outcome},
			}
			sink := &memorySink{}
			r, _ := newTestRunner(crawler, sink, 200)

			summary := r.Run(context.Background())

			assert.Equal(t, tt.reason, summary.StopReason)
			assert.Equal(t, []int{1, 2}, crawler.visited)
			assert.Len(t, sink.jobs, 2)
			assert.Equal(t, 1, sink.exports)
		})
	}
}

func TestRun_ExportErrorIsReported(t *testing.T) {
	crawler := &scriptedCrawler{counts: []int{1}}
	sink := &memorySink{exportErr: errors.New("disk full")}
	r, _ := newTestRunner(crawler, sink, 200)

	summary := r.Run(context.Background())
	assert.Error(t, summary.ExportErr)
	assert.Equal(t, 1, summary.Records)
}

func TestRun_ReportsProgress(t *testing.T) {
	crawler := &scriptedCrawler{counts: []int{1, 1}}
	progress := &progressRecorder{}
	r, _ := newTestRunner(crawler, &memorySink{}, 200)
	r.WithProgress(progress)

	r.Run(context.Background())
	assert.Equal(t, []int{1, 2, 3}, progress.pages)
}

func TestRun_CanceledWhileWaiting(t *testing.T) {
	crawler := &scriptedCrawler{counts: []int{1, 1, 1}}
	sink := &memorySink{}
	r, _ := newTestRunner(crawler, sink, 200)
	r.WithSleep(func(context.Context, time.Duration) error { return context.Canceled })

	summary := r.Run(context.Background())
	assert.Equal(t, StopCanceled, summary.StopReason)
	assert.Equal(t, []int{1}, crawler.visited)
	assert.Equal(t, 1, sink.exports)
}

func TestPageDelay_WithinBounds(t *testing.T) {
	r, _ := newTestRunner(&scriptedCrawler{}, &memorySink{}, 1)
	for i := 0; i < 1000; i++ {
		d := r.pageDelay()
		require.GreaterOrEqual(t, d, time.Second)
		require.LessOrEqual(t, d, 3*time.Second)
	}
}

func TestPageDelay_FixedWhenBoundsEqual(t *testing.T) {
	r := New(&scriptedCrawler{}, &memorySink{}, Options{MinPageDelay: time.Second, MaxPageDelay: time.Second}, zap.NewNop())
	assert.Equal(t, time.Second, r.pageDelay())
}

// stubPage counts navigations, failing them with gotoErr when set
type stubPage struct {
	gotoErr   error
	gotoCalls int
}

func (p *stubPage) Goto(string, time.Duration) error {
	p.gotoCalls++
	return p.gotoErr
}

func (p *stubPage) WaitForSelector(string, time.Duration) error { return nil }

func (p *stubPage) QuerySelectorAll(string) ([]scraper.Node, error) { return nil, nil }

func TestRun_CanceledContextStopsCathoCrawl(t *testing.T) {
	tests := []struct {
		name    string
		gotoErr error
	}{
		{"Navigation would succeed", nil},
		{"Navigation would fail", errors.New("net::ERR_CONNECTION_RESET")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			page := &stubPage{gotoErr: tt.gotoErr}
			crawler := catho.NewCathoScraper(page, catho.Options{
				URLFor:      func(n int) string { return fmt.Sprintf("https://example.com/vagas/?page=%d", n) },
				SettleDelay: 5 * time.Second,
				Retry:       scraper.RetryConfig{Attempts: 3, Delay: 5 * time.Second},
			}, zap.NewNop())
			sink := &memorySink{}
			r, _ := newTestRunner(crawler, sink, 200)

			summary := r.Run(ctx)

			assert.Equal(t, StopCanceled, summary.StopReason)
			assert.Equal(t, 1, summary.LastPage)
			assert.Zero(t, summary.Pages)
			assert.Zero(t, page.gotoCalls)
			assert.Equal(t, 1, sink.exports)
		})
	}
}
