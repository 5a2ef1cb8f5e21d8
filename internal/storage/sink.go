package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"go-vagas-scraper/internal/scraper"
)

// Mirror receives a copy of every job, e.g. a database table
type Mirror interface {
	Name() string
	SaveJob(ctx context.Context, job scraper.Job) error
}

// Stats counts what the sink has seen so far
type Stats struct {
	Records        int
	CSVFailures    int
	MirrorFailures int
}

// Sink keeps every job in memory in arrival order and mirrors each one to
// the CSV file (and optional mirrors) as it arrives. Only the in-memory
// collection is used for the final JSON export, so a failed row append
// never loses a job from the export.
type Sink struct {
	csv     *CSVWriter
	json    *JSONExporter
	mirrors []Mirror
	log     *zap.Logger

	jobs  []scraper.Job
	stats Stats
}

func NewSink(csv *CSVWriter, json *JSONExporter, log *zap.Logger, mirrors ...Mirror) *Sink {
	return &Sink{
		csv:     csv,
		json:    json,
		mirrors: mirrors,
		log:     log,
	}
}

func (s *Sink) Add(ctx context.Context, job scraper.Job) {
	s.jobs = append(s.jobs, job)
	s.stats.Records++
	idx := len(s.jobs)

	if err := s.csv.Append(job); err != nil {
		s.stats.CSVFailures++
		s.log.Error(fmt.Sprintf("❌ Error writing job %d to CSV", idx), zap.Error(err))
	} else {
		s.log.Info(fmt.Sprintf("💾 Job %d written to CSV", idx))
	}

	for _, m := range s.mirrors {
		if err := m.SaveJob(ctx, job); err != nil {
			s.stats.MirrorFailures++
			s.log.Error("❌ Error mirroring job", zap.String("mirror", m.Name()), zap.Int("job", idx), zap.Error(err))
		}
	}
}

// Jobs returns a copy of the collected jobs in arrival order
func (s *Sink) Jobs() []scraper.Job {
	out := make([]scraper.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

func (s *Sink) Stats() Stats {
	return s.stats
}

// Export writes every collected job to the JSON document
func (s *Sink) Export() error {
	s.log.Info("📤 Exporting collected data to JSON", zap.Int("records", len(s.jobs)))
	if err := s.json.Export(s.jobs); err != nil {
		s.log.Error("❌ Error creating JSON", zap.Error(err))
		return err
	}
	s.log.Info("✅ JSON created successfully", zap.String("path", s.json.Path()))
	return nil
}
