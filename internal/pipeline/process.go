package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"

	"songcharts/internal"
	"songcharts/internal/chart"
	"songcharts/internal/config"
)

type TableSource interface {
	FetchYearTable(ctx context.Context, year int) ([]internal.Row, error)
}

type ProcessingService struct {
	source TableSource
	cfg    config.Config
	log    io.Writer
}

func NewProcessingService(source TableSource, cfg config.Config, log io.Writer) *ProcessingService {
	if log == nil {
		log = io.Discard
	}
	return &ProcessingService{source: source, cfg: cfg, log: log}
}

type BatchSummary struct {
	Years   int
	Written int
	Empty   int
	NoData  int
	Failed  int
	Songs   int
	Results []internal.YearResult
}

func (s *ProcessingService) EnsureOutputDir() error {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", s.cfg.OutputDir, err)
	}
	fmt.Fprintf(s.log, "output dir ready path=%s\n", s.cfg.OutputDir)
	return nil
}

// ProcessYear fetches, extracts, normalizes and writes one year. Failures are
// reported on the result, not returned, so a batch can move on.
func (s *ProcessingService) ProcessYear(ctx context.Context, year int) internal.YearResult {
	fmt.Fprintf(s.log, "fetching year=%d\n", year)
	rows, err := s.source.FetchYearTable(ctx, year)
	if err != nil {
		status := internal.YearFailed
		if errors.Is(err, chart.ErrNoData) {
			status = internal.YearNoData
		}
		fmt.Fprintf(s.log, "skipping year=%d: %v\n", year, err)
		return internal.YearResult{Year: year, Status: status, Err: err}
	}
	return s.ProcessRows(year, rows)
}

// ProcessLocalFile runs the pipeline against a saved chart page.
func (s *ProcessingService) ProcessLocalFile(year int, path string) (internal.YearResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return internal.YearResult{}, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return internal.YearResult{}, err
	}
	rows, ok := chart.ParseTable(doc)
	if !ok {
		return internal.YearResult{}, fmt.Errorf("%w: chart table not found in %s", chart.ErrNoData, path)
	}
	return s.ProcessRows(year, rows), nil
}

func (s *ProcessingService) ProcessRows(year int, rows []internal.Row) internal.YearResult {
	raw, stats := ExtractEntries(year, rows, s.cfg.HeaderRowPolicy)
	if stats.ShapeErrors > 0 {
		fmt.Fprintf(s.log, "finished year=%d valid=%d shape_errors=%d empty_rows=%d\n", year, stats.Valid, stats.ShapeErrors, stats.EmptyRejects)
	} else {
		fmt.Fprintf(s.log, "processed year=%d valid=%d empty_rows=%d\n", year, stats.Valid, stats.EmptyRejects)
	}

	entries, dropped := NormalizeEntries(raw)
	result := internal.YearResult{Year: year, Stats: stats, Dropped: dropped}
	if len(entries) == 0 {
		fmt.Fprintf(s.log, "no songs to write year=%d\n", year)
		result.Status = internal.YearEmpty
		return result
	}

	outputPath := OutputPath(s.cfg.OutputDir, year, s.cfg.OutputFormat)
	if err := WriteEntries(entries, outputPath, s.cfg.OutputFormat); err != nil {
		fmt.Fprintf(s.log, "write failed year=%d path=%s: %v\n", year, outputPath, err)
		result.Status = internal.YearFailed
		result.Err = fmt.Errorf("write %s: %w", outputPath, err)
		return result
	}

	fmt.Fprintf(s.log, "wrote year=%d songs=%d path=%s\n", year, len(entries), outputPath)
	result.Status = internal.YearWritten
	result.Written = len(entries)
	result.OutputPath = outputPath
	return result
}

// ProcessRange walks from..to inclusive, one year at a time. It only returns
// early when ctx is cancelled.
func (s *ProcessingService) ProcessRange(ctx context.Context, from, to int) (BatchSummary, error) {
	summary := BatchSummary{}
	for year := from; year <= to; year++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res := s.ProcessYear(ctx, year)
		if res.Err != nil && ctx.Err() != nil {
			return summary, ctx.Err()
		}

		summary.Years++
		summary.Results = append(summary.Results, res)
		switch res.Status {
		case internal.YearWritten:
			summary.Written++
			summary.Songs += res.Written
		case internal.YearEmpty:
			summary.Empty++
		case internal.YearNoData:
			summary.NoData++
		case internal.YearFailed:
			summary.Failed++
		}
	}

	fmt.Fprintf(s.log, "batch done years=%d written=%d empty=%d no_data=%d failed=%d songs=%d\n",
		summary.Years, summary.Written, summary.Empty, summary.NoData, summary.Failed, summary.Songs)
	return summary, nil
}
