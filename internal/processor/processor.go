// Package processor wires the parser, chunker, executor and reporter into
// the full analysis pipeline. A Processor is an explicit per-run context
// object; there are no package-level singletons.
package processor

import (
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dirshaye/LogInsight/internal/chunker"
	"github.com/dirshaye/LogInsight/internal/detector"
	"github.com/dirshaye/LogInsight/internal/executor"
	"github.com/dirshaye/LogInsight/internal/model"
	"github.com/dirshaye/LogInsight/internal/parser"
	"github.com/dirshaye/LogInsight/internal/reporter"
)

// FitScope controls what data the content model is fitted over.
type FitScope string

const (
	// FitScopeChunk fits the content model independently per chunk. This
	// is the default: parallel workers never share detection state, so
	// content scoring is always local to a chunk there.
	FitScopeChunk FitScope = "chunk"
	// FitScopeInput fits the content model over the whole input. Only
	// honored by sequential runs, which then score the input as a single
	// batch; parallel runs always use chunk scope.
	FitScopeInput FitScope = "input"
)

// Config enumerates every recognized processing option.
type Config struct {
	ChunkSize        int
	AnomalyThreshold float64
	Parallel         bool
	MaxWorkers       int
	PerChunkTimeout  time.Duration
	ContentFitScope  FitScope
}

// DefaultConfig returns the defaults used when options are unset.
func DefaultConfig() Config {
	return Config{
		ChunkSize:        chunker.DefaultChunkSize,
		AnomalyThreshold: detector.DefaultThreshold,
		Parallel:         true,
		MaxWorkers:       runtime.NumCPU(),
		PerChunkTimeout:  executor.DefaultPerChunkTimeout,
		ContentFitScope:  FitScopeChunk,
	}
}

// normalize fills unset fields with defaults.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.ChunkSize <= 0 {
		c.ChunkSize = def.ChunkSize
	}
	if c.AnomalyThreshold <= 0 {
		c.AnomalyThreshold = def.AnomalyThreshold
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = def.MaxWorkers
	}
	if c.PerChunkTimeout <= 0 {
		c.PerChunkTimeout = def.PerChunkTimeout
	}
	if c.ContentFitScope != FitScopeInput {
		c.ContentFitScope = FitScopeChunk
	}
	return c
}

// Processor runs the analysis pipeline over one input at a time.
type Processor struct {
	cfg Config
}

// New creates a Processor with the given configuration, normalized.
func New(cfg Config) *Processor {
	return &Processor{cfg: cfg.normalize()}
}

// Config returns the normalized configuration in effect.
func (p *Processor) Config() Config { return p.cfg }

// ProcessFile analyzes path with the configured strategy.
func (p *Processor) ProcessFile(path string) (model.ProcessingOutcome, error) {
	if p.cfg.Parallel {
		return p.ProcessFileParallel(path)
	}
	return p.ProcessFileSequential(path)
}

// ProcessFileSequential streams the file through the lazy batch scanner,
// processing one chunk at a time on the calling goroutine. Any chunk
// failure aborts the whole run.
func (p *Processor) ProcessFileSequential(path string) (model.ProcessingOutcome, error) {
	before := reporter.TakeSnapshot()
	start := time.Now()

	sc, err := parser.NewFileScanner(path, p.cfg.ChunkSize)
	if err != nil {
		return model.ProcessingOutcome{}, err
	}
	defer sc.Close()

	report := executor.Report{Workers: 1}
	index := 0
	var whole []model.LogEntry // only accumulated for whole-input fitting

	for sc.Scan() {
		batch := append([]model.LogEntry(nil), sc.Batch()...)
		if p.cfg.ContentFitScope == FitScopeInput {
			whole = append(whole, batch...)
			index++
			continue
		}
		result, err := executor.ProcessChunk(chunker.FromEntries(index, batch), sc.Format(), p.cfg.AnomalyThreshold)
		if err != nil {
			return model.ProcessingOutcome{}, fmt.Errorf("sequential run: %w", err)
		}
		report.Results = append(report.Results, result)
		index++
	}
	if err := sc.Err(); err != nil {
		return model.ProcessingOutcome{}, fmt.Errorf("sequential run: %w", err)
	}

	if p.cfg.ContentFitScope == FitScopeInput && len(whole) > 0 {
		result, err := executor.ProcessChunk(chunker.FromEntries(0, whole), sc.Format(), p.cfg.AnomalyThreshold)
		if err != nil {
			return model.ProcessingOutcome{}, fmt.Errorf("sequential run: %w", err)
		}
		report.Results = append(report.Results, result)
	}

	elapsed := time.Since(start)
	return reporter.Aggregate(report, elapsed, reporter.RunInfo{
		FileID:   filepath.Base(path),
		Parallel: false,
		Chunks:   index,
		Before:   before,
		After:    reporter.TakeSnapshot(),
	}), nil
}

// ProcessFileParallel splits the file into raw line chunks and fans them
// out over the worker pool. Failed or timed-out chunks are excluded while
// the run returns whatever succeeded.
func (p *Processor) ProcessFileParallel(path string) (model.ProcessingOutcome, error) {
	before := reporter.TakeSnapshot()
	start := time.Now()

	chunks, err := chunker.SplitFile(path, p.cfg.ChunkSize)
	if err != nil {
		return model.ProcessingOutcome{}, err
	}

	format := parser.FormatGeneric
	if len(chunks) > 0 {
		format = parser.DetectFormat(chunks[0].Lines)
	}

	strategy := executor.NewParallel(executor.Config{
		Threshold:       p.cfg.AnomalyThreshold,
		Format:          format,
		MaxWorkers:      p.cfg.MaxWorkers,
		PerChunkTimeout: p.cfg.PerChunkTimeout,
	})
	report, err := strategy.Run(chunks)
	if err != nil {
		return model.ProcessingOutcome{}, fmt.Errorf("parallel run: %w", err)
	}
	if report.FellBack {
		log.Printf("processor: %s processed without a worker pool", path)
	}

	elapsed := time.Since(start)
	return reporter.Aggregate(report, elapsed, reporter.RunInfo{
		FileID:   filepath.Base(path),
		Parallel: true,
		Chunks:   len(chunks),
		Before:   before,
		After:    reporter.TakeSnapshot(),
	}), nil
}

// CompareFile runs the sequential strategy, then the parallel one, over
// the same input and returns both outcomes with the speedup figures.
func (p *Processor) CompareFile(path string) (model.Comparison, error) {
	log.Printf("processor: comparing strategies on %s", path)

	sequential, err := p.ProcessFileSequential(path)
	if err != nil {
		return model.Comparison{}, fmt.Errorf("sequential pass: %w", err)
	}
	parallel, err := p.ProcessFileParallel(path)
	if err != nil {
		return model.Comparison{}, fmt.Errorf("parallel pass: %w", err)
	}
	return reporter.BuildComparison(sequential, parallel), nil
}
