// Package executor runs the parse+detect pipeline over chunks, either
// sequentially on the caller's goroutine or fanned out across a bounded
// worker pool. Both strategies share one contract: given an ordered chunk
// set, produce one ChunkResult per successfully processed chunk.
package executor

import (
	"fmt"
	"time"

	"github.com/dirshaye/LogInsight/internal/chunker"
	"github.com/dirshaye/LogInsight/internal/detector"
	"github.com/dirshaye/LogInsight/internal/model"
	"github.com/dirshaye/LogInsight/internal/parser"
)

// DefaultPerChunkTimeout bounds how long the parallel orchestrator waits
// for any single chunk's result.
const DefaultPerChunkTimeout = 60 * time.Second

// Config carries the per-run execution settings.
type Config struct {
	Threshold       float64
	Format          parser.Format
	MaxWorkers      int
	PerChunkTimeout time.Duration
}

// Report is the outcome of one strategy run. Results appear in collection
// order; callers needing input order must re-sort by ChunkIndex.
type Report struct {
	Results      []model.ChunkResult
	FailedChunks int  // chunks that failed or timed out (parallel only)
	Workers      int  // workers actually used (1 for sequential)
	FellBack     bool // parallel run degraded to sequential execution
}

// TotalEntries sums the entry counts of all successful chunks.
func (r Report) TotalEntries() int {
	total := 0
	for _, res := range r.Results {
		total += res.EntryCount
	}
	return total
}

// AnomalyCount sums the anomaly counts of all successful chunks.
func (r Report) AnomalyCount() int {
	total := 0
	for _, res := range r.Results {
		total += res.AnomalyCount
	}
	return total
}

// Strategy is one way of executing the pipeline over a chunk set.
type Strategy interface {
	Name() string
	Run(chunks []chunker.Chunk) (Report, error)
}

// ProcessChunk runs parsing and anomaly detection over a single chunk with
// fresh Parser and Detector instances, so detection state never leaks
// between chunks or workers. A panic during processing is surfaced as an
// error rather than taking down the run.
func ProcessChunk(chunk chunker.Chunk, format parser.Format, threshold float64) (result model.ChunkResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chunk %d: panic: %v", chunk.Index, r)
		}
	}()

	start := time.Now()

	entries := chunk.Entries
	if entries == nil {
		p := parser.New()
		entries = make([]model.LogEntry, 0, len(chunk.Lines))
		for _, line := range chunk.Lines {
			entry, ok := p.ParseLine(line, format)
			if !ok {
				continue // blank line produces no entry
			}
			entries = append(entries, entry)
		}
	}

	d := detector.New(threshold)
	anomalies := d.Detect(entries)

	anomalyCount := 0
	for _, a := range anomalies {
		if a.IsAnomaly {
			anomalyCount++
		}
	}

	return model.ChunkResult{
		ChunkIndex:   chunk.Index,
		EntryCount:   len(entries),
		Anomalies:    anomalies,
		Duration:     time.Since(start),
		AnomalyCount: anomalyCount,
	}, nil
}
