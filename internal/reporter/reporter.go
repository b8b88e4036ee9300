// Package reporter merges per-chunk results into a single run outcome and
// derives throughput and speedup figures for strategy comparison.
package reporter

import (
	"time"

	"github.com/dirshaye/LogInsight/internal/executor"
	"github.com/dirshaye/LogInsight/internal/model"
)

// RunInfo carries run-level facts the chunk results themselves don't know.
type RunInfo struct {
	FileID   string
	Parallel bool
	Chunks   int
	Before   Snapshot
	After    Snapshot
}

// Aggregate merges an execution report into a ProcessingOutcome. Results
// are merged in the order they were collected; entry and anomaly counts
// are summed, while the outcome duration is the wall-clock elapsed time
// for the whole run, never a sum of per-chunk durations.
func Aggregate(report executor.Report, elapsed time.Duration, info RunInfo) model.ProcessingOutcome {
	outcome := model.ProcessingOutcome{
		FileID:   info.FileID,
		Duration: elapsed,
		Metrics:  make(map[string]float64),
	}

	for _, result := range report.Results {
		outcome.TotalEntries += result.EntryCount
		outcome.AnomalyCount += result.AnomalyCount
		outcome.Anomalies = append(outcome.Anomalies, result.Anomalies...)
	}

	throughput := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		throughput = float64(outcome.TotalEntries) / secs
	}

	outcome.Metrics["throughput_entries_per_second"] = throughput
	outcome.Metrics["chunks_processed"] = float64(info.Chunks)
	outcome.Metrics["chunks_failed"] = float64(report.FailedChunks)
	outcome.Metrics["workers_used"] = float64(report.Workers)
	outcome.Metrics["cpu_percent_before"] = info.Before.CPUPercent
	outcome.Metrics["cpu_percent_after"] = info.After.CPUPercent
	outcome.Metrics["memory_mb_before"] = info.Before.MemoryMB
	outcome.Metrics["memory_mb_after"] = info.After.MemoryMB
	if info.Parallel {
		outcome.Metrics["parallel"] = 1
	} else {
		outcome.Metrics["parallel"] = 0
	}
	return outcome
}

// BuildComparison derives the speedup figures from a sequential and a
// parallel outcome over the same input. Speedup defaults to 1.0 when the
// parallel duration is zero, so it is always positive.
func BuildComparison(sequential, parallel model.ProcessingOutcome) model.Comparison {
	speedup := 1.0
	if parallel.Duration > 0 {
		speedup = sequential.Duration.Seconds() / parallel.Duration.Seconds()
	}
	return model.Comparison{
		Sequential:         sequential,
		Parallel:           parallel,
		Speedup:            speedup,
		PercentImprovement: (speedup - 1) * 100,
		TimeSavedSeconds:   sequential.Duration.Seconds() - parallel.Duration.Seconds(),
	}
}
