package reporter

import (
	"math"
	"testing"
	"time"

	"github.com/dirshaye/LogInsight/internal/executor"
	"github.com/dirshaye/LogInsight/internal/model"
)

func sampleReport() executor.Report {
	return executor.Report{
		Results: []model.ChunkResult{
			{ChunkIndex: 0, EntryCount: 40, AnomalyCount: 2,
				Anomalies: []model.AnomalyResult{{Score: 2.5, IsAnomaly: true}, {Score: 3.1, IsAnomaly: true}}},
			{ChunkIndex: 1, EntryCount: 60, AnomalyCount: 1,
				Anomalies: []model.AnomalyResult{{Score: 2.2, IsAnomaly: true}}},
		},
		FailedChunks: 1,
		Workers:      4,
	}
}

func TestAggregateSumsCounts(t *testing.T) {
	outcome := Aggregate(sampleReport(), 2*time.Second, RunInfo{FileID: "app.log", Parallel: true, Chunks: 3})

	if outcome.FileID != "app.log" {
		t.Errorf("expected file id app.log, got %q", outcome.FileID)
	}
	if outcome.TotalEntries != 100 {
		t.Errorf("expected 100 entries, got %d", outcome.TotalEntries)
	}
	if outcome.AnomalyCount != 3 {
		t.Errorf("expected 3 anomalies, got %d", outcome.AnomalyCount)
	}
	if len(outcome.Anomalies) != 3 {
		t.Errorf("expected 3 anomaly results, got %d", len(outcome.Anomalies))
	}
}

func TestAggregateThroughput(t *testing.T) {
	outcome := Aggregate(sampleReport(), 2*time.Second, RunInfo{Chunks: 3})

	got := outcome.Metrics["throughput_entries_per_second"]
	if math.Abs(got-50.0) > 1e-9 {
		t.Errorf("expected throughput 50, got %f", got)
	}
	if outcome.Metrics["chunks_processed"] != 3 {
		t.Errorf("expected 3 chunks processed, got %f", outcome.Metrics["chunks_processed"])
	}
	if outcome.Metrics["chunks_failed"] != 1 {
		t.Errorf("expected 1 chunk failed, got %f", outcome.Metrics["chunks_failed"])
	}
	if outcome.Metrics["workers_used"] != 4 {
		t.Errorf("expected 4 workers, got %f", outcome.Metrics["workers_used"])
	}
}

func TestAggregateZeroDuration(t *testing.T) {
	outcome := Aggregate(sampleReport(), 0, RunInfo{})
	if got := outcome.Metrics["throughput_entries_per_second"]; got != 0 {
		t.Errorf("expected zero throughput for zero duration, got %f", got)
	}
}

func TestAggregateParallelFlag(t *testing.T) {
	seq := Aggregate(executor.Report{}, time.Second, RunInfo{Parallel: false})
	par := Aggregate(executor.Report{}, time.Second, RunInfo{Parallel: true})

	if seq.Metrics["parallel"] != 0 {
		t.Errorf("expected parallel=0 for sequential run, got %f", seq.Metrics["parallel"])
	}
	if par.Metrics["parallel"] != 1 {
		t.Errorf("expected parallel=1 for parallel run, got %f", par.Metrics["parallel"])
	}
}

func TestBuildComparisonSpeedup(t *testing.T) {
	seq := model.ProcessingOutcome{Duration: 4 * time.Second}
	par := model.ProcessingOutcome{Duration: 2 * time.Second}

	cmp := BuildComparison(seq, par)
	if math.Abs(cmp.Speedup-2.0) > 1e-9 {
		t.Errorf("expected speedup 2.0, got %f", cmp.Speedup)
	}
	if math.Abs(cmp.PercentImprovement-100.0) > 1e-9 {
		t.Errorf("expected 100%% improvement, got %f", cmp.PercentImprovement)
	}
	if math.Abs(cmp.TimeSavedSeconds-2.0) > 1e-9 {
		t.Errorf("expected 2s saved, got %f", cmp.TimeSavedSeconds)
	}
}

func TestBuildComparisonZeroParallelDuration(t *testing.T) {
	seq := model.ProcessingOutcome{Duration: time.Second}
	cmp := BuildComparison(seq, model.ProcessingOutcome{})

	if cmp.Speedup != 1.0 {
		t.Errorf("expected speedup 1.0 guard, got %f", cmp.Speedup)
	}
	if cmp.PercentImprovement != 0 {
		t.Errorf("expected 0%% improvement, got %f", cmp.PercentImprovement)
	}
}

func TestBuildComparisonSlowerParallel(t *testing.T) {
	seq := model.ProcessingOutcome{Duration: time.Second}
	par := model.ProcessingOutcome{Duration: 2 * time.Second}

	cmp := BuildComparison(seq, par)
	if cmp.Speedup >= 1.0 {
		t.Errorf("expected speedup below 1.0, got %f", cmp.Speedup)
	}
	if cmp.PercentImprovement >= 0 {
		t.Errorf("expected negative improvement, got %f", cmp.PercentImprovement)
	}
}
