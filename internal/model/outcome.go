package model

import "time"

// ProcessingOutcome aggregates the results of one full pipeline run.
// Duration is wall-clock elapsed time for the whole run, never a sum of
// per-chunk durations. Built once; not mutated after the run completes.
type ProcessingOutcome struct {
	FileID       string             `json:"file_id"`
	TotalEntries int                `json:"total_entries"`
	Duration     time.Duration      `json:"processing_duration"`
	AnomalyCount int                `json:"anomaly_count"`
	Anomalies    []AnomalyResult    `json:"anomalies"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Seconds returns the run duration in seconds.
func (o ProcessingOutcome) Seconds() float64 {
	return o.Duration.Seconds()
}

// Summary holds aggregate statistics over a set of anomaly results.
type Summary struct {
	TotalResults int            `json:"total_results"`
	AnomalyCount int            `json:"anomalies_detected"`
	AnomalyRate  float64        `json:"anomaly_rate"`
	MeanScore    float64        `json:"mean_score"`
	Methods      []string       `json:"methods_used"`
	LevelCounts  map[string]int `json:"level_distribution"`
}

// Comparison holds sequential and parallel outcomes for the same input,
// plus the derived speedup figures.
type Comparison struct {
	Sequential         ProcessingOutcome `json:"sequential_result"`
	Parallel           ProcessingOutcome `json:"parallel_result"`
	Speedup            float64           `json:"speedup_factor"`
	PercentImprovement float64           `json:"percent_improvement"`
	TimeSavedSeconds   float64           `json:"time_saved_seconds"`
}
