package model

import "time"

// AnomalyResult holds the scoring outcome for one log entry. Results are
// only materialized for entries whose combined score is strictly positive;
// zero-score entries are dropped, not recorded.
type AnomalyResult struct {
	Entry       LogEntry `json:"log_entry"`
	Score       float64  `json:"anomaly_score"`
	IsAnomaly   bool     `json:"is_anomaly"` // Score strictly greater than the threshold
	Methods     []string `json:"methods"`    // contributing methods, in ensemble order
	Explanation string   `json:"explanation,omitempty"`
}

// ChunkResult is the outcome of running the pipeline over one chunk.
type ChunkResult struct {
	ChunkIndex   int             `json:"chunk_index"`
	EntryCount   int             `json:"entry_count"`
	Anomalies    []AnomalyResult `json:"anomalies"`
	Duration     time.Duration   `json:"processing_duration"`
	AnomalyCount int             `json:"anomaly_count"`
}
