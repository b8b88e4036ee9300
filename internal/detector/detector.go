// Package detector scores batches of log entries for anomalousness using
// an ensemble of four independent methods: statistical feature deviation,
// rare level/source patterns, temporal gap outliers, and message content
// outliers. Per-entry contributions from each method are summed into one
// score.
package detector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/dirshaye/LogInsight/internal/model"
)

// Method names, in the fixed order they appear in result method lists.
const (
	MethodStatistical = "statistical"
	MethodPattern     = "pattern"
	MethodTemporal    = "temporal"
	MethodContent     = "content"
)

// DefaultThreshold is the score above which an entry counts as an anomaly.
const DefaultThreshold = 2.0

// errorKeywords are counted per message as one of the statistical features.
var errorKeywords = []string{
	"error", "exception", "fail", "fault", "crash", "abort",
	"timeout", "refused", "denied", "invalid", "corrupt",
	"unable", "cannot", "forbidden", "unauthorized",
}

// contentFallbackKeywords drive the keyword heuristic used when the
// content model cannot be fitted.
var contentFallbackKeywords = []string{"error", "exception", "fail", "crash"}

// Detector scores log entry batches. Construct one per pipeline run (or
// per worker); there is no shared package-level state.
type Detector struct {
	threshold float64
}

// New creates a Detector with the given anomaly threshold. Non-positive
// thresholds fall back to the default.
func New(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Threshold returns the configured anomaly threshold.
func (d *Detector) Threshold() float64 { return d.threshold }

// Detect scores every entry in the batch and returns one result per entry
// whose combined score is strictly positive, preserving input order.
// IsAnomaly is set only when the score strictly exceeds the threshold;
// sub-threshold but non-zero scores are retained for inspection.
func (d *Detector) Detect(entries []model.LogEntry) []model.AnomalyResult {
	if len(entries) == 0 {
		return nil
	}

	statistical := d.statisticalScores(entries)
	pattern := d.patternScores(entries)
	temporal := d.temporalScores(entries)

	content, err := d.contentScores(entries)
	if err != nil {
		// Model fitting failed; take the keyword heuristic branch.
		content = contentFallbackScores(entries)
	}

	var results []model.AnomalyResult
	for i, entry := range entries {
		var score float64
		var methods, explanations []string

		if v, ok := statistical[i]; ok {
			score += v
			methods = append(methods, MethodStatistical)
			explanations = append(explanations, "Statistical deviation detected")
		}
		if v, ok := pattern[i]; ok {
			score += v
			methods = append(methods, MethodPattern)
			explanations = append(explanations, "Unusual pattern detected")
		}
		if v, ok := temporal[i]; ok {
			score += v
			methods = append(methods, MethodTemporal)
			explanations = append(explanations, "Temporal anomaly detected")
		}
		if v, ok := content[i]; ok {
			score += v
			methods = append(methods, MethodContent)
			explanations = append(explanations, "Content anomaly detected")
		}

		if score <= 0 {
			continue
		}
		results = append(results, model.AnomalyResult{
			Entry:       entry,
			Score:       score,
			IsAnomaly:   score > d.threshold,
			Methods:     methods,
			Explanation: strings.Join(explanations, "; "),
		})
	}
	return results
}

// statisticalScores flags entries whose derived numeric features (message
// length, word count, error keyword count) deviate from the batch mean by
// more than the threshold in z-score terms. Each deviating feature adds
// z/|features| to the entry's score. Zero-variance features are skipped.
func (d *Detector) statisticalScores(entries []model.LogEntry) map[int]float64 {
	features := [][]float64{
		make([]float64, len(entries)), // message length
		make([]float64, len(entries)), // word count
		make([]float64, len(entries)), // error keyword count
	}
	for i, e := range entries {
		features[0][i] = float64(len(e.Message))
		features[1][i] = float64(len(strings.Fields(e.Message)))
		features[2][i] = float64(countErrorKeywords(e.Message))
	}

	scores := make(map[int]float64)
	for _, values := range features {
		mean, err := stats.Mean(values)
		if err != nil {
			continue
		}
		std, err := stats.StandardDeviation(values)
		if err != nil || std == 0 {
			continue
		}
		for i, v := range values {
			z := (v - mean) / std
			if z < 0 {
				z = -z
			}
			if z > d.threshold {
				scores[i] += z / float64(len(features))
			}
		}
	}
	return scores
}

// patternScores flags entries carrying a rare level (<5% of the batch,
// +1.0) or a rare source (<2% of the batch, +0.5). Entries without a
// source are grouped under "unknown".
func (d *Detector) patternScores(entries []model.LogEntry) map[int]float64 {
	n := float64(len(entries))
	levelCounts := make(map[string]int)
	sourceCounts := make(map[string]int)
	for _, e := range entries {
		levelCounts[e.Level]++
		sourceCounts[sourceOf(e)]++
	}

	scores := make(map[int]float64)
	for i, e := range entries {
		if float64(levelCounts[e.Level]) < n*0.05 {
			scores[i] += 1.0
		}
		if float64(sourceCounts[sourceOf(e)]) < n*0.02 {
			scores[i] += 0.5
		}
	}
	return scores
}

// temporalScores sorts the batch by timestamp and flags inter-arrival gaps
// whose z-score exceeds the threshold, attributing z/2 to the entry ending
// the gap. Batches smaller than two entries, and gap distributions with
// zero variance, produce no contributions.
func (d *Detector) temporalScores(entries []model.LogEntry) map[int]float64 {
	if len(entries) < 2 {
		return nil
	}

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return entries[order[a]].Timestamp.Before(entries[order[b]].Timestamp)
	})

	gaps := make([]float64, len(order)-1)
	for j := 1; j < len(order); j++ {
		gaps[j-1] = entries[order[j]].Timestamp.Sub(entries[order[j-1]].Timestamp).Seconds()
	}

	mean, err := stats.Mean(gaps)
	if err != nil {
		return nil
	}
	std, err := stats.StandardDeviation(gaps)
	if err != nil || std == 0 {
		return nil
	}

	scores := make(map[int]float64)
	for j, gap := range gaps {
		z := (gap - mean) / std
		if z < 0 {
			z = -z
		}
		if z > d.threshold {
			// The later entry of the gap is order[j+1].
			scores[order[j+1]] += z / 2
		}
	}
	return scores
}

// contentFallbackScores is the keyword heuristic used when the content
// model cannot be fitted: min(keywordCount*0.5, 2.0) per message.
func contentFallbackScores(entries []model.LogEntry) map[int]float64 {
	scores := make(map[int]float64)
	for i, e := range entries {
		lower := strings.ToLower(e.Message)
		count := 0
		for _, kw := range contentFallbackKeywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > 0 {
			v := float64(count) * 0.5
			if v > 2.0 {
				v = 2.0
			}
			scores[i] = v
		}
	}
	return scores
}

// Summarize computes aggregate statistics over a result set. The level
// histogram is computed over the results, not the original batch. An empty
// result set yields zero counts and no methods.
func Summarize(results []model.AnomalyResult) model.Summary {
	summary := model.Summary{
		LevelCounts: make(map[string]int),
	}
	if len(results) == 0 {
		return summary
	}

	seen := make(map[string]bool)
	var total float64
	for _, r := range results {
		summary.TotalResults++
		if r.IsAnomaly {
			summary.AnomalyCount++
		}
		total += r.Score
		for _, m := range r.Methods {
			seen[m] = true
		}
		summary.LevelCounts[r.Entry.Level]++
	}

	summary.AnomalyRate = float64(summary.AnomalyCount) / float64(summary.TotalResults)
	summary.MeanScore = total / float64(summary.TotalResults)
	for _, m := range []string{MethodStatistical, MethodPattern, MethodTemporal, MethodContent} {
		if seen[m] {
			summary.Methods = append(summary.Methods, m)
		}
	}
	return summary
}

func countErrorKeywords(message string) int {
	lower := strings.ToLower(message)
	count := 0
	for _, kw := range errorKeywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}

func sourceOf(e model.LogEntry) string {
	if e.Source == "" {
		return "unknown"
	}
	return e.Source
}

// String describes the detector configuration, useful in logs.
func (d *Detector) String() string {
	return fmt.Sprintf("detector(threshold=%.2f)", d.threshold)
}
