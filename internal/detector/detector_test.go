package detector

import (
	"strings"
	"testing"
	"time"

	"github.com/dirshaye/LogInsight/internal/model"
)

func entriesWithRareLevel(n int) []model.LogEntry {
	base := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)
	entries := make([]model.LogEntry, 0, n+1)
	for i := 0; i < n; i++ {
		entries = append(entries, model.LogEntry{
			Timestamp: base,
			Level:     "INFO",
			Message:   "tick tock",
		})
	}
	entries = append(entries, model.LogEntry{
		Timestamp: base,
		Level:     "CRITICAL",
		Message:   "tick tock",
	})
	return entries
}

func TestPatternMethodFlagsRareLevel(t *testing.T) {
	d := New(DefaultThreshold)

	// 30 INFO entries and 1 CRITICAL: CRITICAL makes up under 5% of the
	// batch and must appear in the pattern-method contribution set.
	results := d.Detect(entriesWithRareLevel(30))

	found := false
	for _, r := range results {
		if r.Entry.Level == "CRITICAL" {
			found = true
			if !hasMethod(r, MethodPattern) {
				t.Errorf("expected pattern method for rare CRITICAL, got %v", r.Methods)
			}
		}
	}
	if !found {
		t.Fatal("rare CRITICAL entry missing from results")
	}
}

func TestFilteringInvariant(t *testing.T) {
	d := New(DefaultThreshold)

	results := d.Detect(entriesWithRareLevel(30))
	for _, r := range results {
		if r.Score <= 0 {
			t.Errorf("result with non-positive score %f leaked through", r.Score)
		}
	}
}

func TestThresholdBoundaryIsStrict(t *testing.T) {
	// The rare-level entry scores exactly +1.0 (identical messages and
	// timestamps silence every other method), so a threshold of exactly
	// 1.0 must not flag it while anything below must.
	entries := entriesWithRareLevel(21)

	atBoundary := New(1.0).Detect(entries)
	if len(atBoundary) != 1 {
		t.Fatalf("expected exactly 1 result, got %d", len(atBoundary))
	}
	if atBoundary[0].Score != 1.0 {
		t.Fatalf("expected score exactly 1.0, got %f", atBoundary[0].Score)
	}
	if atBoundary[0].IsAnomaly {
		t.Error("score equal to threshold must not be an anomaly")
	}

	belowBoundary := New(0.99).Detect(entries)
	if len(belowBoundary) != 1 || !belowBoundary[0].IsAnomaly {
		t.Error("score strictly above threshold must be an anomaly")
	}
}

func TestTemporalMethodFlagsGap(t *testing.T) {
	base := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)
	var entries []model.LogEntry
	for i := 0; i < 9; i++ {
		entries = append(entries, model.LogEntry{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Level:     "INFO",
			Message:   "heartbeat ok",
		})
	}
	// Final entry arrives after a 10s silence against a 1s cadence.
	entries = append(entries, model.LogEntry{
		Timestamp: base.Add(18 * time.Second),
		Level:     "INFO",
		Message:   "heartbeat ok",
	})

	results := New(DefaultThreshold).Detect(entries)
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 result, got %d", len(results))
	}
	r := results[0]
	if !r.Entry.Timestamp.Equal(base.Add(18 * time.Second)) {
		t.Error("expected the entry ending the gap to be flagged")
	}
	if !hasMethod(r, MethodTemporal) {
		t.Errorf("expected temporal method, got %v", r.Methods)
	}
}

func TestTemporalSkipsTinyBatch(t *testing.T) {
	d := New(DefaultThreshold)
	scores := d.temporalScores([]model.LogEntry{{Timestamp: time.Now()}})
	if len(scores) != 0 {
		t.Errorf("expected no temporal scores for single entry, got %v", scores)
	}
}

func TestStatisticalMethodFlagsOutlierMessage(t *testing.T) {
	base := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)
	var entries []model.LogEntry
	for i := 0; i < 20; i++ {
		entries = append(entries, model.LogEntry{Timestamp: base, Level: "INFO", Message: "ok"})
	}
	long := model.LogEntry{Timestamp: base, Level: "INFO", Message: strings.Repeat("x", 300)}
	entries = append(entries, long)

	results := New(DefaultThreshold).Detect(entries)

	found := false
	for _, r := range results {
		if len(r.Entry.Message) == 300 {
			found = true
			if !hasMethod(r, MethodStatistical) {
				t.Errorf("expected statistical method for outlier message, got %v", r.Methods)
			}
		}
	}
	if !found {
		t.Fatal("outlier message missing from results")
	}
}

func TestContentMethodSkipsSmallBatch(t *testing.T) {
	d := New(DefaultThreshold)
	entries := make([]model.LogEntry, 5)
	for i := range entries {
		entries[i] = model.LogEntry{Level: "INFO", Message: "short batch"}
	}
	scores, err := d.contentScores(entries)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 0 {
		t.Errorf("expected no content scores below %d entries, got %v", minContentEntries, scores)
	}
}

func TestContentFallbackScores(t *testing.T) {
	entries := []model.LogEntry{
		{Message: "error while writing block: crash imminent"},
		{Message: "all good here"},
		{Message: "error exception fail crash everywhere"},
	}
	scores := contentFallbackScores(entries)

	if scores[0] != 1.0 {
		t.Errorf("expected 1.0 for two keywords, got %f", scores[0])
	}
	if _, ok := scores[1]; ok {
		t.Error("expected no score for keyword-free message")
	}
	if scores[2] != 2.0 {
		t.Errorf("expected cap at 2.0, got %f", scores[2])
	}
}

func TestDetectEmptyVocabularyFallsBack(t *testing.T) {
	// Messages with nothing but punctuation and 1-char tokens defeat the
	// embedding; the ensemble must fall back without failing, and with no
	// keywords present nothing is emitted at all.
	base := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)
	entries := make([]model.LogEntry, 12)
	for i := range entries {
		entries[i] = model.LogEntry{Timestamp: base, Level: "INFO", Message: "? ! . x"}
	}

	results := New(DefaultThreshold).Detect(entries)
	if len(results) != 0 {
		t.Errorf("expected no results for identical garbage, got %d", len(results))
	}
}

func TestDetectEmptyBatch(t *testing.T) {
	if results := New(DefaultThreshold).Detect(nil); results != nil {
		t.Errorf("expected nil for empty batch, got %v", results)
	}
}

func TestResultOrderMatchesInput(t *testing.T) {
	base := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)
	var entries []model.LogEntry
	for i := 0; i < 30; i++ {
		entries = append(entries, model.LogEntry{Timestamp: base, Level: "INFO", Message: "tick"})
	}
	entries = append(entries,
		model.LogEntry{Timestamp: base, Level: "CRITICAL", Message: "tick"},
		model.LogEntry{Timestamp: base, Level: "FATAL", Message: "tick"},
	)

	results := New(DefaultThreshold).Detect(entries)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Entry.Level != "CRITICAL" || results[1].Entry.Level != "FATAL" {
		t.Errorf("results out of input order: %s, %s", results[0].Entry.Level, results[1].Entry.Level)
	}
}

func TestSummarize(t *testing.T) {
	results := []model.AnomalyResult{
		{Entry: model.LogEntry{Level: "ERROR"}, Score: 3.0, IsAnomaly: true, Methods: []string{MethodStatistical, MethodContent}},
		{Entry: model.LogEntry{Level: "INFO"}, Score: 1.0, IsAnomaly: false, Methods: []string{MethodPattern}},
	}
	s := Summarize(results)

	if s.TotalResults != 2 || s.AnomalyCount != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.AnomalyRate != 0.5 {
		t.Errorf("expected rate 0.5, got %f", s.AnomalyRate)
	}
	if s.MeanScore != 2.0 {
		t.Errorf("expected mean score 2.0, got %f", s.MeanScore)
	}
	if len(s.Methods) != 3 {
		t.Errorf("expected 3 distinct methods, got %v", s.Methods)
	}
	if s.LevelCounts["ERROR"] != 1 || s.LevelCounts["INFO"] != 1 {
		t.Errorf("unexpected level histogram: %v", s.LevelCounts)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalResults != 0 || s.AnomalyCount != 0 {
		t.Errorf("expected zero counts, got %+v", s)
	}
	if s.AnomalyRate != 0 || s.MeanScore != 0 {
		t.Error("expected zero rates with no division by zero")
	}
	if len(s.Methods) != 0 {
		t.Errorf("expected empty method set, got %v", s.Methods)
	}
}

func hasMethod(r model.AnomalyResult, method string) bool {
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}
