package executor

import (
	"fmt"
	"testing"
	"time"

	"github.com/dirshaye/LogInsight/internal/chunker"
	"github.com/dirshaye/LogInsight/internal/parser"
)

func testChunks(lines, chunkSize int) []chunker.Chunk {
	raw := make([]string, lines)
	for i := range raw {
		raw[i] = fmt.Sprintf("2026-02-17 12:%02d:%02d INFO request %d handled", i/60, i%60, i)
	}
	return chunker.SplitLines(raw, chunkSize)
}

func testConfig() Config {
	return Config{
		Threshold:       2.0,
		Format:          parser.FormatGeneric,
		MaxWorkers:      4,
		PerChunkTimeout: 30 * time.Second,
	}
}

func TestSequentialRun(t *testing.T) {
	chunks := testChunks(100, 10)

	report, err := NewSequential(testConfig()).Run(chunks)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Results) != 10 {
		t.Fatalf("expected 10 chunk results, got %d", len(report.Results))
	}
	if report.TotalEntries() != 100 {
		t.Errorf("expected 100 entries, got %d", report.TotalEntries())
	}
	if report.Workers != 1 {
		t.Errorf("expected 1 worker for sequential, got %d", report.Workers)
	}
}

func TestParallelMatchesSequentialEntryCounts(t *testing.T) {
	chunks := testChunks(200, 25)
	cfg := testConfig()

	seq, err := NewSequential(cfg).Run(chunks)
	if err != nil {
		t.Fatal(err)
	}
	par, err := NewParallel(cfg).Run(chunks)
	if err != nil {
		t.Fatal(err)
	}

	if par.FailedChunks != 0 {
		t.Fatalf("expected no failed chunks, got %d", par.FailedChunks)
	}
	if seq.TotalEntries() != par.TotalEntries() {
		t.Errorf("entry counts diverge: sequential %d, parallel %d",
			seq.TotalEntries(), par.TotalEntries())
	}
}

func TestParallelCoversEveryChunkIndex(t *testing.T) {
	chunks := testChunks(90, 10)

	report, err := NewParallel(testConfig()).Run(chunks)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Results)+report.FailedChunks != len(chunks) {
		t.Fatalf("results (%d) + failures (%d) != chunks (%d)",
			len(report.Results), report.FailedChunks, len(chunks))
	}

	seen := make(map[int]bool)
	for _, r := range report.Results {
		if seen[r.ChunkIndex] {
			t.Errorf("chunk index %d collected twice", r.ChunkIndex)
		}
		seen[r.ChunkIndex] = true
	}
}

func TestParallelWorkerBound(t *testing.T) {
	cfg := testConfig()
	cfg.MaxWorkers = 2

	report, err := NewParallel(cfg).Run(testChunks(100, 10))
	if err != nil {
		t.Fatal(err)
	}
	if report.Workers < 1 || report.Workers > 2 {
		t.Errorf("expected 1-2 workers, got %d", report.Workers)
	}
}

func TestParallelTimedOutChunksExcluded(t *testing.T) {
	cfg := testConfig()
	cfg.MaxWorkers = 1
	cfg.PerChunkTimeout = time.Nanosecond

	chunks := testChunks(100, 10)
	report, err := NewParallel(cfg).Run(chunks)
	if err != nil {
		t.Fatal(err)
	}
	if report.FailedChunks == 0 {
		t.Error("expected timed-out chunks to be recorded as failed")
	}
	if len(report.Results)+report.FailedChunks != len(chunks) {
		t.Errorf("results (%d) + failures (%d) != chunks (%d)",
			len(report.Results), report.FailedChunks, len(chunks))
	}
	for _, r := range report.Results {
		if r.EntryCount != 10 {
			t.Errorf("collected chunk %d incomplete: %d entries", r.ChunkIndex, r.EntryCount)
		}
	}
}

func TestParallelEmptyChunkSet(t *testing.T) {
	report, err := NewParallel(testConfig()).Run(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Results) != 0 || report.FailedChunks != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestProcessChunkSkipsBlankLines(t *testing.T) {
	chunk := chunker.Chunk{
		Index: 3,
		Lines: []string{"", "2026-02-17 12:00:00 INFO alive", "   "},
	}
	result, err := ProcessChunk(chunk, parser.FormatGeneric, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	if result.EntryCount != 1 {
		t.Errorf("expected 1 entry, got %d", result.EntryCount)
	}
	if result.ChunkIndex != 3 {
		t.Errorf("expected chunk index 3, got %d", result.ChunkIndex)
	}
}

func TestProcessChunkPreParsedEntries(t *testing.T) {
	chunks := testChunks(20, 20)
	p := parser.New()

	var pre chunker.Chunk
	pre.Index = 0
	for _, line := range chunks[0].Lines {
		entry, ok := p.ParseLine(line, parser.FormatGeneric)
		if !ok {
			continue
		}
		pre.Entries = append(pre.Entries, entry)
	}

	fromLines, err := ProcessChunk(chunks[0], parser.FormatGeneric, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	fromEntries, err := ProcessChunk(pre, parser.FormatGeneric, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	if fromLines.EntryCount != fromEntries.EntryCount {
		t.Errorf("entry counts diverge: lines %d, entries %d",
			fromLines.EntryCount, fromEntries.EntryCount)
	}
}

func TestProcessChunkNoZeroScores(t *testing.T) {
	result, err := ProcessChunk(testChunks(50, 50)[0], parser.FormatGeneric, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range result.Anomalies {
		if a.Score <= 0 {
			t.Errorf("zero-score result leaked into chunk output: %+v", a)
		}
	}
}
