// Package chunker splits raw log input into bounded, ordered chunks.
// Splitting is a pure function of the input and the configured bound:
// re-splitting identical input always reproduces identical boundaries.
package chunker

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dirshaye/LogInsight/internal/model"
)

// DefaultChunkSize is used when a non-positive size is requested.
const DefaultChunkSize = 1000

const maxLineBytes = 1024 * 1024

// Chunk is one unit of work: an ordered slice of raw lines, or a slice of
// pre-parsed entries, tagged with its position in the split order.
type Chunk struct {
	Index   int
	Lines   []string
	Entries []model.LogEntry // set instead of Lines when input is pre-parsed
}

// Len returns the number of items in the chunk.
func (c Chunk) Len() int {
	if c.Entries != nil {
		return len(c.Entries)
	}
	return len(c.Lines)
}

// FromEntries builds a chunk from already-parsed entries.
func FromEntries(index int, entries []model.LogEntry) Chunk {
	return Chunk{Index: index, Entries: entries}
}

// SplitLines splits lines into chunks of at most size lines, preserving
// order. The final partial chunk is emitted even when smaller than size.
func SplitLines(lines []string, size int) []Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}

	var chunks []Chunk
	for start := 0; start < len(lines); start += size {
		end := start + size
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Lines: lines[start:end],
		})
	}
	return chunks
}

// Split reads newline-delimited text from r and splits it into chunks of at
// most size lines.
func Split(r io.Reader, size int) ([]Chunk, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var chunks []Chunk
	current := make([]string, 0, size)
	for scanner.Scan() {
		current = append(current, strings.TrimRight(scanner.Text(), "\r"))
		if len(current) >= size {
			chunks = append(chunks, Chunk{Index: len(chunks), Lines: current})
			current = make([]string, 0, size)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(current) > 0 {
		chunks = append(chunks, Chunk{Index: len(chunks), Lines: current})
	}
	return chunks, nil
}

// SplitBytes splits newline-delimited text into chunks bounded by a byte
// budget instead of a line count. Lines are never broken across chunks; a
// single line larger than the budget gets a chunk of its own.
func SplitBytes(r io.Reader, budget int) ([]Chunk, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("byte budget must be positive, got %d", budget)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var chunks []Chunk
	var current []string
	used := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if used+len(line) > budget && len(current) > 0 {
			chunks = append(chunks, Chunk{Index: len(chunks), Lines: current})
			current = nil
			used = 0
		}
		current = append(current, line)
		used += len(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(current) > 0 {
		chunks = append(chunks, Chunk{Index: len(chunks), Lines: current})
	}
	return chunks, nil
}

// SplitFile opens path and splits its contents into line-count chunks.
func SplitFile(path string, size int) ([]Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return Split(f, size)
}
