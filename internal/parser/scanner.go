package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dirshaye/LogInsight/internal/model"
)

// maxLineBytes bounds a single scanned line.
const maxLineBytes = 1024 * 1024

// FileScanner reads a log file as a lazy, one-pass sequence of entry
// batches. The format is detected once from the leading lines (with the
// read position restored before the main scan) and reused for every line.
//
// Usage follows bufio.Scanner:
//
//	sc, err := parser.NewFileScanner(path, 1000)
//	for sc.Scan() {
//	    entries := sc.Batch()
//	    ...
//	}
//	err = sc.Err()
type FileScanner struct {
	f         *os.File
	scanner   *bufio.Scanner
	parser    *Parser
	format    Format
	batchSize int
	batch     []model.LogEntry
	err       error
	done      bool
}

// NewFileScanner opens path and detects its format from the first few
// lines. batchSize caps how many entries each batch holds.
func NewFileScanner(path string, batchSize int) (*FileScanner, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	sample, err := readSample(f, sampleSize)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("sample input: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("rewind input: %w", err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	return &FileScanner{
		f:         f,
		scanner:   scanner,
		parser:    New(),
		format:    DetectFormat(sample),
		batchSize: batchSize,
	}, nil
}

// Format returns the detected format.
func (s *FileScanner) Format() Format { return s.format }

// Scan advances to the next batch of entries. It returns false when the
// file is exhausted or a read error occurred; check Err afterwards.
func (s *FileScanner) Scan() bool {
	if s.done {
		return false
	}

	s.batch = s.batch[:0]
	for s.scanner.Scan() {
		entry, ok := s.parser.ParseLine(s.scanner.Text(), s.format)
		if !ok {
			continue // blank line
		}
		s.batch = append(s.batch, entry)
		if len(s.batch) >= s.batchSize {
			return true
		}
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("read input: %w", err)
		return false
	}
	return len(s.batch) > 0
}

// Batch returns the entries produced by the last call to Scan. The slice is
// reused between calls; callers that retain it must copy.
func (s *FileScanner) Batch() []model.LogEntry { return s.batch }

// Err returns the first read error encountered, if any.
func (s *FileScanner) Err() error { return s.err }

// Close releases the underlying file.
func (s *FileScanner) Close() error { return s.f.Close() }

// readSample reads up to n lines from the current position.
func readSample(r io.Reader, n int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	sample := make([]string, 0, n)
	for len(sample) < n && scanner.Scan() {
		sample = append(sample, scanner.Text())
	}
	return sample, scanner.Err()
}
