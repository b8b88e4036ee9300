package executor

import "github.com/dirshaye/LogInsight/internal/chunker"

// Sequential processes chunks one at a time on the caller's goroutine.
// The first chunk failure aborts the whole run.
type Sequential struct {
	cfg Config
}

// NewSequential creates a sequential execution strategy.
func NewSequential(cfg Config) *Sequential {
	return &Sequential{cfg: cfg}
}

func (s *Sequential) Name() string { return "sequential" }

// Run processes every chunk in order. An error from any chunk propagates
// immediately; partial results are discarded along with it.
func (s *Sequential) Run(chunks []chunker.Chunk) (Report, error) {
	report := Report{Workers: 1}
	for _, chunk := range chunks {
		result, err := ProcessChunk(chunk, s.cfg.Format, s.cfg.Threshold)
		if err != nil {
			return Report{}, err
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}
