package executor

import (
	"log"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/dirshaye/LogInsight/internal/chunker"
	"github.com/dirshaye/LogInsight/internal/model"
)

// Parallel distributes chunks across a bounded ants worker pool. Each
// submitted chunk gets its own Parser and Detector, so content-model
// fitting is local to the chunk a worker happens to process. A chunk that
// fails or times out is recorded and excluded while the rest of the run
// proceeds; if the pool cannot be established at all, the whole run falls
// back to sequential execution.
type Parallel struct {
	cfg Config
}

// NewParallel creates a parallel execution strategy.
func NewParallel(cfg Config) *Parallel {
	return &Parallel{cfg: cfg}
}

func (p *Parallel) Name() string { return "parallel" }

type chunkOutcome struct {
	result model.ChunkResult
	err    error
}

// Run dispatches every chunk to the pool and collects results, waiting at
// most PerChunkTimeout for each one. Late results from abandoned chunks
// land in their buffered channels and are discarded.
func (p *Parallel) Run(chunks []chunker.Chunk) (Report, error) {
	if len(chunks) == 0 {
		return Report{}, nil
	}

	workers := p.workerCount(len(chunks))
	timeout := p.cfg.PerChunkTimeout
	if timeout <= 0 {
		timeout = DefaultPerChunkTimeout
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		log.Printf("executor: worker pool unavailable (%v), falling back to sequential", err)
		report, err := NewSequential(p.cfg).Run(chunks)
		report.FellBack = true
		return report, err
	}
	defer pool.Release()

	outcomes := make([]chan chunkOutcome, len(chunks))
	report := Report{Workers: workers}

	for i, chunk := range chunks {
		ch := make(chan chunkOutcome, 1) // buffered so abandoned workers never block
		outcomes[i] = ch
		chunk := chunk
		if err := pool.Submit(func() {
			result, err := ProcessChunk(chunk, p.cfg.Format, p.cfg.Threshold)
			ch <- chunkOutcome{result: result, err: err}
		}); err != nil {
			log.Printf("executor: submit chunk %d failed: %v", chunk.Index, err)
			close(ch)
		}
	}

	for i, ch := range outcomes {
		select {
		case outcome, ok := <-ch:
			if !ok || outcome.err != nil {
				if outcome.err != nil {
					log.Printf("executor: chunk %d failed: %v", chunks[i].Index, outcome.err)
				}
				report.FailedChunks++
				continue
			}
			report.Results = append(report.Results, outcome.result)
		case <-time.After(timeout):
			log.Printf("executor: chunk %d timed out after %s", chunks[i].Index, timeout)
			report.FailedChunks++
		}
	}
	return report, nil
}

// workerCount bounds the pool at the chunk count, the configured cap, and
// the available hardware concurrency.
func (p *Parallel) workerCount(chunks int) int {
	workers := p.cfg.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if cpus := runtime.NumCPU(); workers > cpus {
		workers = cpus
	}
	if workers > chunks {
		workers = chunks
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
