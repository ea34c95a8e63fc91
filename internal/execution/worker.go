package execution

import (
	"context"
	"sync"
	"time"

	"jtr/internal/config"
	"jtr/internal/domain"
)

// FileRunner runs a single test file on behalf of a worker
type FileRunner interface {
	Run(ctx context.Context, testPath string, workerID int) domain.TestResult
}

// WorkerPool runs test files on a fixed number of workers
type WorkerPool struct {
	config   *config.Config
	runner   FileRunner
	counter  CaseCounter
	progress Progress
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner FileRunner, counter CaseCounter) *WorkerPool {
	return &WorkerPool{
		config:  cfg,
		runner:  runner,
		counter: counter,
	}
}

// SetProgress sets the progress reporter for the next run
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute runs every test file.
func (wp *WorkerPool) Execute(ctx context.Context, tests []string) ([]domain.TestResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, tests, false)
}

// ExecuteWithOptions runs test files; with failFast no new file starts after the first failure
// and results that finish after it are dropped.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, tests []string, failFast bool) ([]domain.TestResult, time.Duration, error) {
	if len(tests) == 0 {
		return nil, 0, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan string)
	results := make(chan domain.TestResult, len(tests))

	go func() {
		defer close(queue)
		for _, test := range tests {
			select {
			case <-ctx.Done():
				return
			case queue <- test:
			}
		}
	}()

	var (
		mu          sync.Mutex
		completed   int
		passedCases int
		failedCases int
		seenFailure bool
	)
	start := time.Now()

	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(tests) {
		workerCount = len(tests)
	}

	var wg sync.WaitGroup
	for i := 1; i <= workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for testPath := range queue {
				if ctx.Err() != nil {
					continue
				}
				result := wp.runner.Run(ctx, testPath, workerID)

				mu.Lock()
				if failFast && seenFailure {
					mu.Unlock()
					continue
				}
				completed++
				p, f := wp.count(result)
				passedCases += p
				failedCases += f
				if wp.progress != nil {
					wp.progress.Update(completed, passedCases, failedCases)
				}
				if failFast && !result.Success {
					seenFailure = true
					cancel()
				}
				mu.Unlock()

				results <- result
			}
		}(i)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var all []domain.TestResult
	for result := range results {
		all = append(all, result)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}

	if err := ctx.Err(); err != nil && !seenFailure {
		return all, time.Since(start), err
	}
	return all, time.Since(start), nil
}

func (wp *WorkerPool) count(result domain.TestResult) (passed, failed int) {
	if wp.counter != nil {
		return wp.counter.ParseTestCounts(result)
	}
	if result.Success {
		return 1, 0
	}
	return 0, 1
}
