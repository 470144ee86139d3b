package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	c2md "github.com/alnah/go-c2md"
)

// Pool abstracts transcriber pool operations for testability.
type Pool interface {
	Acquire() (*c2md.Transcriber, error)
	Release(*c2md.Transcriber)
	Size() int
}

// Compile-time interface implementation check.
var _ Pool = (*c2md.TranscriberPool)(nil)

// TranscriptionResult holds the outcome of a single input.
type TranscriptionResult struct {
	Input    string
	Result   *c2md.Result
	Err      error
	Duration time.Duration
}

// transcribeBatch processes inputs concurrently using the pool.
// Results keep the order of inputs.
func transcribeBatch(ctx context.Context, pool Pool, inputs []string, params *transcribeParams) []TranscriptionResult {
	if len(inputs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(inputs) {
		concurrency = len(inputs)
	}

	results := make([]TranscriptionResult, len(inputs))
	var wg sync.WaitGroup
	jobs := make(chan int, len(inputs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			t, err := pool.Acquire()
			if err != nil {
				// Transcriber creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = TranscriptionResult{
						Input: inputs[idx],
						Err:   fmt.Errorf("creating transcriber: %w", err),
					}
				}
				return
			}
			defer pool.Release(t)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = TranscriptionResult{
						Input: inputs[idx],
						Err:   ctx.Err(),
					}
					continue
				}
				results[idx] = transcribeOne(ctx, t, inputs[idx], params)
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// transcribeOne times a single transcription.
func transcribeOne(ctx context.Context, t *c2md.Transcriber, input string, params *transcribeParams) TranscriptionResult {
	start := time.Now()
	res, err := transcribeInput(ctx, t, input, params)
	return TranscriptionResult{
		Input:    input,
		Result:   res,
		Err:      err,
		Duration: time.Since(start),
	}
}
