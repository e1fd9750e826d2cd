package pipeline

import (
	"context"
	"errors"
	"sync"
)

// ErrSkip can be returned by a generateFunc to drop the current value without stopping Generate
var ErrSkip = errors.New("skip item")

type (
	// eachFunc is called for each item of the input channel
	eachFunc[T any] func(val T) error
	// generateFunc is used in Generate to produce values for the output channel
	generateFunc[T any] func() (T, error)
	// workerFunc consumes an item of the input channel
	// and publishes the result to the output channel
	workerFunc[In, Out any] func(ctx context.Context, item In, outc chan<- Out) error
)

// Generate converts output of a generateFunc to a channel
// the only way to close the output channel is to return an error other than ErrSkip from the generateFunc
func Generate[T any](ctx context.Context, fn generateFunc[T]) (<-chan T, <-chan error) {
	outc := make(chan T)
	errc := make(chan error, 1)
	go func() {
		defer func() {
			close(outc)
			close(errc)
		}()
		for {
			select {
			case <-ctx.Done():
				errc <- errors.New("generate canceled")
				return
			default:
			}
			res, err := fn()
			switch {
			case errors.Is(err, ErrSkip):
				continue
			case err != nil:
				errc <- err
				return
			}
			select {
			case outc <- res:
			case <-ctx.Done():
				errc <- errors.New("generate canceled")
				return
			}
		}
	}()

	return outc, errc
}

// Sink is a sinker which runs an eachFunc on each item
// it is the final stage of the pipeline as it does not produce any channel
func Sink[T any](ctx context.Context, ch <-chan T, fn eachFunc[T]) error {
	for r := range ch {
		select {
		case <-ctx.Done():
			return errors.New("sink canceled")
		default:
			if err := fn(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WorkerPool fans out the input channel to N workers which all publish on the output channel
// if a worker returns an error, the pool skips the current item and the worker continues with the next one.
// The error channel keeps at most one error per worker, later errors are dropped.
func WorkerPool[In, Out any](ctx context.Context, concurrency int, inc <-chan In, worker workerFunc[In, Out]) (<-chan Out, <-chan error) {
	var wg sync.WaitGroup
	outc := make(chan Out)
	errc := make(chan error, concurrency)

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for item := range inc {
				if err := worker(ctx, item, outc); err != nil {
					select {
					case errc <- err:
					default:
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(outc)
		close(errc)
	}()

	return outc, errc
}

// MergeErrors is a transformer which merges all input error channels into one output channel
func MergeErrors(ctx context.Context, errs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	outc := make(chan error, len(errs))
	output := func(errc <-chan error) {
		defer wg.Done()
		for e := range errc {
			select {
			case outc <- e:
			case <-ctx.Done():
				return
			}
		}
	}

	wg.Add(len(errs))
	for _, errc := range errs {
		go output(errc)
	}

	go func() {
		wg.Wait()
		close(outc)
	}()

	return outc
}
