package acquire

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoCandidates is returned by Chain when given nothing to try.
var ErrNoCandidates = errors.New("no candidates")

// Chain tries candidates strictly in order and returns the first success.
// Each try runs under its own timeout derived from ctx; when it expires the
// try is cancelled and counted as a failure. Candidates after the first
// success are never tried.
//
// failures holds one error per failed candidate, in order. When all fail,
// err is the last failure. When ctx itself is done, Chain stops at once and
// returns ctx.Err(); the interrupted try is not recorded as a failure.
func Chain[C fmt.Stringer, T any](ctx context.Context, candidates []C, timeout time.Duration,
	try func(context.Context, C) (T, error)) (result T, failures []error, err error) {
	if len(candidates) == 0 {
		return result, nil, ErrNoCandidates
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return result, failures, err
		}

		v, tryErr := attempt(ctx, c, timeout, try)
		if tryErr == nil {
			return v, failures, nil
		}
		if err := ctx.Err(); err != nil {
			return result, failures, err
		}
		failures = append(failures, fmt.Errorf("%s: %w", c, tryErr))
	}
	return result, failures, failures[len(failures)-1]
}

func attempt[C any, T any](ctx context.Context, c C, timeout time.Duration, try func(context.Context, C) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return try(ctx, c)
}
