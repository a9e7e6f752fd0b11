// Package queue is a small at-least-once job queue with bounded
// re-delivery. A job whose handler fails is put back until it has been tried
// MaxAttempts times; errors wrapped with Permanent are never retried.
package queue

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
)

var errInvalidPayload = errors.New("queue: payload is not valid JSON")

// DefaultMaxAttempts is used when Options.MaxAttempts is not positive.
const DefaultMaxAttempts = 3

// Handler processes one job payload.
type Handler func(ctx context.Context, payload []byte) error

// Queue accepts payloads and feeds them to consumers.
type Queue interface {
	Enqueue(ctx context.Context, payload []byte) error
	// Consume runs handler for each delivered job until ctx is done. It is
	// safe to call Consume from several goroutines.
	Consume(ctx context.Context, handler Handler) error
}

// FailedFunc is called once for every job that ends in the failed state.
type FailedFunc func(payload []byte, attempts int, err error)

type Options struct {
	MaxAttempts int
	Logger      logging.Logger
	OnFailed    FailedFunc
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// envelope is the stored form of a job.
type envelope struct {
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// deliver runs handler on env and decides what happens next: nothing on
// success, requeue while attempts remain, the failed hook otherwise.
func deliver(ctx context.Context, env envelope, handler Handler, opts Options, requeue func(context.Context, envelope) error) {
	err := handler(ctx, env.Payload)
	if err == nil {
		opts.Logger.Debug(ctx, "job done", "attempt", env.Attempts+1)
		return
	}

	env.Attempts++

	if IsPermanent(err) || env.Attempts >= opts.MaxAttempts {
		opts.Logger.Error(ctx, "job failed", "attempts", env.Attempts, "permanent", IsPermanent(err), "error", err)
		if opts.OnFailed != nil {
			opts.OnFailed(env.Payload, env.Attempts, err)
		}
		return
	}

	opts.Logger.Warn(ctx, "job will be retried", "attempts", env.Attempts, "error", err)
	if rqErr := requeue(context.WithoutCancel(ctx), env); rqErr != nil {
		opts.Logger.Error(ctx, "job requeue failed", "attempts", env.Attempts, "error", rqErr)
		if opts.OnFailed != nil {
			opts.OnFailed(env.Payload, env.Attempts, errors.Join(err, rqErr))
		}
	}
}
