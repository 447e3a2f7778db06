package storage

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	retryInitialInterval = 200 * time.Millisecond
	retryMaxTries        = 5
)

// RetryingStore wraps a Store with bounded exponential backoff on every
// operation. Not-found is permanent; everything else is assumed transient
// until the try budget is spent, at which point the last error surfaces to
// the caller as-is for the pipeline to classify.
type RetryingStore struct {
	inner Store
}

func WithRetry(inner Store) *RetryingStore {
	return &RetryingStore{inner: inner}
}

func retryOpts() []backoff.RetryOption {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	return []backoff.RetryOption{
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(retryMaxTries),
	}
}

func (s *RetryingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return backoff.Retry(ctx, func() ([]byte, error) {
		data, err := s.inner.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			return nil, backoff.Permanent(err)
		}
		return data, err
	}, retryOpts()...)
}

func (s *RetryingStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.inner.Put(ctx, key, data)
	}, retryOpts()...)
	return err
}

func (s *RetryingStore) Delete(ctx context.Context, key string) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.inner.Delete(ctx, key)
	}, retryOpts()...)
	return err
}

func (s *RetryingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return backoff.Retry(ctx, func() ([]string, error) {
		return s.inner.List(ctx, prefix)
	}, retryOpts()...)
}
