package app

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/skugen-backend/internal/data/blob"
	"github.com/yungbote/skugen-backend/internal/observability"
)

type instrumentedBlobStore struct {
	driver  string
	inner   blob.Store
	metrics *observability.Metrics
}

func instrumentBlobStore(driver string, inner blob.Store, metrics *observability.Metrics) blob.Store {
	if inner == nil {
		return nil
	}
	if metrics == nil {
		return inner
	}
	return &instrumentedBlobStore{driver: driver, inner: inner, metrics: metrics}
}

func (s *instrumentedBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	out, err := s.inner.Get(ctx, key)
	s.observe("get", err, time.Since(start))
	return out, err
}

func (s *instrumentedBlobStore) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.inner.Put(ctx, key, value)
	s.observe("put", err, time.Since(start))
	return err
}

func (s *instrumentedBlobStore) Close() error {
	return s.inner.Close()
}

func (s *instrumentedBlobStore) observe(operation string, err error, dur time.Duration) {
	status := "success"
	switch {
	case errors.Is(err, blob.ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	s.metrics.ObserveBlobOperation(s.driver, operation, status, dur)
}
