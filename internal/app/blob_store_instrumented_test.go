package app

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yungbote/skugen-backend/internal/data/blob"
	"github.com/yungbote/skugen-backend/internal/observability"
)

func TestInstrumentBlobStorePassThrough(t *testing.T) {
	metrics, err := observability.NewMetrics("skugen_app_test", prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	inner := &fakeInstrumentedInner{Store: blob.NewMemoryStore()}
	bs := instrumentBlobStore("memory", inner, metrics)
	if bs == nil {
		t.Fatalf("instrumentBlobStore: expected non-nil wrapper")
	}

	if err := bs.Put(context.Background(), "skus", []byte(`[]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := bs.Get(context.Background(), "skus")
	if err != nil || string(got) != "[]" {
		t.Fatalf("Get: got=%s err=%v", got, err)
	}
	if _, err := bs.Get(context.Background(), "theme"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("Get missing: expected ErrNotFound, got %v", err)
	}
	if inner.putCalls != 1 || inner.getCalls != 2 {
		t.Fatalf("unexpected call counts: put=%d get=%d", inner.putCalls, inner.getCalls)
	}
}

func TestInstrumentBlobStoreErrorPassThrough(t *testing.T) {
	metrics, err := observability.NewMetrics("skugen_app_test", prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	want := errors.New("put failed")
	inner := &fakeInstrumentedInner{Store: blob.NewMemoryStore(), putErr: want}
	bs := instrumentBlobStore("memory", inner, metrics)

	if err := bs.Put(context.Background(), "skus", []byte(`[]`)); !errors.Is(err, want) {
		t.Fatalf("Put: expected wrapped error %v, got=%v", want, err)
	}
}

func TestInstrumentBlobStoreWithoutMetrics(t *testing.T) {
	inner := blob.NewMemoryStore()
	if got := instrumentBlobStore("memory", inner, nil); got != blob.Store(inner) {
		t.Fatalf("without metrics the inner store should be returned as-is")
	}
	if instrumentBlobStore("memory", nil, nil) != nil {
		t.Fatalf("nil inner should stay nil")
	}
}

type fakeInstrumentedInner struct {
	blob.Store
	getCalls int
	putCalls int
	putErr   error
}

func (f *fakeInstrumentedInner) Get(ctx context.Context, key string) ([]byte, error) {
	f.getCalls++
	return f.Store.Get(ctx, key)
}

func (f *fakeInstrumentedInner) Put(ctx context.Context, key string, value []byte) error {
	f.putCalls++
	if f.putErr != nil {
		return f.putErr
	}
	return f.Store.Put(ctx, key, value)
}
