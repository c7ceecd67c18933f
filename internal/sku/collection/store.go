package collection

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/skugen-backend/internal/data/blob"
	"github.com/yungbote/skugen-backend/internal/domain/sku"
	"github.com/yungbote/skugen-backend/internal/platform/ctxutil"
	"github.com/yungbote/skugen-backend/internal/platform/logger"
)

// SlotKey is the blob slot the collection is persisted under.
const SlotKey = "skus"

// Observer receives persistence telemetry. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObservePersist(slot string, err error)
	ObserveCollectionSize(n int)
}

// Store is the process-wide SKU collection. Every mutation is written through
// to the blob slot; a failed write is logged and reported to the observer but
// the in-memory change stands.
type Store struct {
	mu       sync.Mutex
	blob     blob.Store
	key      string
	records  []sku.Record
	log      *logger.Logger
	observer Observer
}

type StoreOption func(*Store)

func WithObserver(o Observer) StoreOption {
	return func(s *Store) { s.observer = o }
}

// WithSlot overrides SlotKey.
func WithSlot(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func NewStore(log *logger.Logger, b blob.Store, opts ...StoreOption) *Store {
	s := &Store{
		blob:    b,
		key:     SlotKey,
		records: []sku.Record{},
		log:     log.With("component", "SKUCollection"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A missing
// slot yields an empty collection. A malformed slot also yields an empty
// collection and is logged; the bad payload is left in place until the next
// mutation overwrites it.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.blob.Get(ctx, s.key)
	switch {
	case errors.Is(err, blob.ErrNotFound):
		s.records = []sku.Record{}
		s.observeSize()
		return nil
	case err != nil:
		return err
	}
	records, err := Decode(raw)
	if err != nil {
		s.log.Warn("stored sku collection is malformed, starting empty", append(ctxutil.LogFields(ctx), "slot", s.key, "error", err)...)
		s.records = []sku.Record{}
		s.observeSize()
		return nil
	}
	s.records = records
	s.observeSize()
	s.log.Info("sku collection loaded", "slot", s.key, "count", len(records))
	return nil
}

// Records returns a copy of the collection in insertion order.
func (s *Store) Records() []sku.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sku.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Append adds the candidates whose SKU is new and returns the accepted ones.
// Nothing is persisted when every candidate was a duplicate.
func (s *Store) Append(ctx context.Context, candidates []sku.Record) []sku.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, accepted := AppendUnique(s.records, candidates)
	if len(accepted) == 0 {
		return nil
	}
	s.records = next
	s.persist(ctx)
	return accepted
}

// DeleteAt removes the record at index and returns it together with the
// collection size after the removal.
func (s *Store) DeleteAt(ctx context.Context, index int) (sku.Record, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed, err := DeleteAt(s.records, index)
	if err != nil {
		return sku.Record{}, len(s.records), err
	}
	s.records = next
	s.persist(ctx)
	return removed, len(s.records), nil
}

// Clear empties the collection and returns how many records were removed.
func (s *Store) Clear(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	s.records = Clear()
	s.persist(ctx)
	return n
}

// persist writes the full collection to the slot. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	s.observeSize()
	payload, err := Encode(s.records)
	if err == nil {
		err = s.blob.Put(ctx, s.key, payload)
	}
	if s.observer != nil {
		s.observer.ObservePersist(s.key, err)
	}
	if err != nil {
		s.log.Error("persist sku collection failed", append(ctxutil.LogFields(ctx), "slot", s.key, "count", len(s.records), "error", err)...)
	}
}

func (s *Store) observeSize() {
	if s.observer != nil {
		s.observer.ObserveCollectionSize(len(s.records))
	}
}
