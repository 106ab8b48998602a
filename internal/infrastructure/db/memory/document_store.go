// Package memory holds process-local implementations of the storage ports,
// used by the memory drivers and as fakes in tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

type subscription struct {
	collection string
	query      ports.Query
	onSnapshot ports.SnapshotFunc
}

// DocumentStore is an in-memory ports.DocumentStore. Subscribers receive a
// full snapshot synchronously on Subscribe and after every write to their
// collection, delivered outside the store lock.
type DocumentStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
	subs        map[int]*subscription
	nextSub     int

	// FailWith, when set, makes every call return its error. Tests use it to
	// simulate an unreachable store.
	FailWith func(op, collection string) error
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string]map[string]any),
		subs:        make(map[int]*subscription),
	}
}

func (s *DocumentStore) fail(op, collection string) error {
	if s.FailWith == nil {
		return nil
	}
	return s.FailWith(op, collection)
}

func (s *DocumentStore) GetDocument(_ context.Context, collection, id string) (*ports.Document, error) {
	if err := s.fail("get", collection); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return &ports.Document{ID: id, Data: cloneMap(data)}, nil
}

func (s *DocumentStore) SetDocument(_ context.Context, collection, id string, data map[string]any) error {
	if err := s.fail("set", collection); err != nil {
		return err
	}
	s.mu.Lock()
	s.coll(collection)[id] = cloneMap(data)
	pending := s.snapshotsLocked(collection)
	s.mu.Unlock()

	deliver(pending)
	return nil
}

func (s *DocumentStore) AddDocument(_ context.Context, collection string, data map[string]any) (string, error) {
	if err := s.fail("add", collection); err != nil {
		return "", err
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:20]

	s.mu.Lock()
	s.coll(collection)[id] = cloneMap(data)
	pending := s.snapshotsLocked(collection)
	s.mu.Unlock()

	deliver(pending)
	return id, nil
}

func (s *DocumentStore) UpdateDocument(_ context.Context, collection, id string, partial map[string]any) error {
	if err := s.fail("update", collection); err != nil {
		return err
	}
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrDocumentNotFound
	}
	for k, v := range partial {
		doc[k] = cloneValue(v)
	}
	pending := s.snapshotsLocked(collection)
	s.mu.Unlock()

	deliver(pending)
	return nil
}

func (s *DocumentStore) DeleteDocument(_ context.Context, collection, id string) error {
	if err := s.fail("delete", collection); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.collections[collection], id)
	pending := s.snapshotsLocked(collection)
	s.mu.Unlock()

	deliver(pending)
	return nil
}

func (s *DocumentStore) QueryCollection(_ context.Context, collection string, q ports.Query) ([]ports.Document, error) {
	if err := s.fail("query", collection); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryLocked(collection, q), nil
}

// Subscribe delivers the current snapshot before returning. onError is never
// called: the in-memory store cannot drop a subscription.
func (s *DocumentStore) Subscribe(ctx context.Context, collection string, q ports.Query, onSnapshot ports.SnapshotFunc, _ ports.ErrorFunc) (func(), error) {
	if err := s.fail("subscribe", collection); err != nil {
		return nil, err
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = &subscription{collection: collection, query: q, onSnapshot: onSnapshot}
	initial := s.queryLocked(collection, q)
	s.mu.Unlock()

	onSnapshot(initial)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
	return unsubscribe, nil
}

// Subscribers returns the number of live subscriptions.
func (s *DocumentStore) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *DocumentStore) Ping(context.Context) error {
	return s.fail("ping", "")
}

func (s *DocumentStore) coll(name string) map[string]map[string]any {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]map[string]any)
		s.collections[name] = c
	}
	return c
}

type pendingSnapshot struct {
	fn   ports.SnapshotFunc
	docs []ports.Document
}

func (s *DocumentStore) snapshotsLocked(collection string) []pendingSnapshot {
	var out []pendingSnapshot
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		sub := s.subs[id]
		if sub.collection != collection {
			continue
		}
		out = append(out, pendingSnapshot{fn: sub.onSnapshot, docs: s.queryLocked(collection, sub.query)})
	}
	return out
}

func deliver(pending []pendingSnapshot) {
	for _, p := range pending {
		p.fn(p.docs)
	}
}

func (s *DocumentStore) queryLocked(collection string, q ports.Query) []ports.Document {
	out := make([]ports.Document, 0, len(s.collections[collection]))
	for id, data := range s.collections[collection] {
		if matches(data, q.Filters) {
			out = append(out, ports.Document{ID: id, Data: cloneMap(data)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.OrderBy != "" {
			c, ok := compare(out[i].Data[q.OrderBy], out[j].Data[q.OrderBy])
			if ok && c != 0 {
				if q.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matches(data map[string]any, filters []ports.Filter) bool {
	for _, f := range filters {
		c, ok := compare(data[f.Field], f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case ports.OpEqual:
			if c != 0 {
				return false
			}
		case ports.OpGreater:
			if c <= 0 {
				return false
			}
		case ports.OpLess:
			if c >= 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compare orders two field values of the same kind; ok is false when they
// are not comparable.
func compare(a, b any) (int, bool) {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av {
			return -1, true
		}
		return 1, true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	}
	return 0, false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

var _ ports.DocumentStore = (*DocumentStore)(nil)

// ErrUnavailable is a convenience error for FailWith.
var ErrUnavailable = errors.New("memory store: unavailable")
