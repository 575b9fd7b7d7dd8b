package repository

import (
	"sync"
	"time"

	"expoflow/internal/model"
)

// Store is the in-memory workflow store. One RWMutex guards every table:
// multi-step writes run under the write lock, reads take the read lock and
// return copies, so no reader observes a partially applied write.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	ids *IDGenerator

	actors             *table[model.Actor]
	products           *table[model.Product]
	exhibitions        *table[model.Exhibition]
	exhibitionProducts *table[model.ExhibitionProduct]
	orders             *table[model.Order]
	productLists       *table[model.ProductList]
	listItems          *table[model.ProductListItem]

	exhibitionSeq int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDSource overrides the raw id source. Collisions are still rejected.
func WithIDSource(source func() string) Option {
	return func(s *Store) { s.ids = NewIDGenerator(source) }
}

// WithActors preloads the fixed actor table.
func WithActors(actors ...model.Actor) Option {
	return func(s *Store) {
		for _, a := range actors {
			s.actors.put(a.ID, a)
		}
	}
}

// NewStore constructs an empty store. Callers own its lifetime and pass it
// explicitly to whatever needs it.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:                time.Now,
		ids:                NewIDGenerator(nil),
		actors:             newTable[model.Actor](),
		products:           newTable[model.Product](),
		exhibitions:        newTable[model.Exhibition](),
		exhibitionProducts: newTable[model.ExhibitionProduct](),
		orders:             newTable[model.Order](),
		productLists:       newTable[model.ProductList](),
		listItems:          newTable[model.ProductListItem](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// update runs fn under the write lock.
func (s *Store) update(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// view runs fn under the read lock.
func (s *Store) view(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// table keeps rows keyed by id in insertion order.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *table[T]) put(id string, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// each visits rows in insertion order until fn returns false.
func (t *table[T]) each(fn func(T) bool) {
	for _, id := range t.order {
		if !fn(t.rows[id]) {
			return
		}
	}
}

func (t *table[T]) len() int { return len(t.rows) }
