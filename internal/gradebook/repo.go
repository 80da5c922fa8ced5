package gradebook

import (
	"context"
	"sync"

	"github.com/mind-engage/mindengage-grades/internal/course"
)

type Store interface {
	CreateBook(ctx context.Context, b Book) (Book, error)
	GetBook(ctx context.Context, id string) (Book, error)
	ListBooks(ctx context.Context, ownerID string) ([]Book, error)
	DeleteBook(ctx context.Context, id string) error
	SetQuota(ctx context.Context, id string, quota int) error

	// SaveRecords replaces the book's courses, keeping their order.
	SaveRecords(ctx context.Context, bookID string, recs []course.Record) error
	LoadRecords(ctx context.Context, bookID string) ([]course.Record, error)
}

type memoryStore struct {
	mu      sync.RWMutex
	books   map[string]Book
	order   []string
	records map[string][]course.Record
}

func NewInMemoryStore() Store {
	return &memoryStore{
		books:   map[string]Book{},
		records: map[string][]course.Record{},
	}
}

func (m *memoryStore) CreateBook(_ context.Context, b Book) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.books {
		if other.OwnerID == b.OwnerID && other.Name == b.Name {
			return Book{}, ErrNameTaken
		}
	}
	m.books[b.ID] = b
	m.order = append(m.order, b.ID)
	return b, nil
}

func (m *memoryStore) GetBook(_ context.Context, id string) (Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (m *memoryStore) ListBooks(_ context.Context, ownerID string) ([]Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Book
	for _, id := range m.order {
		if b, ok := m.books[id]; ok && b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryStore) DeleteBook(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return ErrNotFound
	}
	delete(m.books, id)
	delete(m.records, id)
	return nil
}

func (m *memoryStore) SetQuota(_ context.Context, id string, quota int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return ErrNotFound
	}
	q := quota
	b.Quota = &q
	m.books[id] = b
	return nil
}

func (m *memoryStore) SaveRecords(_ context.Context, bookID string, recs []course.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[bookID]; !ok {
		return ErrNotFound
	}
	m.records[bookID] = append([]course.Record(nil), recs...)
	return nil
}

func (m *memoryStore) LoadRecords(_ context.Context, bookID string) ([]course.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.books[bookID]; !ok {
		return nil, ErrNotFound
	}
	return append([]course.Record(nil), m.records[bookID]...), nil
}
