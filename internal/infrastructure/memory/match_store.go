package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/painelgpt/backend/internal/domain"
)

type matchKey struct {
	restaurantID  int64
	geraldoItemID int64
}

// MatchStore is a thread-safe in-memory match-record store. Used by the test
// suites and by the memory store mode for local runs.
type MatchStore struct {
	data  map[matchKey]domain.MatchRecord
	mutex sync.RWMutex
}

// NewMatchStore creates an empty in-memory match store
func NewMatchStore() *MatchStore {
	return &MatchStore{
		data: make(map[matchKey]domain.MatchRecord),
	}
}

// ListByRestaurant returns the restaurant's records ordered by geraldo item id
func (s *MatchStore) ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.MatchRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var records []domain.MatchRecord
	for key, rec := range s.data {
		if key.restaurantID == restaurantID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].GeraldoItemID < records[j].GeraldoItemID
	})
	return records, nil
}

// Upsert stores the record under its (restaurant, geraldo item) key,
// overwriting any previous record for that key
func (s *MatchStore) Upsert(ctx context.Context, record domain.MatchRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[matchKey{record.RestaurantID, record.GeraldoItemID}] = record
	return nil
}

// Get returns one record, or ErrMatchNotFound
func (s *MatchStore) Get(ctx context.Context, restaurantID, geraldoItemID int64) (*domain.MatchRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rec, ok := s.data[matchKey{restaurantID, geraldoItemID}]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return &rec, nil
}

// Size returns the number of stored records (for tests/monitoring)
func (s *MatchStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}
