package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/painelgpt/backend/internal/domain"
)

// ReviewService applies reviewer actions to match records. Writes to one
// (restaurant, geraldo item) key are serialized through a per-key lock so a
// stale Confirm cannot clobber a concurrent Unlink; different keys may be
// written concurrently.
type ReviewService struct {
	matches domain.MatchRepository
	locks   sync.Map // "restaurantID:geraldoItemID" -> *sync.Mutex
	now     func() time.Time
}

// NewReviewService creates a review service over the given match store
func NewReviewService(matches domain.MatchRepository) *ReviewService {
	return &ReviewService{
		matches: matches,
		now:     time.Now,
	}
}

func (s *ReviewService) lockKey(restaurantID, geraldoItemID int64) *sync.Mutex {
	key := fmt.Sprintf("%d:%d", restaurantID, geraldoItemID)
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Confirm marks the record as reviewed and accepted, preserving its link,
// confidence and method, and refreshes the update timestamp. Idempotent:
// confirming an already confirmed record re-writes the same state.
func (s *ReviewService) Confirm(ctx context.Context, record domain.MatchRecord) (domain.MatchRecord, error) {
	if err := record.Validate(); err != nil {
		return domain.MatchRecord{}, err
	}

	record.Status = domain.StatusConfirmed
	record.UpdatedAt = s.now()

	mu := s.lockKey(record.RestaurantID, record.GeraldoItemID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.matches.Upsert(ctx, record); err != nil {
		return domain.MatchRecord{}, fmt.Errorf("%w: confirm item %d: %v",
			domain.ErrPersistenceFailure, record.GeraldoItemID, err)
	}
	return record, nil
}

// Unlink explicitly marks the geraldo item as having no counterpart: link
// cleared, confidence zero, status sem_match, manual method marker. The record
// is materialized even when none existed before. Idempotent.
func (s *ReviewService) Unlink(ctx context.Context, restaurantID, geraldoItemID int64) (domain.MatchRecord, error) {
	if restaurantID <= 0 || geraldoItemID <= 0 {
		return domain.MatchRecord{}, domain.ErrInvalidRequest
	}

	record := domain.MatchRecord{
		RestaurantID:  restaurantID,
		GeraldoItemID: geraldoItemID,
		IfoodItemID:   nil,
		Confidence:    0,
		Status:        domain.StatusNoMatch,
		Method:        domain.MethodManual,
		UpdatedAt:     s.now(),
	}

	mu := s.lockKey(restaurantID, geraldoItemID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.matches.Upsert(ctx, record); err != nil {
		return domain.MatchRecord{}, fmt.Errorf("%w: unlink item %d: %v",
			domain.ErrPersistenceFailure, geraldoItemID, err)
	}
	return record, nil
}

// BulkResult reports the outcome of a bulk confirmation: exactly which keys
// were confirmed, how many entries qualified, and the error that stopped the
// run, if any
type BulkResult struct {
	Eligible     int     `json:"eligible"`
	ConfirmedIDs []int64 `json:"confirmedIds"`
}

// BulkConfirmAuto confirms every entry with confidence at or above the auto
// threshold whose status is not already confirmado. Confirmations run
// sequentially and each one is independently durable; the batch is not
// transactional. The context is checked between confirmations so a
// cancellation stops the run after the current write, and the returned result
// lists the prefix that succeeded either way.
func (s *ReviewService) BulkConfirmAuto(ctx context.Context, entries []domain.MatchEntry) (BulkResult, error) {
	result := BulkResult{ConfirmedIDs: []int64{}}

	for _, e := range entries {
		if e.Confidence < autoStatusThreshold || e.Status == domain.StatusConfirmed {
			continue
		}
		result.Eligible++

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if _, err := s.Confirm(ctx, e.Record()); err != nil {
			log.Printf("[REVIEW] bulk confirm stopped at item %d: %v", e.GeraldoItem.ID, err)
			return result, err
		}
		result.ConfirmedIDs = append(result.ConfirmedIDs, e.GeraldoItem.ID)
	}

	return result, nil
}
