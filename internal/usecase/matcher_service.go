package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/painelgpt/backend/internal/domain"
)

// Similarity thresholds of the scoring rule table. Each rule is targetable in
// tests through these names.
const (
	categoryMinSim = 80  // minimum category-name similarity for category rules
	nameExactSim   = 100 // normalized names identical
	nameNearSim    = 90
	nameStrongSim  = 80
	nameAloneSim   = 95 // name similarity that scores with no category support
	nameWeakSim    = 60
)

// Confidence tiers produced by the rules
const (
	confidencePerfect         = 100
	confidenceNearExact       = 95
	confidenceStrongWithPrice = 90
	confidenceStrong          = 85
	confidenceNameOnly        = 80
	confidenceWeak            = 70
)

// priceTolerance is the absolute currency-unit distance under which two
// representative prices count as close. Kept at 1.0 for compatibility with
// existing match outcomes.
const priceTolerance = 1.0

// autoStatusThreshold is the confidence at or above which a fresh proposal
// enters the list as auto instead of pendente
const autoStatusThreshold = 90

// MatchConfig holds configuration for the match service
type MatchConfig struct {
	EnableDebugLogging bool
}

// MatchService computes match candidates for a restaurant and builds the
// review list by merging them with persisted decisions
type MatchService struct {
	catalog            domain.CatalogRepository
	matches            domain.MatchRepository
	enableDebugLogging bool
}

// NewMatchService creates a match service with its store dependencies
func NewMatchService(catalog domain.CatalogRepository, matches domain.MatchRepository, config MatchConfig) *MatchService {
	return &MatchService{
		catalog:            catalog,
		matches:            matches,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// scorePair applies the scoring rules to one (geraldo, ifood) pair. The first
// matching rule wins. A zero score means the pair is not a candidate.
func scorePair(catSim, nameSim int, priceClose bool) (int, string) {
	switch {
	case catSim >= categoryMinSim && nameSim == nameExactSim:
		return confidencePerfect, domain.MethodNameCategory
	case catSim >= categoryMinSim && nameSim >= nameNearSim:
		return confidenceNearExact, domain.MethodNameCategory
	case catSim >= categoryMinSim && nameSim >= nameStrongSim:
		if priceClose {
			return confidenceStrongWithPrice, domain.MethodNameCategoryPrice
		}
		return confidenceStrong, domain.MethodNameCategory
	case nameSim >= nameAloneSim:
		return confidenceNameOnly, domain.MethodName
	case catSim >= categoryMinSim && nameSim >= nameWeakSim:
		return confidenceWeak, domain.MethodNameCategory
	}
	return 0, ""
}

// BestCandidate selects the best ifood candidate for one geraldo item. The
// candidates slice must be in a fixed order (ascending item id as returned by
// the catalog store); only a strictly greater score replaces the current best,
// so the earliest-encountered candidate wins ties and the result is
// deterministic for a given ordering.
func (s *MatchService) BestCandidate(geraldo domain.Item, candidates []domain.Item) domain.MatchCandidate {
	result := domain.MatchCandidate{GeraldoItem: geraldo}

	geraldoPrice := geraldo.RepresentativePrice()
	for i := range candidates {
		ifood := &candidates[i]

		catSim := Similarity(geraldo.CategoryName, ifood.CategoryName)
		nameSim := Similarity(geraldo.Name, ifood.Name)
		priceClose := math.Abs(geraldoPrice-ifood.RepresentativePrice()) < priceTolerance

		score, method := scorePair(catSim, nameSim, priceClose)

		if s.enableDebugLogging && score > 0 {
			log.Printf("[MATCH] %q vs %q | cat=%d name=%d priceClose=%v | score=%d (%s)",
				geraldo.Name, ifood.Name, catSim, nameSim, priceClose, score, method)
		}

		if score > result.Confidence {
			result.Confidence = score
			result.IfoodItem = ifood
			result.Method = method
		}
	}

	return result
}

// MatchRestaurant computes one candidate per geraldo item of the restaurant.
// Pure computation over the catalog reads; no match-store access.
func (s *MatchService) MatchRestaurant(ctx context.Context, restaurantID int64) ([]domain.MatchCandidate, error) {
	candidates, _, err := s.matchAll(ctx, restaurantID)
	return candidates, err
}

func (s *MatchService) matchAll(ctx context.Context, restaurantID int64) ([]domain.MatchCandidate, []domain.Item, error) {
	geraldoItems, err := s.catalog.ListItems(ctx, restaurantID, domain.OriginGeraldo)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listing geraldo items: %v", domain.ErrCatalogUnavailable, err)
	}

	ifoodItems, err := s.catalog.ListItems(ctx, restaurantID, domain.OriginIfood)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listing ifood items: %v", domain.ErrCatalogUnavailable, err)
	}

	// The tie-break depends on candidate order; keep it ascending by id even
	// if the store changes its ordering
	sort.SliceStable(ifoodItems, func(i, j int) bool { return ifoodItems[i].ID < ifoodItems[j].ID })

	candidates := make([]domain.MatchCandidate, 0, len(geraldoItems))
	for _, g := range geraldoItems {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}
		candidates = append(candidates, s.BestCandidate(g, ifoodItems))
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] restaurant %d: %d geraldo items scored against %d ifood items",
			restaurantID, len(geraldoItems), len(ifoodItems))
	}

	return candidates, ifoodItems, nil
}

// BuildMatchList merges fresh candidates with previously persisted records.
// A persisted record wins outright: its linked item, confidence, status and
// method are used verbatim and the recomputed candidate is discarded, so
// reviewed decisions survive recomputation. Fresh entries get status auto when
// their confidence reaches the auto threshold, pendente otherwise (including
// zero-confidence entries with no candidate). ifoodItems is the lookup set for
// resolving persisted links; a link to an item no longer in the catalog
// resolves to nil rather than failing the build.
func BuildMatchList(candidates []domain.MatchCandidate, records []domain.MatchRecord, ifoodItems []domain.Item) []domain.MatchEntry {
	byItem := make(map[int64]domain.MatchRecord, len(records))
	for _, r := range records {
		byItem[r.GeraldoItemID] = r
	}
	ifoodByID := make(map[int64]*domain.Item, len(ifoodItems))
	for i := range ifoodItems {
		ifoodByID[ifoodItems[i].ID] = &ifoodItems[i]
	}

	entries := make([]domain.MatchEntry, 0, len(candidates))
	for _, c := range candidates {
		if rec, ok := byItem[c.GeraldoItem.ID]; ok {
			var linked *domain.Item
			if rec.IfoodItemID != nil {
				linked = ifoodByID[*rec.IfoodItemID]
			}
			entries = append(entries, domain.MatchEntry{
				GeraldoItem: c.GeraldoItem,
				IfoodItem:   linked,
				Confidence:  rec.Confidence,
				Status:      rec.Status,
				Method:      rec.Method,
				Persisted:   true,
				UpdatedAt:   rec.UpdatedAt,
			})
			continue
		}

		status := domain.StatusPending
		if c.Confidence >= autoStatusThreshold {
			status = domain.StatusAuto
		}
		entries = append(entries, domain.MatchEntry{
			GeraldoItem: c.GeraldoItem,
			IfoodItem:   c.IfoodItem,
			Confidence:  c.Confidence,
			Status:      status,
			Method:      c.Method,
		})
	}

	// Weakest and unreviewed entries first: pendente before everything else,
	// ascending confidence within each partition
	sort.SliceStable(entries, func(i, j int) bool {
		pi := entries[i].Status == domain.StatusPending
		pj := entries[j].Status == domain.StatusPending
		if pi != pj {
			return pi
		}
		return entries[i].Confidence < entries[j].Confidence
	})

	return entries
}

// ListMatches produces the review queue for a restaurant: computed candidates
// merged with stored decisions, ordered for review
func (s *MatchService) ListMatches(ctx context.Context, restaurantID int64) ([]domain.MatchEntry, error) {
	if _, err := s.catalog.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	candidates, ifoodItems, err := s.matchAll(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	records, err := s.matches.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	return BuildMatchList(candidates, records, ifoodItems), nil
}
