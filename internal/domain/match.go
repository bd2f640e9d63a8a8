package domain

import "time"

// MatchStatus tracks the review state of a proposed pairing
type MatchStatus string

const (
	// StatusAuto marks a system proposal strong enough to auto-confirm in bulk
	StatusAuto MatchStatus = "auto"

	// StatusPending marks a system proposal awaiting review, including
	// zero-confidence entries with no candidate
	StatusPending MatchStatus = "pendente"

	// StatusConfirmed marks a pairing explicitly accepted by a reviewer
	StatusConfirmed MatchStatus = "confirmado"

	// StatusNoMatch marks an item explicitly unlinked by a reviewer
	StatusNoMatch MatchStatus = "sem_match"

	// StatusRejected is reserved for manual rejection; the automatic scorer
	// never produces it
	StatusRejected MatchStatus = "rejeitado"
)

// Reviewed reports whether the status was set by an explicit user action.
// Reviewed records are never overwritten by recomputation.
func (s MatchStatus) Reviewed() bool {
	return s == StatusConfirmed || s == StatusNoMatch || s == StatusRejected
}

// Valid reports whether s is one of the known statuses
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusAuto, StatusPending, StatusConfirmed, StatusNoMatch, StatusRejected:
		return true
	}
	return false
}

// Method tags recording which scoring rule produced a confidence value
const (
	MethodNameCategory      = "name+category"
	MethodName              = "name"
	MethodNameCategoryPrice = "name+category+price"

	// MethodManual marks records written by an unlink action
	MethodManual = "manual"
)

// MatchRecord is the persisted decision for one geraldo item within one
// restaurant. At most one record exists per (RestaurantID, GeraldoItemID);
// persistence is an upsert on that key, never an append.
type MatchRecord struct {
	RestaurantID  int64       `json:"restaurantId"`
	GeraldoItemID int64       `json:"geraldoItemId"`
	IfoodItemID   *int64      `json:"ifoodItemId"`
	Confidence    int         `json:"confidence"`
	Status        MatchStatus `json:"status"`
	Method        string      `json:"method"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Validate checks the record invariants: confidence bounded to [0,100],
// confidence 0 exactly when no ifood item is linked, and a known status.
func (r MatchRecord) Validate() error {
	if r.RestaurantID <= 0 || r.GeraldoItemID <= 0 {
		return ErrInvalidRequest
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		return ErrInvalidRequest
	}
	if (r.Confidence == 0) != (r.IfoodItemID == nil) {
		return ErrInvalidRequest
	}
	if !r.Status.Valid() {
		return ErrInvalidRequest
	}
	return nil
}

// MatchCandidate is the candidate matcher's proposal for one geraldo item.
// IfoodItem is nil and Confidence 0 when no pair scored above zero.
type MatchCandidate struct {
	GeraldoItem Item
	IfoodItem   *Item
	Confidence  int
	Method      string
}

// MatchEntry is one row of the built match list: a fresh candidate merged with
// the persisted record, if any. Persisted reports whether the entry reflects a
// stored decision rather than this run's computation.
type MatchEntry struct {
	GeraldoItem Item        `json:"geraldoItem"`
	IfoodItem   *Item       `json:"ifoodItem,omitempty"`
	Confidence  int         `json:"confidence"`
	Status      MatchStatus `json:"status"`
	Method      string      `json:"method"`
	Persisted   bool        `json:"persisted"`
	UpdatedAt   time.Time   `json:"updatedAt,omitzero"`
}

// Record converts the entry to its persistable form
func (e MatchEntry) Record() MatchRecord {
	var ifoodID *int64
	if e.IfoodItem != nil {
		id := e.IfoodItem.ID
		ifoodID = &id
	}
	return MatchRecord{
		RestaurantID:  e.GeraldoItem.RestaurantID,
		GeraldoItemID: e.GeraldoItem.ID,
		IfoodItemID:   ifoodID,
		Confidence:    e.Confidence,
		Status:        e.Status,
		Method:        e.Method,
		UpdatedAt:     e.UpdatedAt,
	}
}
