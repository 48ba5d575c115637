package duplicate

import (
	"fmt"
	"sync"
)

// Notification is the user-facing confirmation of a status change.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Variant string `json:"variant"` // success, info, warning, default
}

// NotificationFor returns the confirmation shown after a pair moves to status.
func NotificationFor(status Status) Notification {
	switch status {
	case StatusMerged:
		return Notification{Title: "Merged", Message: "Documents have been merged successfully", Variant: "success"}
	case StatusKeptSeparate:
		return Notification{Title: "Kept Separate", Message: "Documents marked as separate entities", Variant: "info"}
	case StatusFlagged:
		return Notification{Title: "Flagged for Review", Message: "Documents flagged for further review", Variant: "warning"}
	default:
		return Notification{Title: "Status Updated", Message: "Document status has been updated", Variant: "default"}
	}
}

// Change records a single override, in the order it was applied.
type Change struct {
	PairID string `json:"pair_id"`
	From   Status `json:"from"`
	To     Status `json:"to"`
}

// Workflow holds session-scoped review overrides on top of a fixed pair set.
// The underlying pairs are never modified. It is safe for concurrent use.
type Workflow struct {
	mu        sync.RWMutex
	pairs     map[string]Pair
	overrides map[string]Status
	history   []Change
}

// NewWorkflow creates a review session over pairs.
func NewWorkflow(pairs []Pair) *Workflow {
	w := &Workflow{
		pairs:     make(map[string]Pair, len(pairs)),
		overrides: make(map[string]Status),
	}
	for _, p := range pairs {
		w.pairs[p.ID] = p
	}
	return w
}

// SetStatus records a review decision for a pair. Any status may follow any
// other status and the last write wins.
func (w *Workflow) SetStatus(pairID string, status Status) (Notification, error) {
	if pairID == "" {
		return Notification{}, ErrEmptyPairID
	}
	if !status.Valid() {
		return Notification{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pairs[pairID]
	if !ok {
		return Notification{}, fmt.Errorf("%w: %s", ErrPairNotFound, pairID)
	}
	from := p.Status
	if o, ok := w.overrides[pairID]; ok {
		from = o
	}
	w.overrides[pairID] = status
	w.history = append(w.history, Change{PairID: pairID, From: from, To: status})

	return NotificationFor(status), nil
}

// Status returns the effective status of a pair: the session override if
// one exists, otherwise the pair's own status.
func (w *Workflow) Status(p Pair) Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if o, ok := w.overrides[p.ID]; ok {
		return o
	}
	return p.Status
}

// Get returns a pair by id with its effective status applied.
func (w *Workflow) Get(pairID string) (Pair, error) {
	w.mu.RLock()
	p, ok := w.pairs[pairID]
	w.mu.RUnlock()
	if !ok {
		return Pair{}, fmt.Errorf("%w: %s", ErrPairNotFound, pairID)
	}
	p.Status = w.Status(p)
	return p, nil
}

// Effective returns copies of pairs with their effective status applied.
func (w *Workflow) Effective(pairs []Pair) []Pair {
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		p.Status = w.Status(p)
		out[i] = p
	}
	return out
}

// History returns the applied changes in order.
func (w *Workflow) History() []Change {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Change(nil), w.history...)
}

// Rebase replaces the underlying pair set, keeping overrides for pairs that
// still exist and dropping the rest.
func (w *Workflow) Rebase(pairs []Pair) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pairs = make(map[string]Pair, len(pairs))
	for _, p := range pairs {
		w.pairs[p.ID] = p
	}
	for id := range w.overrides {
		if _, ok := w.pairs[id]; !ok {
			delete(w.overrides, id)
		}
	}
}

// Reset discards all session overrides.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.overrides = make(map[string]Status)
	w.history = nil
}

// Counts tallies effective statuses across pairs.
func (w *Workflow) Counts(pairs []Pair) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, p := range pairs {
		counts[w.Status(p)]++
	}
	return counts
}
