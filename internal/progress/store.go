// Package progress tracks which lessons the learner has marked complete.
// Membership in the persisted set is the sole signal of completion: there is
// no ordering and no duplicates. The set is global per client storage, not
// per user (see README for why).
package progress

import "context"

// completedKey is the single fixed key the set persists under.
const completedKey = "completed"

// Store is the durable completed-lesson set.
//
// Toggle assumes a single writer: one user, one active client. Two toggles
// issued concurrently without awaiting the first can lose an update, which
// is a documented limitation rather than something the store coordinates
// around. Each implementation still makes the individual load and save
// atomic so a lone caller can never observe a torn set.
type Store interface {
	// Load returns the persisted lesson identifiers. A set never written is
	// an empty set, not an error.
	Load(ctx context.Context) ([]string, error)

	// Save atomically replaces the persisted set with ids. Order is not
	// preserved; only membership is.
	Save(ctx context.Context, ids []string) error

	// Toggle flips membership for id (load, symmetric difference, save) and
	// returns the new membership.
	Toggle(ctx context.Context, id string) (bool, error)
}

// toggle computes the symmetric difference of ids and {id}, returning the
// new set and whether id is now a member.
func toggle(ids []string, id string) ([]string, bool) {
	next := make([]string, 0, len(ids)+1)
	found := false
	for _, existing := range ids {
		if existing == id {
			found = true
			continue
		}
		next = append(next, existing)
	}
	if found {
		return next, false
	}
	return append(next, id), true
}

// dedupe enforces set semantics on a caller-supplied replacement array.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
