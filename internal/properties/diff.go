package properties

import (
	"sort"

	"github.com/google/uuid"
)

// MembershipDiff is the minimal set of pair writes that moves a persisted
// membership set to the desired one.
type MembershipDiff struct {
	ToInsert []uuid.UUID
	ToDelete []uuid.UUID
}

// Empty reports whether applying the diff would issue any store operation.
func (d MembershipDiff) Empty() bool {
	return len(d.ToInsert) == 0 && len(d.ToDelete) == 0
}

// DiffMembership computes toInsert = desired − current and
// toDelete = current − desired. Inputs are deduped and nil ids dropped;
// outputs are sorted so repeated runs apply writes in the same order.
func DiffMembership(current, desired []uuid.UUID) MembershipDiff {
	currentSet := dedupe(current)
	desiredSet := dedupe(desired)

	return MembershipDiff{
		ToInsert: sortedIDs(difference(desiredSet, currentSet)),
		ToDelete: sortedIDs(difference(currentSet, desiredSet)),
	}
}

func dedupe(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{})
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func difference(a, b map[uuid.UUID]struct{}) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{})
	for id := range a {
		if _, ok := b[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
