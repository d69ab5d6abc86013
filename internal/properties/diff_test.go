package properties

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
)

func idSet(ids ...uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestDiffMembershipBasicCases(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("equal sets produce empty diff", func(t *testing.T) {
		diff := DiffMembership([]uuid.UUID{a, b}, []uuid.UUID{b, a})
		if !diff.Empty() {
			t.Fatalf("expected empty diff, got %+v", diff)
		}
	})

	t.Run("empty current inserts everything", func(t *testing.T) {
		diff := DiffMembership(nil, []uuid.UUID{a, b})
		if len(diff.ToInsert) != 2 || len(diff.ToDelete) != 0 {
			t.Fatalf("expected 2 inserts 0 deletes, got %+v", diff)
		}
	})

	t.Run("empty desired clears everything", func(t *testing.T) {
		diff := DiffMembership([]uuid.UUID{a, b}, nil)
		if len(diff.ToInsert) != 0 || len(diff.ToDelete) != 2 {
			t.Fatalf("expected 0 inserts 2 deletes, got %+v", diff)
		}
	})

	t.Run("partial overlap", func(t *testing.T) {
		// {a,b} -> {b,c}: insert c, delete a
		diff := DiffMembership([]uuid.UUID{a, b}, []uuid.UUID{b, c})
		if len(diff.ToInsert) != 1 || diff.ToInsert[0] != c {
			t.Fatalf("expected insert of %s, got %+v", c, diff.ToInsert)
		}
		if len(diff.ToDelete) != 1 || diff.ToDelete[0] != a {
			t.Fatalf("expected delete of %s, got %+v", a, diff.ToDelete)
		}
	})

	t.Run("duplicates and nil ids are dropped", func(t *testing.T) {
		diff := DiffMembership([]uuid.UUID{a, a, uuid.Nil}, []uuid.UUID{a, b, b, uuid.Nil})
		if len(diff.ToInsert) != 1 || diff.ToInsert[0] != b {
			t.Fatalf("expected single insert of %s, got %+v", b, diff.ToInsert)
		}
		if len(diff.ToDelete) != 0 {
			t.Fatalf("expected no deletes, got %+v", diff.ToDelete)
		}
	})
}

func TestDiffMembershipSetAlgebraHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := make([]uuid.UUID, 12)
	for i := range pool {
		pool[i] = uuid.New()
	}
	pick := func() []uuid.UUID {
		var out []uuid.UUID
		for _, id := range pool {
			if rng.Intn(2) == 0 {
				out = append(out, id)
			}
		}
		return out
	}

	for i := 0; i < 200; i++ {
		current, desired := pick(), pick()
		diff := DiffMembership(current, desired)

		// current ∪ toInsert \ toDelete == desired
		result := idSet(current...)
		for _, id := range diff.ToInsert {
			result[id] = struct{}{}
		}
		for _, id := range diff.ToDelete {
			delete(result, id)
		}
		want := idSet(desired...)
		if len(result) != len(want) {
			t.Fatalf("iteration %d: applying diff gave %d ids, want %d", i, len(result), len(want))
		}
		for id := range want {
			if _, ok := result[id]; !ok {
				t.Fatalf("iteration %d: id %s missing after applying diff", i, id)
			}
		}

		// toInsert ∩ toDelete = ∅
		inserts := idSet(diff.ToInsert...)
		for _, id := range diff.ToDelete {
			if _, ok := inserts[id]; ok {
				t.Fatalf("iteration %d: id %s in both insert and delete", i, id)
			}
		}

		// minimality: every insert absent from current, every delete absent from desired
		currentSet := idSet(current...)
		for _, id := range diff.ToInsert {
			if _, ok := currentSet[id]; ok {
				t.Fatalf("iteration %d: redundant insert %s", i, id)
			}
		}
		desiredSet := idSet(desired...)
		for _, id := range diff.ToDelete {
			if _, ok := desiredSet[id]; ok {
				t.Fatalf("iteration %d: delete %s still desired", i, id)
			}
		}
	}
}

func TestDiffMembershipDeterministicOrder(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	first := DiffMembership(nil, ids)
	second := DiffMembership([]uuid.UUID{ids[3], ids[2], ids[1], ids[0]}, nil)

	for i := 1; i < len(first.ToInsert); i++ {
		if first.ToInsert[i-1].String() >= first.ToInsert[i].String() {
			t.Fatal("inserts not sorted")
		}
	}
	for i := 1; i < len(second.ToDelete); i++ {
		if second.ToDelete[i-1].String() >= second.ToDelete[i].String() {
			t.Fatal("deletes not sorted")
		}
	}
}
