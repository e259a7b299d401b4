package world

import (
	"testing"
	"time"
)

func testTuning() Tuning {
	return Tuning{
		MaxStack:          64,
		MergeRadius:       1.5,
		PickupRadius:      15.0,
		PositionTolerance: 100.0,
		DropDistance:      1.5,
		PickupDelay:       500 * time.Millisecond,
		PickupCooldown:    250 * time.Millisecond,
		Lifetime:          5 * time.Minute,
		InventorySlots:    DefaultInventorySlots,
	}
}

func newTestState() (*State, *time.Time) {
	s := NewState(testTuning())
	now := time.Unix(1000, 0)
	s.Clock = func() time.Time { return now }
	return s, &now
}

func totalCount(s *State) int32 {
	var total int32
	s.Items.ForEach(func(it *GroundItem) { total += it.Count })
	return total
}

func TestSpawnCreatesEntity(t *testing.T) {
	s, _ := newTestState()
	res, ok := s.SpawnItem(1, 10, Vec3{X: 0, Y: 0, Z: 0}, nil, false)
	if !ok {
		t.Fatal("spawn rejected")
	}
	if res.Item == nil || res.Merge != nil {
		t.Fatalf("expected new entity, got %+v", res)
	}
	if res.Item.Count != 10 || res.Item.Kind != 1 {
		t.Fatalf("wrong entity: kind=%d count=%d", res.Item.Kind, res.Item.Count)
	}
	if s.Items.Get(res.Item.ID) != res.Item {
		t.Fatal("entity not in registry")
	}
	if res.Item.PickupAt.Sub(res.Item.SpawnedAt) != s.Tuning.PickupDelay {
		t.Fatal("grace deadline not applied")
	}
}

func TestSpawnRejectsBadCounts(t *testing.T) {
	s, _ := newTestState()
	for _, count := range []int32{0, -5, 65} {
		if _, ok := s.SpawnItem(1, count, Vec3{}, nil, false); ok {
			t.Fatalf("count %d accepted", count)
		}
	}
	if s.Items.Len() != 0 {
		t.Fatal("registry not empty after rejections")
	}
}

func TestSpawnGridCentersCell(t *testing.T) {
	s, _ := newTestState()
	res, _ := s.SpawnItem(1, 1, Vec3{X: 3, Y: 64, Z: -2}, nil, true)
	want := Vec3{X: 3.5, Y: 64.5, Z: -1.5}
	if res.Item.Pos != want {
		t.Fatalf("pos = %+v, want %+v", res.Item.Pos, want)
	}
}

func TestSpawnDefaultVelocityIsUpwardBiased(t *testing.T) {
	s, _ := newTestState()
	for i := 0; i < 20; i++ {
		res, _ := s.SpawnItem(1, 1, Vec3{X: float64(i) * 100}, nil, false)
		if res.Item.Vel.Y <= 0 {
			t.Fatalf("launch velocity not upward: %+v", res.Item.Vel)
		}
	}
}

func TestSpawnMergesIntoNeighbor(t *testing.T) {
	s, _ := newTestState()
	first, _ := s.SpawnItem(1, 10, Vec3{}, nil, false)

	res, ok := s.SpawnItem(1, 20, Vec3{X: 1.0}, nil, false)
	if !ok {
		t.Fatal("spawn rejected")
	}
	if res.Merge == nil {
		t.Fatal("expected merge")
	}
	if res.Merge.Target != first.Item {
		t.Fatal("merged into wrong target")
	}
	if first.Item.Count != 30 {
		t.Fatalf("target count = %d, want 30", first.Item.Count)
	}
	if first.Item.Pos != (Vec3{}) {
		t.Fatal("target position must not move on merge")
	}
	if s.Items.Len() != 1 {
		t.Fatalf("registry len = %d, want 1", s.Items.Len())
	}
	if res.Merge.GhostID == first.Item.ID {
		t.Fatal("ghost id must be unique")
	}
}

func TestSpawnMergeRespectsCap(t *testing.T) {
	s, _ := newTestState()
	s.SpawnItem(1, 40, Vec3{}, nil, false)
	res, _ := s.SpawnItem(1, 30, Vec3{X: 1.0}, nil, false)
	if res.Merge != nil {
		t.Fatal("merge over the stack cap")
	}
	if s.Items.Len() != 2 {
		t.Fatalf("registry len = %d, want 2", s.Items.Len())
	}
	if totalCount(s) != 70 {
		t.Fatalf("total = %d, want 70", totalCount(s))
	}
}

func TestSpawnMergeSkipsDifferentKindAndDistance(t *testing.T) {
	s, _ := newTestState()
	s.SpawnItem(1, 10, Vec3{}, nil, false)
	s.SpawnItem(2, 10, Vec3{X: 0.5}, nil, false) // different kind
	res, _ := s.SpawnItem(1, 10, Vec3{X: 5.0}, nil, false) // out of radius
	if res.Item == nil {
		t.Fatal("expected new entity")
	}
	if s.Items.Len() != 3 {
		t.Fatalf("registry len = %d, want 3", s.Items.Len())
	}
}

func TestSpawnMergeSkipsLockedTarget(t *testing.T) {
	s, _ := newTestState()
	first, _ := s.SpawnItem(1, 10, Vec3{}, nil, false)
	first.Item.Locked = true
	res, _ := s.SpawnItem(1, 10, Vec3{X: 0.5}, nil, false)
	if res.Merge != nil {
		t.Fatal("merged into a locked item")
	}
	if first.Item.Count != 10 {
		t.Fatal("locked item mutated")
	}
}

func TestMergeSweepCombinesPairs(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.SpawnItem(1, 10, Vec3{}, nil, false)
	// Place the second out of spawn-merge range, then move it close to
	// simulate client-settled motion before a sweep.
	b, _ := s.SpawnItem(1, 20, Vec3{X: 10}, nil, false)
	b.Item.Pos = Vec3{X: 1.0}

	merges := s.MergeSweep()
	if len(merges) != 1 {
		t.Fatalf("merges = %d, want 1", len(merges))
	}
	m := merges[0]
	if m.Target != a.Item || m.AbsorbedID != b.Item.ID || m.AbsorbedCount != 20 {
		t.Fatalf("unexpected merge %+v", m)
	}
	if a.Item.Count != 30 {
		t.Fatalf("target count = %d, want 30", a.Item.Count)
	}
	if s.Items.Get(b.Item.ID) != nil {
		t.Fatal("absorbed item still in registry")
	}
}

func TestMergeSweepConservesTotalCount(t *testing.T) {
	s, _ := newTestState()
	positions := []Vec3{{}, {X: 1}, {X: 2}, {X: 40}, {X: 41}}
	for _, p := range positions {
		s.SpawnItem(1, 12, p, nil, false)
	}
	before := totalCount(s)
	s.MergeSweep()
	if after := totalCount(s); after != before {
		t.Fatalf("total changed: before=%d after=%d", before, after)
	}
}

func TestMergeSweepRespectsCapAndLocks(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.SpawnItem(1, 40, Vec3{}, nil, false)
	b, _ := s.SpawnItem(1, 30, Vec3{X: 10}, nil, false)
	b.Item.Pos = Vec3{X: 1.0}
	if merges := s.MergeSweep(); len(merges) != 0 {
		t.Fatalf("merged over cap: %+v", merges)
	}

	c, _ := s.SpawnItem(2, 5, Vec3{Z: 10}, nil, false)
	d, _ := s.SpawnItem(2, 5, Vec3{Z: 10.5}, nil, false)
	c.Item.Locked = true
	if merges := s.MergeSweep(); len(merges) != 0 {
		t.Fatalf("merged a locked item: %+v", merges)
	}
	_ = a
	_ = d
}

func TestMergeSweepNeverRevisitsAbsorbed(t *testing.T) {
	s, _ := newTestState()
	// Three stacks in a row; the pass must fold them into the first
	// without double-counting the middle one.
	s.SpawnItem(1, 10, Vec3{}, nil, false)
	b, _ := s.SpawnItem(1, 10, Vec3{X: 10}, nil, false)
	c, _ := s.SpawnItem(1, 10, Vec3{X: 20}, nil, false)
	b.Item.Pos = Vec3{X: 1.0}
	c.Item.Pos = Vec3{X: 1.2}

	s.MergeSweep()
	if s.Items.Len() != 1 {
		t.Fatalf("registry len = %d, want 1", s.Items.Len())
	}
	if totalCount(s) != 30 {
		t.Fatalf("total = %d, want 30", totalCount(s))
	}
}

func TestDespawnSweepRemovesExpired(t *testing.T) {
	s, now := newTestState()
	old, _ := s.SpawnItem(1, 10, Vec3{}, nil, false)

	*now = now.Add(s.Tuning.Lifetime / 2)
	fresh, _ := s.SpawnItem(1, 10, Vec3{X: 50}, nil, false)

	*now = now.Add(s.Tuning.Lifetime/2 + time.Second)
	removed := s.DespawnSweep()
	if len(removed) != 1 || removed[0] != old.Item {
		t.Fatalf("removed = %+v", removed)
	}
	if s.Items.Get(old.Item.ID) != nil {
		t.Fatal("expired item still present")
	}
	if s.Items.Get(fresh.Item.ID) == nil {
		t.Fatal("fresh item removed")
	}

	// Monotonicity: a later sweep finds nothing new to do for it.
	if again := s.DespawnSweep(); len(again) != 0 {
		t.Fatalf("second sweep removed %d", len(again))
	}
}

func TestDespawnSweepSkipsLocked(t *testing.T) {
	s, now := newTestState()
	res, _ := s.SpawnItem(1, 10, Vec3{}, nil, false)
	res.Item.Locked = true

	*now = now.Add(s.Tuning.Lifetime + time.Minute)
	if removed := s.DespawnSweep(); len(removed) != 0 {
		t.Fatal("despawned a locked item")
	}

	res.Item.Locked = false
	if removed := s.DespawnSweep(); len(removed) != 1 {
		t.Fatal("unlocked overdue item not despawned")
	}
}
