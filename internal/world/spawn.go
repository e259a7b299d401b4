package world

// SpawnResult reports the outcome of one spawn request: exactly one of
// Item (a new entity was created) or Merge (the stack was absorbed into
// an existing neighbor) is non-nil.
type SpawnResult struct {
	Item  *GroundItem
	Merge *SpawnMerge
}

// SpawnMerge describes a spawn that merged instead of creating an
// entity. Ghost fields describe the transient visual stack clients
// animate toward the target; the server never tracks the ghost.
type SpawnMerge struct {
	Target   *GroundItem
	GhostID  int32
	Kind     int32
	Count    int32
	GhostPos Vec3
}

// SweepMerge describes one pair combined by the periodic merge sweep.
// The absorbed entity is already removed from the registry.
type SweepMerge struct {
	Target        *GroundItem
	AbsorbedID    int32
	AbsorbedCount int32
}

// SpawnItem places a stack of kind into the world. grid converts
// block-grid coordinates to the cell center. A nil vel gets a
// randomized upward-biased launch so client-side physics never tunnels
// the stack through collision geometry.
//
// If a live, unlocked stack of the same kind sits within the merge
// radius and the combined count fits the cap, the stack is absorbed:
// no entity is created and the result carries the merge instead. The
// first qualifying target in ascending id order wins; no
// distance-minimization search.
func (s *State) SpawnItem(kind, count int32, pos Vec3, vel *Vec3, grid bool) (SpawnResult, bool) {
	if kind <= 0 || count <= 0 || count > s.Tuning.MaxStack {
		return SpawnResult{}, false
	}
	if grid {
		pos = CellCenter(pos)
	}

	radiusSq := s.Tuning.MergeRadius * s.Tuning.MergeRadius
	var target *GroundItem
	s.Items.ForEach(func(it *GroundItem) {
		if target != nil || it.Locked || it.Kind != kind {
			return
		}
		if it.Count+count > s.Tuning.MaxStack {
			return
		}
		if it.Pos.DistSq(pos) <= radiusSq {
			target = it
		}
	})
	if target != nil {
		target.Count += count
		return SpawnResult{Merge: &SpawnMerge{
			Target:   target,
			GhostID:  s.Items.MintID(),
			Kind:     kind,
			Count:    count,
			GhostPos: pos,
		}}, true
	}

	now := s.Clock()
	it := s.Items.Create(kind, count, pos)
	it.SpawnedAt = now
	it.PickupAt = now.Add(s.Tuning.PickupDelay)
	if vel != nil {
		it.Vel = *vel
	} else {
		it.Vel = s.launchVelocity()
	}
	return SpawnResult{Item: it}, true
}

// launchVelocity returns a small random impulse biased upward.
func (s *State) launchVelocity() Vec3 {
	return Vec3{
		X: (s.rng.Float64() - 0.5) * 0.3,
		Y: 0.2 + s.rng.Float64()*0.1,
		Z: (s.rng.Float64() - 0.5) * 0.3,
	}
}

// MergeSweep pairwise-combines same-kind stacks within the merge radius
// whose combined count fits the cap. O(n²) over the live population,
// which is bounded by gameplay pacing. Locked items are skipped on both
// sides; an absorbed item is removed immediately and so is never
// revisited within the pass.
func (s *State) MergeSweep() []SweepMerge {
	radiusSq := s.Tuning.MergeRadius * s.Tuning.MergeRadius
	var merges []SweepMerge
	s.Items.ForEach(func(a *GroundItem) {
		if a.Locked {
			return
		}
		s.Items.ForEach(func(b *GroundItem) {
			if b.ID <= a.ID || b.Locked || b.Kind != a.Kind {
				return
			}
			if a.Count+b.Count > s.Tuning.MaxStack {
				return
			}
			if a.Pos.DistSq(b.Pos) > radiusSq {
				return
			}
			a.Count += b.Count
			s.Items.Remove(b.ID)
			s.ClearItemCooldowns(b.ID)
			merges = append(merges, SweepMerge{
				Target:        a,
				AbsorbedID:    b.ID,
				AbsorbedCount: b.Count,
			})
		})
	})
	return merges
}

// DespawnSweep removes every unlocked item older than the lifetime
// limit and returns the removed entities for broadcast. Binary
// present/removed; no decay states.
func (s *State) DespawnSweep() []*GroundItem {
	now := s.Clock()
	var removed []*GroundItem
	s.Items.ForEach(func(it *GroundItem) {
		if it.Locked {
			return
		}
		if now.Sub(it.SpawnedAt) > s.Tuning.Lifetime {
			s.Items.Remove(it.ID)
			s.ClearItemCooldowns(it.ID)
			removed = append(removed, it)
		}
	})
	return removed
}
