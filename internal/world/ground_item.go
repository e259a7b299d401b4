package world

import (
	"sort"
	"time"
)

// GroundItem is a transient pickable world object. All fields are owned
// by the game-loop goroutine; Locked is the cross-request exclusivity
// flag for the pickup protocol (see handler package).
type GroundItem struct {
	ID    int32
	Kind  int32
	Count int32 // always in [1, max stack]
	Pos   Vec3
	Vel   Vec3 // launch velocity at spawn, client-simulated afterwards

	SpawnedAt time.Time
	PickupAt  time.Time // grace deadline; no pickup succeeds before this

	Locked bool
}

// ItemRegistry is the single source of truth for live ground items.
// IDs increase monotonically and are never reused within a process.
// It enforces structural invariants only; the lock protocol is the
// pickup handler's responsibility.
type ItemRegistry struct {
	items  map[int32]*GroundItem
	nextID int32
}

func NewItemRegistry() *ItemRegistry {
	return &ItemRegistry{items: make(map[int32]*GroundItem)}
}

// MintID allocates the next entity id without registering anything.
// Used for the transient merge-ghost visuals, which clients animate and
// discard but the server never tracks.
func (r *ItemRegistry) MintID() int32 {
	r.nextID++
	return r.nextID
}

// Create registers a new ground item and assigns its id. The caller
// fills velocity and timing fields before the item is broadcast.
func (r *ItemRegistry) Create(kind, count int32, pos Vec3) *GroundItem {
	it := &GroundItem{
		ID:    r.MintID(),
		Kind:  kind,
		Count: count,
		Pos:   pos,
	}
	r.items[it.ID] = it
	return it
}

// Get returns the item or nil.
func (r *ItemRegistry) Get(id int32) *GroundItem {
	return r.items[id]
}

// Remove deletes the item; no-op on an absent id.
func (r *ItemRegistry) Remove(id int32) {
	delete(r.items, id)
}

func (r *ItemRegistry) Len() int {
	return len(r.items)
}

// ForEach visits live items in ascending id order. The id snapshot is
// taken up front, so fn may remove the visited item (or any other);
// removed items are simply skipped.
func (r *ItemRegistry) ForEach(fn func(*GroundItem)) {
	ids := make([]int32, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if it, ok := r.items[id]; ok {
			fn(it)
		}
	}
}
