package world

// DefaultInventorySlots is the per-player slot count.
const DefaultInventorySlots = 36

// Slot holds one stack. Kind 0 means empty.
type Slot struct {
	Kind  int32
	Count int32
}

// Inventory is a slot-based item container. All mutating operations are
// atomic from the caller's point of view: they either apply fully or
// leave the inventory untouched and return false.
type Inventory struct {
	slots    []Slot
	maxStack int32
}

func NewInventory(slotCount int, maxStack int32) *Inventory {
	if slotCount <= 0 {
		slotCount = DefaultInventorySlots
	}
	return &Inventory{slots: make([]Slot, slotCount), maxStack: maxStack}
}

// AddItem inserts count units of kind, topping up existing stacks before
// opening empty slots. Returns false (no change) when the full amount
// does not fit.
func (inv *Inventory) AddItem(kind, count int32) bool {
	if kind <= 0 || count <= 0 {
		return false
	}
	// Capacity check first so the apply pass cannot fail halfway.
	free := int32(0)
	for _, s := range inv.slots {
		if s.Kind == kind && s.Count < inv.maxStack {
			free += inv.maxStack - s.Count
		} else if s.Kind == 0 {
			free += inv.maxStack
		}
	}
	if free < count {
		return false
	}

	remaining := count
	for i := range inv.slots {
		s := &inv.slots[i]
		if s.Kind != kind || s.Count >= inv.maxStack {
			continue
		}
		n := min32(remaining, inv.maxStack-s.Count)
		s.Count += n
		remaining -= n
		if remaining == 0 {
			return true
		}
	}
	for i := range inv.slots {
		s := &inv.slots[i]
		if s.Kind != 0 {
			continue
		}
		n := min32(remaining, inv.maxStack)
		s.Kind = kind
		s.Count = n
		remaining -= n
		if remaining == 0 {
			return true
		}
	}
	return true
}

// RemoveItem takes count units of kind from any slots holding it.
// Returns false (no change) when the inventory holds fewer than count.
func (inv *Inventory) RemoveItem(kind, count int32) bool {
	if kind <= 0 || count <= 0 {
		return false
	}
	if inv.CountOf(kind) < count {
		return false
	}
	remaining := count
	for i := range inv.slots {
		s := &inv.slots[i]
		if s.Kind != kind {
			continue
		}
		n := min32(remaining, s.Count)
		s.Count -= n
		if s.Count == 0 {
			s.Kind = 0
		}
		remaining -= n
		if remaining == 0 {
			return true
		}
	}
	return true
}

// RemoveFromSlot takes count units of kind from one named slot. The slot
// must hold that kind with at least count units.
func (inv *Inventory) RemoveFromSlot(index int, kind, count int32) bool {
	if index < 0 || index >= len(inv.slots) || count <= 0 {
		return false
	}
	s := &inv.slots[index]
	if s.Kind != kind || s.Count < count {
		return false
	}
	s.Count -= count
	if s.Count == 0 {
		s.Kind = 0
	}
	return true
}

// CountOf sums the held units of kind across all slots.
func (inv *Inventory) CountOf(kind int32) int32 {
	var total int32
	for _, s := range inv.slots {
		if s.Kind == kind {
			total += s.Count
		}
	}
	return total
}

// Slot returns a copy of the slot at index, for packet building.
func (inv *Inventory) Slot(index int) (Slot, bool) {
	if index < 0 || index >= len(inv.slots) {
		return Slot{}, false
	}
	return inv.slots[index], true
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
