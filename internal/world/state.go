package world

import (
	"math/rand"
	"time"
)

// Tuning holds the item-economy constants. Distances in world units,
// one block cell = 1.0.
type Tuning struct {
	MaxStack          int32
	MergeRadius       float64
	PickupRadius      float64
	PositionTolerance float64
	DropDistance      float64
	PickupDelay       time.Duration
	PickupCooldown    time.Duration
	Lifetime          time.Duration
	InventorySlots    int
}

// PlayerInfo is the server-side record for one in-world player.
type PlayerInfo struct {
	SessionID uint64
	Name      string
	Pos       Vec3
	Heading   byte // 0-7, see headingDX/DZ in the handler package
	Inventory *Inventory
}

type cooldownKey struct {
	sessionID uint64
	itemID    int32
}

// State is the authoritative world state. Owned by the game-loop
// goroutine; handlers and systems never touch it from elsewhere, so the
// only concurrency-control primitive is the per-item pickup lock flag.
type State struct {
	Tuning Tuning
	Items  *ItemRegistry

	// Clock supplies the current time; overridable in tests.
	Clock func() time.Time

	players   map[uint64]*PlayerInfo
	cooldowns map[cooldownKey]time.Time
	rng       *rand.Rand
}

func NewState(t Tuning) *State {
	return &State{
		Tuning:    t,
		Items:     NewItemRegistry(),
		Clock:     time.Now,
		players:   make(map[uint64]*PlayerInfo),
		cooldowns: make(map[cooldownKey]time.Time),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddPlayer registers a joining player at pos.
func (s *State) AddPlayer(sessionID uint64, name string, pos Vec3) *PlayerInfo {
	p := &PlayerInfo{
		SessionID: sessionID,
		Name:      name,
		Pos:       pos,
		Inventory: NewInventory(s.Tuning.InventorySlots, s.Tuning.MaxStack),
	}
	s.players[sessionID] = p
	return p
}

// RemovePlayer drops the player record and garbage-collects the
// claimant's pickup cooldown entries.
func (s *State) RemovePlayer(sessionID uint64) {
	delete(s.players, sessionID)
	for k := range s.cooldowns {
		if k.sessionID == sessionID {
			delete(s.cooldowns, k)
		}
	}
}

// GetBySession returns the player record or nil.
func (s *State) GetBySession(sessionID uint64) *PlayerInfo {
	return s.players[sessionID]
}

// AllPlayers visits every in-world player.
func (s *State) AllPlayers(fn func(*PlayerInfo)) {
	for _, p := range s.players {
		fn(p)
	}
}

// GetAnchorPosition resolves a claimant's current location. The second
// return is false when the claimant is not in world (disconnected
// mid-request, never joined).
func (s *State) GetAnchorPosition(sessionID uint64) (Vec3, bool) {
	p := s.players[sessionID]
	if p == nil {
		return Vec3{}, false
	}
	return p.Pos, true
}

// AddItem adds count units of kind to the claimant's inventory.
// False when the claimant is absent or the amount does not fit.
func (s *State) AddItem(sessionID uint64, kind, count int32) bool {
	p := s.players[sessionID]
	if p == nil {
		return false
	}
	return p.Inventory.AddItem(kind, count)
}

// RemoveItem removes count units of kind from any of the claimant's slots.
func (s *State) RemoveItem(sessionID uint64, kind, count int32) bool {
	p := s.players[sessionID]
	if p == nil {
		return false
	}
	return p.Inventory.RemoveItem(kind, count)
}

// RemoveItemFromSlot removes count units of kind from one named slot.
func (s *State) RemoveItemFromSlot(sessionID uint64, slot int, kind, count int32) bool {
	p := s.players[sessionID]
	if p == nil {
		return false
	}
	return p.Inventory.RemoveFromSlot(slot, kind, count)
}

// OnPickupCooldown reports whether the claimant attempted this item
// within the cooldown window.
func (s *State) OnPickupCooldown(sessionID uint64, itemID int32, now time.Time) bool {
	last, ok := s.cooldowns[cooldownKey{sessionID, itemID}]
	return ok && now.Sub(last) < s.Tuning.PickupCooldown
}

// StampPickupCooldown records a pickup attempt, successful or not.
func (s *State) StampPickupCooldown(sessionID uint64, itemID int32, now time.Time) {
	s.cooldowns[cooldownKey{sessionID, itemID}] = now
}

// ClearItemCooldowns drops cooldown records for a destroyed item so the
// table stays bounded by the live population.
func (s *State) ClearItemCooldowns(itemID int32) {
	for k := range s.cooldowns {
		if k.itemID == itemID {
			delete(s.cooldowns, k)
		}
	}
}
