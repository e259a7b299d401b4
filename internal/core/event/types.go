package event

// --- Session lifecycle events ---

type PlayerJoined struct {
	SessionID uint64
	Name      string
}

type PlayerDisconnected struct {
	SessionID uint64
}

// --- Item economy events (emitted by handlers/sweeps, readable next tick) ---
// Subscribers: WALFlushSystem (audit trail), obs bridge (metrics + admin feed).

// ItemSpawned is emitted when a new ground item entity is created
// (block break, death drop, discard).
type ItemSpawned struct {
	ItemID  int32
	Kind    int32
	Count   int32
	X, Y, Z float64
}

// ItemsMerged is emitted when a stack is absorbed into a neighbor,
// either on spawn (AbsorbedID == 0, the stack never became an entity)
// or by the periodic merge sweep.
type ItemsMerged struct {
	TargetID   int32
	AbsorbedID int32
	Kind       int32
	NewCount   int32
}

// ItemPickedUp is emitted after a successful pickup commit — the entity
// is already gone from the registry and the claimant's inventory holds
// the contents.
type ItemPickedUp struct {
	SessionID uint64
	ItemID    int32
	Kind      int32
	Count     int32
}

// ItemDropped is emitted after a successful drop admission.
type ItemDropped struct {
	SessionID uint64
	ItemID    int32
	Kind      int32
	Count     int32
}

// PickupRejected is emitted when a pickup request fails any admission
// check. The claimant gets no response (adversarial clients learn
// nothing); observers count rejections by reason.
type PickupRejected struct {
	SessionID uint64
	ItemID    int32
	Reason    string
}

// ItemDespawned is emitted by the despawn sweep for lifetime-expired items.
type ItemDespawned struct {
	ItemID int32
	Kind   int32
	Count  int32
}
