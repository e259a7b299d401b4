package persist

import (
	"context"
	"fmt"
	"time"
)

// ItemWALEntry is one item-economy audit record. The dropped-item state
// itself is never persisted; the WAL exists so duplication reports can
// be investigated after the fact.
type ItemWALEntry struct {
	TxType    string // "pickup" or "drop"
	SessionID uint64
	ItemID    int32
	Kind      int32
	Count     int32
	At        time.Time
}

type ItemWALRepo struct {
	db *DB
}

func NewItemWALRepo(db *DB) *ItemWALRepo {
	return &ItemWALRepo{db: db}
}

// WriteBatch writes one flush interval's entries in a single
// transaction, preserving emission order.
func (r *ItemWALRepo) WriteBatch(ctx context.Context, entries []ItemWALEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("item wal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO item_wal (tx_type, session_id, item_id, kind, count, at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.TxType, int64(e.SessionID), e.ItemID, e.Kind, e.Count, e.At,
		); err != nil {
			return fmt.Errorf("item wal insert: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// CountSince reports how many audit entries landed after the cutoff.
// Logged at boot as a liveness check on the audit trail.
func (r *ItemWALRepo) CountSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM item_wal WHERE at > $1`, cutoff,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("item wal count: %w", err)
	}
	return n, nil
}
