// Package association enforces single ownership of datapoints: a datapoint is associated
// with at most one object at a time, and re-associating it replaces the previous owner.
package association

import (
	"context"
	"fmt"

	"asset-hierarchy/internal/platform/apperr"
)

// Tx is the set of statements the manager runs inside one storage transaction.
type Tx interface {
	// LockDatapoint reports whether the datapoint exists and, where the store supports it,
	// locks it until the transaction ends so concurrent re-associations serialize.
	LockDatapoint(ctx context.Context, datapointID int64) (bool, error)
	ObjectExists(ctx context.Context, objectID int64) (bool, error)
	DeleteByDatapoint(ctx context.Context, datapointID int64) error
	Insert(ctx context.Context, objectID, datapointID int64) error
	OwnerOf(ctx context.Context, datapointID int64) (*int64, error)
}

// Store runs fn inside a transaction: committed when fn returns nil, rolled back otherwise.
type Store interface {
	WithinTx(ctx context.Context, fn func(Tx) error) error
}

// Manager applies association changes through a Store.
type Manager struct {
	store Store
}

// NewManager returns a Manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Associate makes objectID the only owner of datapointID. The existence checks, the delete of
// any previous association and the insert all run in one transaction. It returns an error wrapping
// apperr.ErrNotFound when either id does not exist. Calling it twice with the same arguments
// leaves the same single association.
func (m *Manager) Associate(ctx context.Context, datapointID, objectID int64) error {
	return m.store.WithinTx(ctx, func(tx Tx) error {
		ok, err := tx.LockDatapoint(ctx, datapointID)
		if err != nil {
			return fmt.Errorf("lock datapoint: %w", err)
		}
		if !ok {
			return apperr.NotFound("datapoint", datapointID)
		}
		ok, err = tx.ObjectExists(ctx, objectID)
		if err != nil {
			return fmt.Errorf("check object: %w", err)
		}
		if !ok {
			return apperr.NotFound("object", objectID)
		}
		if err := tx.DeleteByDatapoint(ctx, datapointID); err != nil {
			return fmt.Errorf("delete association: %w", err)
		}
		if err := tx.Insert(ctx, objectID, datapointID); err != nil {
			return fmt.Errorf("insert association: %w", err)
		}
		return nil
	})
}

// Dissociate removes the datapoint's association, if any. Missing datapoints are not an error.
func (m *Manager) Dissociate(ctx context.Context, datapointID int64) error {
	return m.store.WithinTx(ctx, func(tx Tx) error {
		return tx.DeleteByDatapoint(ctx, datapointID)
	})
}

// Owner returns the id of the object owning datapointID, or nil when it is unassociated.
func (m *Manager) Owner(ctx context.Context, datapointID int64) (*int64, error) {
	var owner *int64
	err := m.store.WithinTx(ctx, func(tx Tx) error {
		var err error
		owner, err = tx.OwnerOf(ctx, datapointID)
		return err
	})
	return owner, err
}
