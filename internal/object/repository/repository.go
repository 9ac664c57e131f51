package repository

import (
	"context"

	"asset-hierarchy/internal/hierarchy"
	"asset-hierarchy/internal/object/domain"
)

// Repository defines persistence for hierarchy objects and the flat reads the tree engine consumes.
type Repository interface {
	// Create inserts o and sets its ID and timestamps.
	Create(ctx context.Context, o *domain.Object) error
	GetByID(ctx context.Context, id int64) (*domain.Object, error)
	List(ctx context.Context, f domain.ListFilter) ([]*domain.Object, error)
	// Update applies u and returns the stored object, or nil if id does not exist. A reparenting update
	// runs checkParent against the new parent's ancestor chain in the same transaction as the write.
	Update(ctx context.Context, id int64, u domain.Update, checkParent func([]hierarchy.ObjectRow) error) (*domain.Object, error)
	// Delete removes the object with its descendants and associations. Returns false if id did not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	ListAll(ctx context.Context) ([]hierarchy.ObjectRow, error)
	ListJoined(ctx context.Context) ([]hierarchy.JoinedRow, error)
	SubtreeJoined(ctx context.Context, rootID int64) ([]hierarchy.JoinedRow, error)
	// Ancestors returns the chain from the root down to id (inclusive), or nil if id does not exist.
	Ancestors(ctx context.Context, id int64) ([]hierarchy.ObjectRow, error)
}
