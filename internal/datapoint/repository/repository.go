package repository

import (
	"context"

	"asset-hierarchy/internal/datapoint/domain"
)

// Repository defines persistence for datapoints. Ownership lives in the association store.
type Repository interface {
	// Create inserts d and sets its ID and timestamps.
	Create(ctx context.Context, d *domain.Datapoint) error
	GetByID(ctx context.Context, id int64) (*domain.Datapoint, error)
	// Update applies u and returns the stored datapoint, or nil if id does not exist.
	Update(ctx context.Context, id int64, u domain.Update) (*domain.Datapoint, error)
	// Delete removes the datapoint and its association. Returns false if id did not exist.
	Delete(ctx context.Context, id int64) (bool, error)
	// ListByObject returns the datapoints currently owned by objectID, newest first.
	ListByObject(ctx context.Context, objectID int64) ([]*domain.Datapoint, error)
}
