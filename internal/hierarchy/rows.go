// Package hierarchy materializes the asset tree from flat storage rows and resolves
// dot-separated type paths against it. Everything here is pure, in-memory work over rows
// already fetched by the caller; nothing is cached between calls.
package hierarchy

import (
	dpdomain "asset-hierarchy/internal/datapoint/domain"
	objdomain "asset-hierarchy/internal/object/domain"
)

// ObjectRow is one object as read from storage, without datapoints.
type ObjectRow struct {
	ID              int64
	Name            string
	Type            objdomain.Type
	ParentID        *int64
	LocationDetails map[string]any
}

// JoinedRow is one row of objects left-joined with their datapoints.
// An object with N datapoints appears N times; an object with none appears once with a nil Datapoint.
type JoinedRow struct {
	ObjectRow
	Datapoint *dpdomain.Datapoint
}

// RowFromObject converts a stored object to an ObjectRow.
func RowFromObject(o *objdomain.Object) ObjectRow {
	return ObjectRow{
		ID:              o.ID,
		Name:            o.Name,
		Type:            o.Type,
		ParentID:        o.ParentID,
		LocationDetails: o.LocationDetails,
	}
}
