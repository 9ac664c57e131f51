package domain

import "time"

// Type tags an object's place in the asset hierarchy. The known values are below;
// the hierarchy rules engine decides which types (and placements) are accepted.
type Type string

const (
	TypeBuilding Type = "building"
	TypeFloor    Type = "floor"
	TypeRoom     Type = "room"
	TypeDevice   Type = "device"
)

// KnownTypes lists the built-in object types in hierarchy order.
var KnownTypes = []Type{TypeBuilding, TypeFloor, TypeRoom, TypeDevice}

// Object is a node of the building/floor/room/device hierarchy.
type Object struct {
	ID              int64
	Name            string
	Type            Type
	LocationDetails map[string]any // nil if not set
	ParentID        *int64         // nil for a root
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsRoot reports whether the object has no parent.
func (o *Object) IsRoot() bool {
	return o.ParentID == nil
}

// ListFilter narrows ListObjects. A nil ParentID selects root objects.
type ListFilter struct {
	ParentID *int64
	Type     *Type
	Limit    int
	Offset   int
}

// Update carries the optional fields of an object update; nil fields are left unchanged.
// ClearParent moves the object to the root level and takes precedence over ParentID.
type Update struct {
	Name            *string
	LocationDetails map[string]any
	ParentID        *int64
	ClearParent     bool
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.Name == nil && u.LocationDetails == nil && u.ParentID == nil && !u.ClearParent
}
