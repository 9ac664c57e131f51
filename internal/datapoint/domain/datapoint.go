package domain

import "time"

// Datapoint is a named value (with optional unit and type) that can be owned by at most one object.
type Datapoint struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	Unit      *string   `json:"unit"`
	Type      *string   `json:"type"` // matched by path segments; nil never matches
	IsFresh   bool      `json:"is_fresh"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TypeName returns the datapoint type or "" when unset.
func (d *Datapoint) TypeName() string {
	if d == nil || d.Type == nil {
		return ""
	}
	return *d.Type
}

// Update carries the optional fields of a datapoint update; nil fields are left unchanged.
type Update struct {
	Name    *string
	Value   *string
	Unit    *string
	Type    *string
	IsFresh *bool
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.Name == nil && u.Value == nil && u.Unit == nil && u.Type == nil && u.IsFresh == nil
}
