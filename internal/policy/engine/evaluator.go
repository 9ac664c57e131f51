package engine

import "context"

// Rules decides which object types exist and where each may be placed in the hierarchy.
type Rules interface {
	// CheckPlacement returns an error wrapping apperr.ErrInvalidArgument when an object of objType
	// may not sit under a parent of parentType. An empty parentType means a root placement.
	CheckPlacement(ctx context.Context, objType, parentType string) error
}
