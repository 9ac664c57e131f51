package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	dpdomain "asset-hierarchy/internal/datapoint/domain"
	"asset-hierarchy/internal/hierarchy"
	objdomain "asset-hierarchy/internal/object/domain"
	"asset-hierarchy/internal/platform/apperr"
	"asset-hierarchy/internal/telemetry"
)

// Listing bounds for ListObjects.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ObjectView is an object with its optionally loaded direct children and datapoints.
type ObjectView struct {
	*objdomain.Object
	Children   []*objdomain.Object
	Datapoints []*dpdomain.Datapoint
}

// CreateObject validates o (name, type, parent placement) and stores it. o.ID and timestamps are set on success.
// The type is stored in its normalized (case-folded) form.
func (s *AssetService) CreateObject(ctx context.Context, o *objdomain.Object) (err error) {
	ctx, span := s.start(ctx, "CreateObject")
	defer func() { end(span, err) }()

	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		return apperr.Invalid("name is required")
	}
	o.Type = objdomain.Type(hierarchy.NormalizeType(string(o.Type)))
	if o.Type == "" {
		return apperr.Invalid("type is required")
	}
	parentType := ""
	if o.ParentID != nil {
		parent, err := s.objects.GetByID(ctx, *o.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return apperr.Invalid(fmt.Sprintf("parent object %d does not exist", *o.ParentID))
		}
		parentType = string(parent.Type)
	}
	if err := s.rules.CheckPlacement(ctx, string(o.Type), parentType); err != nil {
		return err
	}
	if err := s.objects.Create(ctx, o); err != nil {
		return err
	}
	span.SetAttributes(attribute.Int64("asset.object_id", o.ID))
	s.emit(telemetry.NewEvent(telemetry.EventObjectCreated, eventSource).
		WithObject(o.ID).
		With("type", string(o.Type)).
		With("name", o.Name))
	return nil
}

// GetObject returns the object, optionally with all of its direct children and owned datapoints.
func (s *AssetService) GetObject(ctx context.Context, id int64, includeChildren, includeDatapoints bool) (view *ObjectView, err error) {
	ctx, span := s.start(ctx, "GetObject", attribute.Int64("asset.object_id", id))
	defer func() { end(span, err) }()

	o, err := s.objects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("object", id)
	}
	view = &ObjectView{Object: o}
	if includeChildren {
		if view.Children, err = s.objects.List(ctx, objdomain.ListFilter{ParentID: &id}); err != nil {
			return nil, err
		}
	}
	if includeDatapoints {
		if view.Datapoints, err = s.datapoints.ListByObject(ctx, id); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// ListObjects lists the children of f.ParentID (roots when nil), optionally by type, ordered by name.
// Limit 0 means DefaultListLimit; otherwise it must be within 1..MaxListLimit, and Offset must not be negative.
func (s *AssetService) ListObjects(ctx context.Context, f objdomain.ListFilter) (objects []*objdomain.Object, err error) {
	ctx, span := s.start(ctx, "ListObjects")
	defer func() { end(span, err) }()

	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit < 1 || f.Limit > MaxListLimit {
		return nil, apperr.Invalid(fmt.Sprintf("limit must be between 1 and %d", MaxListLimit))
	}
	if f.Offset < 0 {
		return nil, apperr.Invalid("offset must not be negative")
	}
	if f.Type != nil {
		t := objdomain.Type(hierarchy.NormalizeType(string(*f.Type)))
		f.Type = &t
	}
	return s.objects.List(ctx, f)
}

// UpdateObject applies u to the object. A new parent must exist, must not be the object itself or one of
// its descendants, and must accept the object's type. The descendant check and the write happen in one
// repository transaction, so two opposite moves cannot both succeed and form a cycle.
func (s *AssetService) UpdateObject(ctx context.Context, id int64, u objdomain.Update) (o *objdomain.Object, err error) {
	ctx, span := s.start(ctx, "UpdateObject", attribute.Int64("asset.object_id", id))
	defer func() { end(span, err) }()

	current, err := s.objects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("object", id)
	}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, apperr.Invalid("name must not be empty")
		}
		u.Name = &name
	}
	var checkParent func([]hierarchy.ObjectRow) error
	switch {
	case u.ClearParent:
		u.ParentID = nil
		if err := s.rules.CheckPlacement(ctx, string(current.Type), ""); err != nil {
			return nil, err
		}
	case u.ParentID != nil:
		parentID := *u.ParentID
		if parentID == id {
			return nil, apperr.Invalid("object cannot be its own parent")
		}
		checkParent = func(chain []hierarchy.ObjectRow) error {
			return s.checkMove(ctx, current, parentID, chain)
		}
	}

	o, err = s.objects.Update(ctx, id, u, checkParent)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("object", id)
	}
	ev := telemetry.NewEvent(telemetry.EventObjectUpdated, eventSource).WithObject(id)
	if u.ClearParent || u.ParentID != nil {
		ev.With("parent_id", o.ParentID)
	}
	s.emit(ev)
	return o, nil
}

// checkMove validates moving obj under parentID, given the new parent's ancestor chain (root first) as read
// by the repository inside the move transaction.
func (s *AssetService) checkMove(ctx context.Context, obj *objdomain.Object, parentID int64, chain []hierarchy.ObjectRow) error {
	if len(chain) == 0 {
		return apperr.Invalid(fmt.Sprintf("parent object %d does not exist", parentID))
	}
	for _, a := range chain {
		if a.ID == obj.ID {
			return apperr.Invalid("object cannot be moved under its own descendant")
		}
	}
	parent := chain[len(chain)-1]
	return s.rules.CheckPlacement(ctx, string(obj.Type), string(parent.Type))
}

// DeleteObject removes the object, its descendants and their associations.
func (s *AssetService) DeleteObject(ctx context.Context, id int64) (err error) {
	ctx, span := s.start(ctx, "DeleteObject", attribute.Int64("asset.object_id", id))
	defer func() { end(span, err) }()

	ok, err := s.objects.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("object", id)
	}
	s.emit(telemetry.NewEvent(telemetry.EventObjectDeleted, eventSource).WithObject(id))
	return nil
}

// ObjectPath returns the names from the root down to the object joined by "." (e.g. "Hotel.Floor 1.Room 101").
func (s *AssetService) ObjectPath(ctx context.Context, id int64) (path string, err error) {
	ctx, span := s.start(ctx, "ObjectPath", attribute.Int64("asset.object_id", id))
	defer func() { end(span, err) }()

	chain, err := s.objects.Ancestors(ctx, id)
	if err != nil {
		return "", err
	}
	if len(chain) == 0 {
		return "", apperr.NotFound("object", id)
	}
	names := make([]string, len(chain))
	for i, a := range chain {
		names[i] = a.Name
	}
	return strings.Join(names, "."), nil
}
