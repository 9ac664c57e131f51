package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	dpdomain "asset-hierarchy/internal/datapoint/domain"
	"asset-hierarchy/internal/platform/apperr"
	"asset-hierarchy/internal/telemetry"
)

// DatapointView is a datapoint with the id of the object that owns it, if any.
type DatapointView struct {
	*dpdomain.Datapoint
	ObjectID *int64
}

// AssociateDatapoint makes objectID the only owner of datapointID, replacing any previous owner.
func (s *AssetService) AssociateDatapoint(ctx context.Context, datapointID, objectID int64) (err error) {
	ctx, span := s.start(ctx, "AssociateDatapoint",
		attribute.Int64("asset.datapoint_id", datapointID),
		attribute.Int64("asset.object_id", objectID))
	defer func() {
		s.associated.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
		end(span, err)
	}()

	previous, err := s.assoc.Owner(ctx, datapointID)
	if err != nil {
		return err
	}
	if err := s.assoc.Associate(ctx, datapointID, objectID); err != nil {
		return err
	}
	ev := telemetry.NewEvent(telemetry.EventDatapointAssociated, eventSource).
		WithObject(objectID).
		WithDatapoint(datapointID)
	if previous != nil && *previous != objectID {
		ev.With("previous_object_id", *previous)
	}
	s.emit(ev)
	return nil
}

// DissociateDatapoint removes the datapoint's owner, if any.
func (s *AssetService) DissociateDatapoint(ctx context.Context, datapointID int64) (err error) {
	ctx, span := s.start(ctx, "DissociateDatapoint", attribute.Int64("asset.datapoint_id", datapointID))
	defer func() { end(span, err) }()

	d, err := s.datapoints.GetByID(ctx, datapointID)
	if err != nil {
		return err
	}
	if d == nil {
		return apperr.NotFound("datapoint", datapointID)
	}
	previous, err := s.assoc.Owner(ctx, datapointID)
	if err != nil {
		return err
	}
	if err := s.assoc.Dissociate(ctx, datapointID); err != nil {
		return err
	}
	ev := telemetry.NewEvent(telemetry.EventDatapointDissociated, eventSource).WithDatapoint(datapointID)
	if previous != nil {
		ev.WithObject(*previous)
	}
	s.emit(ev)
	return nil
}

// CreateDatapoint stores a new, unassociated datapoint. d.ID and timestamps are set on success.
func (s *AssetService) CreateDatapoint(ctx context.Context, d *dpdomain.Datapoint) (err error) {
	ctx, span := s.start(ctx, "CreateDatapoint")
	defer func() { end(span, err) }()

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return apperr.Invalid("name is required")
	}
	if d.Type != nil {
		t := strings.TrimSpace(*d.Type)
		d.Type = &t
	}
	if err := s.datapoints.Create(ctx, d); err != nil {
		return err
	}
	span.SetAttributes(attribute.Int64("asset.datapoint_id", d.ID))
	s.emit(telemetry.NewEvent(telemetry.EventDatapointCreated, eventSource).
		WithDatapoint(d.ID).
		With("type", d.TypeName()))
	return nil
}

// GetDatapoint returns the datapoint and its owning object id.
func (s *AssetService) GetDatapoint(ctx context.Context, id int64) (view *DatapointView, err error) {
	ctx, span := s.start(ctx, "GetDatapoint", attribute.Int64("asset.datapoint_id", id))
	defer func() { end(span, err) }()

	d, err := s.datapoints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("datapoint", id)
	}
	return s.withOwner(ctx, d)
}

// UpdateDatapoint applies u; at least one field must be set.
func (s *AssetService) UpdateDatapoint(ctx context.Context, id int64, u dpdomain.Update) (view *DatapointView, err error) {
	ctx, span := s.start(ctx, "UpdateDatapoint", attribute.Int64("asset.datapoint_id", id))
	defer func() { end(span, err) }()

	if u.Empty() {
		return nil, apperr.Invalid("at least one field must be provided for update")
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return nil, apperr.Invalid("name must not be empty")
	}
	d, err := s.datapoints.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("datapoint", id)
	}
	view, err = s.withOwner(ctx, d)
	if err != nil {
		return nil, err
	}
	ev := telemetry.NewEvent(telemetry.EventDatapointUpdated, eventSource).WithDatapoint(id)
	if view.ObjectID != nil {
		ev.WithObject(*view.ObjectID)
	}
	if u.Value != nil {
		ev.With("value", *u.Value)
	}
	s.emit(ev)
	return view, nil
}

// DeleteDatapoint removes the datapoint and its association.
func (s *AssetService) DeleteDatapoint(ctx context.Context, id int64) (err error) {
	ctx, span := s.start(ctx, "DeleteDatapoint", attribute.Int64("asset.datapoint_id", id))
	defer func() { end(span, err) }()

	ok, err := s.datapoints.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("datapoint", id)
	}
	s.emit(telemetry.NewEvent(telemetry.EventDatapointDeleted, eventSource).WithDatapoint(id))
	return nil
}

func (s *AssetService) withOwner(ctx context.Context, d *dpdomain.Datapoint) (*DatapointView, error) {
	owner, err := s.assoc.Owner(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return &DatapointView{Datapoint: d, ObjectID: owner}, nil
}
