// Package service implements the asset hierarchy use cases on top of the repositories,
// the in-memory tree engine, the association manager and the placement rules.
package service

import (
	"context"
	"log"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	dpdomain "asset-hierarchy/internal/datapoint/domain"
	"asset-hierarchy/internal/hierarchy"
	objdomain "asset-hierarchy/internal/object/domain"
	"asset-hierarchy/internal/policy/engine"
	"asset-hierarchy/internal/telemetry"
)

const (
	instrumentationName = "asset-hierarchy/internal/asset/service"
	eventSource         = "asset-service"
)

// ObjectRepo is the object persistence needed by the asset service.
type ObjectRepo interface {
	Create(ctx context.Context, o *objdomain.Object) error
	GetByID(ctx context.Context, id int64) (*objdomain.Object, error)
	List(ctx context.Context, f objdomain.ListFilter) ([]*objdomain.Object, error)
	// Update applies u atomically. When u sets a parent and checkParent is not nil, checkParent receives the
	// new parent's ancestor chain (root first, empty if it does not exist) under the repository's move lock
	// and its error aborts the update.
	Update(ctx context.Context, id int64, u objdomain.Update, checkParent func([]hierarchy.ObjectRow) error) (*objdomain.Object, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListAll(ctx context.Context) ([]hierarchy.ObjectRow, error)
	ListJoined(ctx context.Context) ([]hierarchy.JoinedRow, error)
	SubtreeJoined(ctx context.Context, rootID int64) ([]hierarchy.JoinedRow, error)
	Ancestors(ctx context.Context, id int64) ([]hierarchy.ObjectRow, error)
}

// DatapointRepo is the datapoint persistence needed by the asset service.
type DatapointRepo interface {
	Create(ctx context.Context, d *dpdomain.Datapoint) error
	GetByID(ctx context.Context, id int64) (*dpdomain.Datapoint, error)
	Update(ctx context.Context, id int64, u dpdomain.Update) (*dpdomain.Datapoint, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListByObject(ctx context.Context, objectID int64) ([]*dpdomain.Datapoint, error)
}

// Associations owns the datapoint-to-object links (see association.Manager).
type Associations interface {
	Associate(ctx context.Context, datapointID, objectID int64) error
	Dissociate(ctx context.Context, datapointID int64) error
	Owner(ctx context.Context, datapointID int64) (*int64, error)
}

// AssetService implements the hierarchy reads, path resolution, association and CRUD operations.
type AssetService struct {
	objects    ObjectRepo
	datapoints DatapointRepo
	assoc      Associations
	rules      engine.Rules
	events     telemetry.EventEmitter

	tracer      trace.Tracer
	resolutions metric.Int64Counter
	associated  metric.Int64Counter
}

// NewAssetService returns an AssetService with the given dependencies.
// events, tp and mp may be nil: events are then dropped and spans and metrics are no-ops.
func NewAssetService(
	objects ObjectRepo,
	datapoints DatapointRepo,
	assoc Associations,
	rules engine.Rules,
	events telemetry.EventEmitter,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
) *AssetService {
	if tp == nil {
		tp = tracenoop.NewTracerProvider()
	}
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	resolutions, err := meter.Int64Counter("asset.path.resolutions",
		metric.WithDescription("Path resolutions by mode and outcome."),
		metric.WithUnit("{resolution}"))
	if err != nil {
		log.Printf("asset: create resolutions counter: %v", err)
		resolutions, _ = metricnoop.NewMeterProvider().Meter(instrumentationName).Int64Counter("asset.path.resolutions")
	}
	associated, err := meter.Int64Counter("asset.associations",
		metric.WithDescription("Datapoint associations by outcome."),
		metric.WithUnit("{association}"))
	if err != nil {
		log.Printf("asset: create associations counter: %v", err)
		associated, _ = metricnoop.NewMeterProvider().Meter(instrumentationName).Int64Counter("asset.associations")
	}
	return &AssetService{
		objects:     objects,
		datapoints:  datapoints,
		assoc:       assoc,
		rules:       rules,
		events:      events,
		tracer:      tp.Tracer(instrumentationName),
		resolutions: resolutions,
		associated:  associated,
	}
}

func (s *AssetService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "AssetService."+op, trace.WithAttributes(attrs...))
}

// end records err on span (if any) and ends it. Use as: defer func() { end(span, err) }().
func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

func (s *AssetService) emit(event *telemetry.Event) {
	telemetry.EmitAsync(s.events, event)
}
