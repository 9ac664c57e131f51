package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"asset-hierarchy/internal/hierarchy"
	"asset-hierarchy/internal/platform/apperr"
)

// Tree returns the plain object tree below parentID, or the whole forest when parentID is nil.
func (s *AssetService) Tree(ctx context.Context, parentID *int64) (nodes []*hierarchy.TreeNode, err error) {
	ctx, span := s.start(ctx, "Tree")
	defer func() { end(span, err) }()

	if parentID != nil {
		parent, err := s.objects.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFound("object", *parentID)
		}
	}
	rows, err := s.objects.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return hierarchy.BuildTree(rows, parentID), nil
}

// Subtree returns objectID with all descendants and their datapoints.
func (s *AssetService) Subtree(ctx context.Context, objectID int64) (node *hierarchy.Node, err error) {
	ctx, span := s.start(ctx, "Subtree", attribute.Int64("asset.object_id", objectID))
	defer func() { end(span, err) }()

	rows, err := s.objects.SubtreeJoined(ctx, objectID)
	if err != nil {
		return nil, err
	}
	node, err = hierarchy.BuildSubtree(rows, objectID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("asset.subtree_size", node.Size()))
	return node, nil
}

// Hierarchy returns every root with its full subtree and datapoints.
func (s *AssetService) Hierarchy(ctx context.Context) (forest []*hierarchy.Node, err error) {
	ctx, span := s.start(ctx, "Hierarchy")
	defer func() { end(span, err) }()

	rows, err := s.objects.ListJoined(ctx)
	if err != nil {
		return nil, err
	}
	return hierarchy.BuildForest(rows), nil
}

// ResolvePath resolves an absolute type path (e.g. "building.floor.room.temperature") against the whole forest.
func (s *AssetService) ResolvePath(ctx context.Context, path string) (res hierarchy.Resolution, err error) {
	ctx, span := s.start(ctx, "ResolvePath", attribute.String("asset.path", path))
	defer func() {
		s.countResolution(ctx, "absolute", err)
		end(span, err)
	}()

	rows, err := s.objects.ListJoined(ctx)
	if err != nil {
		return hierarchy.Resolution{}, err
	}
	return hierarchy.ResolvePath(hierarchy.BuildForest(rows), path)
}

// ResolveRelative resolves path inside the subtree rooted at objectID and returns every datapoint match.
func (s *AssetService) ResolveRelative(ctx context.Context, objectID int64, path string) (matches []hierarchy.Match, err error) {
	ctx, span := s.start(ctx, "ResolveRelative",
		attribute.Int64("asset.object_id", objectID),
		attribute.String("asset.path", path))
	defer func() {
		s.countResolution(ctx, "relative", err)
		end(span, err)
	}()

	root, err := s.Subtree(ctx, objectID)
	if err != nil {
		return nil, err
	}
	matches, err = hierarchy.ResolveRelative(root, path)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("asset.matches", len(matches)))
	return matches, nil
}

func (s *AssetService) countResolution(ctx context.Context, mode string, err error) {
	s.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome(err)),
	))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrInvalidPath), errors.Is(err, apperr.ErrInvalidArgument):
		return "invalid"
	}
	return "error"
}
