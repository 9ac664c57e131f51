package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	assetv1 "asset-hierarchy/api/asset/v1"
	"asset-hierarchy/internal/asset/service"
	dpdomain "asset-hierarchy/internal/datapoint/domain"
	"asset-hierarchy/internal/hierarchy"
	objdomain "asset-hierarchy/internal/object/domain"
	"asset-hierarchy/internal/platform/apperr"
)

// Assets is the asset service API served over gRPC (implemented by *service.AssetService).
type Assets interface {
	Tree(ctx context.Context, parentID *int64) ([]*hierarchy.TreeNode, error)
	Subtree(ctx context.Context, objectID int64) (*hierarchy.Node, error)
	Hierarchy(ctx context.Context) ([]*hierarchy.Node, error)
	ResolvePath(ctx context.Context, path string) (hierarchy.Resolution, error)
	ResolveRelative(ctx context.Context, objectID int64, path string) ([]hierarchy.Match, error)
	AssociateDatapoint(ctx context.Context, datapointID, objectID int64) error
	DissociateDatapoint(ctx context.Context, datapointID int64) error
	CreateObject(ctx context.Context, o *objdomain.Object) error
	GetObject(ctx context.Context, id int64, includeChildren, includeDatapoints bool) (*service.ObjectView, error)
	ListObjects(ctx context.Context, f objdomain.ListFilter) ([]*objdomain.Object, error)
	UpdateObject(ctx context.Context, id int64, u objdomain.Update) (*objdomain.Object, error)
	DeleteObject(ctx context.Context, id int64) error
	ObjectPath(ctx context.Context, id int64) (string, error)
	CreateDatapoint(ctx context.Context, d *dpdomain.Datapoint) error
	GetDatapoint(ctx context.Context, id int64) (*service.DatapointView, error)
	UpdateDatapoint(ctx context.Context, id int64, u dpdomain.Update) (*service.DatapointView, error)
	DeleteDatapoint(ctx context.Context, id int64) error
}

// Server implements AssetService (gRPC) on top of Assets.
type Server struct {
	assetv1.UnimplementedAssetServiceServer
	assets Assets
}

// NewServer returns a new Asset gRPC server. Pass nil assets for stub (Unimplemented).
func NewServer(assets Assets) *Server {
	return &Server{assets: assets}
}

// grpcError maps service errors to gRPC status codes.
func grpcError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperr.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, apperr.ErrInvalidPath), errors.Is(err, apperr.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func (s *Server) decode(method string, in *structpb.Struct, v any) error {
	if s.assets == nil {
		return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
	}
	if err := assetv1.Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	out, err := assetv1.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	return nil
}

type objectJSON struct {
	ID              int64                 `json:"id"`
	Name            string                `json:"name"`
	Type            objdomain.Type        `json:"type"`
	LocationDetails map[string]any        `json:"location_details"`
	ParentID        *int64                `json:"parent_id"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Children        []objectJSON          `json:"children,omitempty"`
	Datapoints      []*dpdomain.Datapoint `json:"datapoints,omitempty"`
}

func objectToJSON(o *objdomain.Object) objectJSON {
	return objectJSON{
		ID:              o.ID,
		Name:            o.Name,
		Type:            o.Type,
		LocationDetails: o.LocationDetails,
		ParentID:        o.ParentID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func objectsToJSON(list []*objdomain.Object) []objectJSON {
	out := make([]objectJSON, 0, len(list))
	for _, o := range list {
		out = append(out, objectToJSON(o))
	}
	return out
}

type datapointJSON struct {
	*dpdomain.Datapoint
	ObjectID *int64 `json:"object_id"`
}

func datapointToJSON(v *service.DatapointView) datapointJSON {
	return datapointJSON{Datapoint: v.Datapoint, ObjectID: v.ObjectID}
}

// GetTree returns the plain object tree below parent_id, or the whole forest.
func (s *Server) GetTree(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		ParentID *int64 `json:"parent_id"`
	}
	if err := s.decode(assetv1.MethodGetTree, in, &req); err != nil {
		return nil, err
	}
	nodes, err := s.assets.Tree(ctx, req.ParentID)
	if err != nil {
		return nil, grpcError(err)
	}
	if nodes == nil {
		nodes = []*hierarchy.TreeNode{}
	}
	return encode(map[string]any{"nodes": nodes})
}

// GetSubtree returns object_id with its descendants and datapoints.
func (s *Server) GetSubtree(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		ObjectID int64 `json:"object_id"`
	}
	if err := s.decode(assetv1.MethodGetSubtree, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("object_id", req.ObjectID); err != nil {
		return nil, err
	}
	node, err := s.assets.Subtree(ctx, req.ObjectID)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(node)
}

// GetHierarchy returns every root with its full subtree and datapoints.
func (s *Server) GetHierarchy(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct{}
	if err := s.decode(assetv1.MethodGetHierarchy, in, &req); err != nil {
		return nil, err
	}
	forest, err := s.assets.Hierarchy(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(map[string]any{"nodes": forest})
}

// ResolvePath resolves an absolute type path. The response holds either node or owner and datapoint.
func (s *Server) ResolvePath(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		Path string `json:"path"`
	}
	if err := s.decode(assetv1.MethodResolvePath, in, &req); err != nil {
		return nil, err
	}
	res, err := s.assets.ResolvePath(ctx, req.Path)
	if err != nil {
		return nil, grpcError(err)
	}
	if res.IsDatapoint() {
		return encode(map[string]any{"owner": res.Owner, "datapoint": res.Datapoint})
	}
	return encode(map[string]any{"node": res.Node})
}

// ResolveRelative resolves path under object_id and returns every match.
func (s *Server) ResolveRelative(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		ObjectID int64  `json:"object_id"`
		Path     string `json:"path"`
	}
	if err := s.decode(assetv1.MethodResolveRelative, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("object_id", req.ObjectID); err != nil {
		return nil, err
	}
	matches, err := s.assets.ResolveRelative(ctx, req.ObjectID, req.Path)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(map[string]any{"matches": matches})
}

// AssociateDatapoint makes object_id the owner of datapoint_id.
func (s *Server) AssociateDatapoint(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		DatapointID int64 `json:"datapoint_id"`
		ObjectID    int64 `json:"object_id"`
	}
	if err := s.decode(assetv1.MethodAssociateDatapoint, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("datapoint_id", req.DatapointID); err != nil {
		return nil, err
	}
	if err := requireID("object_id", req.ObjectID); err != nil {
		return nil, err
	}
	if err := s.assets.AssociateDatapoint(ctx, req.DatapointID, req.ObjectID); err != nil {
		return nil, grpcError(err)
	}
	return encode(map[string]any{"datapoint_id": req.DatapointID, "object_id": req.ObjectID})
}

// DissociateDatapoint removes the owner of datapoint_id.
func (s *Server) DissociateDatapoint(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		DatapointID int64 `json:"datapoint_id"`
	}
	if err := s.decode(assetv1.MethodDissociateDatapoint, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("datapoint_id", req.DatapointID); err != nil {
		return nil, err
	}
	if err := s.assets.DissociateDatapoint(ctx, req.DatapointID); err != nil {
		return nil, grpcError(err)
	}
	return &structpb.Struct{}, nil
}

// CreateObject creates an object and returns it.
func (s *Server) CreateObject(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		Name            string         `json:"name"`
		Type            string         `json:"type"`
		LocationDetails map[string]any `json:"location_details"`
		ParentID        *int64         `json:"parent_id"`
	}
	if err := s.decode(assetv1.MethodCreateObject, in, &req); err != nil {
		return nil, err
	}
	o := &objdomain.Object{
		Name:            req.Name,
		Type:            objdomain.Type(req.Type),
		LocationDetails: req.LocationDetails,
		ParentID:        req.ParentID,
	}
	if err := s.assets.CreateObject(ctx, o); err != nil {
		return nil, grpcError(err)
	}
	return encode(objectToJSON(o))
}

// GetObject returns an object, optionally with its children and datapoints.
func (s *Server) GetObject(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		ObjectID          int64 `json:"object_id"`
		IncludeChildren   bool  `json:"include_children"`
		IncludeDatapoints bool  `json:"include_datapoints"`
	}
	if err := s.decode(assetv1.MethodGetObject, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("object_id", req.ObjectID); err != nil {
		return nil, err
	}
	view, err := s.assets.GetObject(ctx, req.ObjectID, req.IncludeChildren, req.IncludeDatapoints)
	if err != nil {
		return nil, grpcError(err)
	}
	out := objectToJSON(view.Object)
	if req.IncludeChildren {
		out.Children = objectsToJSON(view.Children)
	}
	if req.IncludeDatapoints {
		out.Datapoints = view.Datapoints
	}
	return encode(out)
}

// ListObjects lists the children of parent_id (roots when absent), optionally by type.
func (s *Server) ListObjects(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		ParentID *int64 `json:"parent_id"`
		Type     string `json:"type"`
		Limit    int    `json:"limit"`
		Offset   int    `json:"offset"`
	}
	if err := s.decode(assetv1.MethodListObjects, in, &req); err != nil {
		return nil, err
	}
	f := objdomain.ListFilter{ParentID: req.ParentID, Limit: req.Limit, Offset: req.Offset}
	if req.Type != "" {
		t := objdomain.Type(req.Type)
		f.Type = &t
	}
	list, err := s.assets.ListObjects(ctx, f)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(map[string]any{"objects": objectsToJSON(list)})
}

// UpdateObject updates the given fields. "parent_id": null moves the object to the root level.
func (s *Server) UpdateObject(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		ObjectID        int64           `json:"object_id"`
		Name            *string         `json:"name"`
		LocationDetails map[string]any  `json:"location_details"`
		ParentID        json.RawMessage `json:"parent_id"`
	}
	if err := s.decode(assetv1.MethodUpdateObject, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("object_id", req.ObjectID); err != nil {
		return nil, err
	}
	u := objdomain.Update{Name: req.Name, LocationDetails: req.LocationDetails}
	switch {
	case len(req.ParentID) == 0:
	case string(req.ParentID) == "null":
		u.ClearParent = true
	default:
		var parentID int64
		if err := json.Unmarshal(req.ParentID, &parentID); err != nil {
			return nil, status.Error(codes.InvalidArgument, "parent_id must be an integer or null")
		}
		u.ParentID = &parentID
	}
	o, err := s.assets.UpdateObject(ctx, req.ObjectID, u)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(objectToJSON(o))
}

// DeleteObject deletes an object with its descendants.
func (s *Server) DeleteObject(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		ObjectID int64 `json:"object_id"`
	}
	if err := s.decode(assetv1.MethodDeleteObject, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("object_id", req.ObjectID); err != nil {
		return nil, err
	}
	if err := s.assets.DeleteObject(ctx, req.ObjectID); err != nil {
		return nil, grpcError(err)
	}
	return &structpb.Struct{}, nil
}

// GetObjectPath returns the ancestor name path of an object.
func (s *Server) GetObjectPath(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		ObjectID int64 `json:"object_id"`
	}
	if err := s.decode(assetv1.MethodGetObjectPath, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("object_id", req.ObjectID); err != nil {
		return nil, err
	}
	path, err := s.assets.ObjectPath(ctx, req.ObjectID)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(map[string]any{"path": path})
}

type datapointFields struct {
	Name    *string `json:"name"`
	Value   *string `json:"value"`
	Unit    *string `json:"unit"`
	Type    *string `json:"type"`
	IsFresh *bool   `json:"is_fresh"`
}

// CreateDatapoint creates an unassociated datapoint.
func (s *Server) CreateDatapoint(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req datapointFields
	if err := s.decode(assetv1.MethodCreateDatapoint, in, &req); err != nil {
		return nil, err
	}
	d := &dpdomain.Datapoint{Unit: req.Unit, Type: req.Type}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Value != nil {
		d.Value = *req.Value
	}
	if req.IsFresh != nil {
		d.IsFresh = *req.IsFresh
	}
	if err := s.assets.CreateDatapoint(ctx, d); err != nil {
		return nil, grpcError(err)
	}
	return encode(datapointJSON{Datapoint: d})
}

// GetDatapoint returns a datapoint with its owning object id.
func (s *Server) GetDatapoint(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		DatapointID int64 `json:"datapoint_id"`
	}
	if err := s.decode(assetv1.MethodGetDatapoint, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("datapoint_id", req.DatapointID); err != nil {
		return nil, err
	}
	view, err := s.assets.GetDatapoint(ctx, req.DatapointID)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(datapointToJSON(view))
}

// UpdateDatapoint updates the given fields; at least one is required.
func (s *Server) UpdateDatapoint(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		DatapointID int64 `json:"datapoint_id"`
		datapointFields
	}
	if err := s.decode(assetv1.MethodUpdateDatapoint, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("datapoint_id", req.DatapointID); err != nil {
		return nil, err
	}
	view, err := s.assets.UpdateDatapoint(ctx, req.DatapointID, dpdomain.Update{
		Name:    req.Name,
		Value:   req.Value,
		Unit:    req.Unit,
		Type:    req.Type,
		IsFresh: req.IsFresh,
	})
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(datapointToJSON(view))
}

// DeleteDatapoint deletes a datapoint and its association.
func (s *Server) DeleteDatapoint(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		DatapointID int64 `json:"datapoint_id"`
	}
	if err := s.decode(assetv1.MethodDeleteDatapoint, in, &req); err != nil {
		return nil, err
	}
	if err := requireID("datapoint_id", req.DatapointID); err != nil {
		return nil, err
	}
	if err := s.assets.DeleteDatapoint(ctx, req.DatapointID); err != nil {
		return nil, grpcError(err)
	}
	return &structpb.Struct{}, nil
}
