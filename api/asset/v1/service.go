// Package assetv1 defines the asset.v1.AssetService gRPC contract.
//
// Every RPC takes and returns a google.protobuf.Struct holding a JSON object; Decode and Encode
// convert between those bodies and Go values. Numbers travel as doubles, so ids above 2^53 are not
// representable.
package assetv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "asset.v1.AssetService"

// Method names of AssetService.
const (
	MethodGetTree             = "GetTree"
	MethodGetSubtree          = "GetSubtree"
	MethodGetHierarchy        = "GetHierarchy"
	MethodResolvePath         = "ResolvePath"
	MethodResolveRelative     = "ResolveRelative"
	MethodAssociateDatapoint  = "AssociateDatapoint"
	MethodDissociateDatapoint = "DissociateDatapoint"
	MethodCreateObject        = "CreateObject"
	MethodGetObject           = "GetObject"
	MethodListObjects         = "ListObjects"
	MethodUpdateObject        = "UpdateObject"
	MethodDeleteObject        = "DeleteObject"
	MethodGetObjectPath       = "GetObjectPath"
	MethodCreateDatapoint     = "CreateDatapoint"
	MethodGetDatapoint        = "GetDatapoint"
	MethodUpdateDatapoint     = "UpdateDatapoint"
	MethodDeleteDatapoint     = "DeleteDatapoint"
)

// FullMethod returns the "/asset.v1.AssetService/<method>" name used by interceptors and clients.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AssetServiceServer is the server API for AssetService.
type AssetServiceServer interface {
	GetTree(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSubtree(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHierarchy(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolvePath(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolveRelative(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AssociateDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DissociateDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateObject(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetObject(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListObjects(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateObject(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteObject(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetObjectPath(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedAssetServiceServer returns Unimplemented for every RPC. Embed it for forward compatibility.
type UnimplementedAssetServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedAssetServiceServer) GetTree(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetTree)
}
func (UnimplementedAssetServiceServer) GetSubtree(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetSubtree)
}
func (UnimplementedAssetServiceServer) GetHierarchy(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetHierarchy)
}
func (UnimplementedAssetServiceServer) ResolvePath(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodResolvePath)
}
func (UnimplementedAssetServiceServer) ResolveRelative(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodResolveRelative)
}
func (UnimplementedAssetServiceServer) AssociateDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodAssociateDatapoint)
}
func (UnimplementedAssetServiceServer) DissociateDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDissociateDatapoint)
}
func (UnimplementedAssetServiceServer) CreateObject(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateObject)
}
func (UnimplementedAssetServiceServer) GetObject(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetObject)
}
func (UnimplementedAssetServiceServer) ListObjects(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListObjects)
}
func (UnimplementedAssetServiceServer) UpdateObject(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateObject)
}
func (UnimplementedAssetServiceServer) DeleteObject(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDeleteObject)
}
func (UnimplementedAssetServiceServer) GetObjectPath(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetObjectPath)
}
func (UnimplementedAssetServiceServer) CreateDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateDatapoint)
}
func (UnimplementedAssetServiceServer) GetDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetDatapoint)
}
func (UnimplementedAssetServiceServer) UpdateDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateDatapoint)
}
func (UnimplementedAssetServiceServer) DeleteDatapoint(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDeleteDatapoint)
}

type call func(AssetServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, fn call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(AssetServiceServer)
			if interceptor == nil {
				return fn(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(s, ctx, req.(*structpb.Struct))
			})
		},
	}
}

// AssetService_ServiceDesc is the grpc.ServiceDesc for AssetService.
var AssetService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AssetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetTree, AssetServiceServer.GetTree),
		unary(MethodGetSubtree, AssetServiceServer.GetSubtree),
		unary(MethodGetHierarchy, AssetServiceServer.GetHierarchy),
		unary(MethodResolvePath, AssetServiceServer.ResolvePath),
		unary(MethodResolveRelative, AssetServiceServer.ResolveRelative),
		unary(MethodAssociateDatapoint, AssetServiceServer.AssociateDatapoint),
		unary(MethodDissociateDatapoint, AssetServiceServer.DissociateDatapoint),
		unary(MethodCreateObject, AssetServiceServer.CreateObject),
		unary(MethodGetObject, AssetServiceServer.GetObject),
		unary(MethodListObjects, AssetServiceServer.ListObjects),
		unary(MethodUpdateObject, AssetServiceServer.UpdateObject),
		unary(MethodDeleteObject, AssetServiceServer.DeleteObject),
		unary(MethodGetObjectPath, AssetServiceServer.GetObjectPath),
		unary(MethodCreateDatapoint, AssetServiceServer.CreateDatapoint),
		unary(MethodGetDatapoint, AssetServiceServer.GetDatapoint),
		unary(MethodUpdateDatapoint, AssetServiceServer.UpdateDatapoint),
		unary(MethodDeleteDatapoint, AssetServiceServer.DeleteDatapoint),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "asset/v1/asset.proto",
}

// RegisterAssetServiceServer registers srv with s.
func RegisterAssetServiceServer(s grpc.ServiceRegistrar, srv AssetServiceServer) {
	s.RegisterService(&AssetService_ServiceDesc, srv)
}

// AssetServiceClient is the client API for AssetService. Call invokes any method by name.
type AssetServiceClient interface {
	Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type assetServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAssetServiceClient returns a client over cc.
func NewAssetServiceClient(cc grpc.ClientConnInterface) AssetServiceClient {
	return &assetServiceClient{cc: cc}
}

func (c *assetServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Methods lists every AssetService method name in declaration order.
func Methods() []string {
	out := make([]string, len(AssetService_ServiceDesc.Methods))
	for i, m := range AssetService_ServiceDesc.Methods {
		out[i] = m.MethodName
	}
	return out
}
