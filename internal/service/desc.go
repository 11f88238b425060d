package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "wlan.contention.v1.ContentionService"

const (
	evaluateMethod          = "/" + ServiceName + "/Evaluate"
	generatePositionsMethod = "/" + ServiceName + "/GeneratePositions"
)

// ContentionServiceServer is the server API for the contention service.
// Requests and responses are google.protobuf.Struct messages whose keys are
// documented on the conversion helpers in convert.go.
type ContentionServiceServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GeneratePositions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterContentionServiceServer registers srv on s.
func RegisterContentionServiceServer(s grpc.ServiceRegistrar, srv ContentionServiceServer) {
	s.RegisterService(&ContentionServiceDesc, srv)
}

// ContentionServiceDesc describes the service for grpc.Server.
var ContentionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ContentionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
		{MethodName: "GeneratePositions", Handler: generatePositionsHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContentionServiceServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: evaluateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ContentionServiceServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func generatePositionsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContentionServiceServer).GeneratePositions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: generatePositionsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ContentionServiceServer).GeneratePositions(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
