// Package grpcadapter exposes the batch environment over gRPC. Messages are
// google.protobuf.Struct values carrying the same JSON shapes as the HTTP
// API, so the service needs no generated code.
package grpcadapter

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "droneswarm.v1.Environment"

const (
	methodCreate  = "Create"
	methodReset   = "Reset"
	methodStep    = "Step"
	methodObserve = "Observe"
	methodStatus  = "Status"
	methodReplay  = "Replay"
	methodDelete  = "Delete"
)

// EnvironmentServer is the server API for the Environment service.
type EnvironmentServer interface {
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Step(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Observe(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Status(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Replay(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(EnvironmentServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(EnvironmentServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(EnvironmentServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EnvironmentServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(methodCreate, EnvironmentServer.Create),
		unary(methodReset, EnvironmentServer.Reset),
		unary(methodStep, EnvironmentServer.Step),
		unary(methodObserve, EnvironmentServer.Observe),
		unary(methodStatus, EnvironmentServer.Status),
		unary(methodReplay, EnvironmentServer.Replay),
		unary(methodDelete, EnvironmentServer.Delete),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "droneswarm/v1/environment.proto",
}

func RegisterEnvironmentServer(s grpc.ServiceRegistrar, srv EnvironmentServer) {
	s.RegisterService(&ServiceDesc, srv)
}
