package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Payloads are google.protobuf.Struct messages, so no generated code is needed.
const (
	ServiceName = "rangefinder.v1.RangefinderService"

	SubmitReadingMethod = "/" + ServiceName + "/SubmitReading"
	GetStateMethod      = "/" + ServiceName + "/GetState"
	GetHistoryMethod    = "/" + ServiceName + "/GetHistory"
)

// RangefinderServer is the server API for the rangefinder service
type RangefinderServer interface {
	SubmitReading(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterRangefinderServer registers srv with a gRPC server
func RegisterRangefinderServer(s grpc.ServiceRegistrar, srv RangefinderServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RangefinderServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SubmitReading",
			Handler:    unaryHandler(SubmitReadingMethod, RangefinderServer.SubmitReading),
		},
		{
			MethodName: "GetState",
			Handler:    unaryHandler(GetStateMethod, RangefinderServer.GetState),
		},
		{
			MethodName: "GetHistory",
			Handler:    unaryHandler(GetHistoryMethod, RangefinderServer.GetHistory),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rangefinder/v1/rangefinder.proto",
}

type unaryMethod func(RangefinderServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a server method to a grpc method handler, honoring interceptors
func unaryHandler(fullMethod string, method unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv.(RangefinderServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return method(srv.(RangefinderServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
