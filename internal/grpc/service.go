package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// The relief service speaks protobuf well-known types only, so it is described by hand
// instead of generated from a .proto file:
//
//	service ReliefService {
//	  rpc ListProcessedAlerts(google.protobuf.Empty) returns (google.protobuf.ListValue);
//	  rpc StreamDispatches(google.protobuf.Empty) returns (stream google.protobuf.Struct);
//	}
const (
	ServiceName                   = "relief.v1.ReliefService"
	ListProcessedAlertsFullMethod = "/" + ServiceName + "/ListProcessedAlerts"
	StreamDispatchesFullMethod    = "/" + ServiceName + "/StreamDispatches"
)

type ReliefServiceServer interface {
	ListProcessedAlerts(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	StreamDispatches(*emptypb.Empty, DispatchStream) error
}

// DispatchStream is the server side of StreamDispatches.
type DispatchStream interface {
	Send(*structpb.Struct) error
	Context() context.Context
}

type dispatchStream struct {
	grpc.ServerStream
}

func (s *dispatchStream) Send(m *structpb.Struct) error {
	return s.ServerStream.SendMsg(m)
}

func RegisterReliefServiceServer(s grpc.ServiceRegistrar, srv ReliefServiceServer) {
	s.RegisterService(&reliefServiceDesc, srv)
}

func listProcessedAlertsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReliefServiceServer).ListProcessedAlerts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ListProcessedAlertsFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReliefServiceServer).ListProcessedAlerts(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func streamDispatchesHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ReliefServiceServer).StreamDispatches(in, &dispatchStream{stream})
}

var reliefServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReliefServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListProcessedAlerts",
			Handler:    listProcessedAlertsHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamDispatches",
			Handler:       streamDispatchesHandler,
			ServerStreams: true,
		},
	},
	Metadata: "relief/v1/relief.proto",
}
