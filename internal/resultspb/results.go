// Package resultspb declares the surveykeeper.ResultsService gRPC service.
// Messages are protobuf well-known types, so the service descriptor and the
// client stub are written by hand instead of generated.
package resultspb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "surveykeeper.ResultsService"

const (
	ResultsService_Ping_FullMethodName         = "/surveykeeper.ResultsService/Ping"
	ResultsService_Summary_FullMethodName      = "/surveykeeper.ResultsService/Summary"
	ResultsService_HasResponded_FullMethodName = "/surveykeeper.ResultsService/HasResponded"
)

// ResultsServiceServer is the server API for ResultsService.
type ResultsServiceServer interface {
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	// Summary returns {variant, title, chart, total, counts, averages, mine}.
	Summary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	HasResponded(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

func RegisterResultsServiceServer(s grpc.ServiceRegistrar, srv ResultsServiceServer) {
	s.RegisterService(&ResultsService_ServiceDesc, srv)
}

func _ResultsService_Ping_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResultsServiceServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ResultsService_Ping_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResultsServiceServer).Ping(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _ResultsService_Summary_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResultsServiceServer).Summary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ResultsService_Summary_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResultsServiceServer).Summary(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _ResultsService_HasResponded_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResultsServiceServer).HasResponded(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ResultsService_HasResponded_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResultsServiceServer).HasResponded(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var ResultsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResultsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: _ResultsService_Ping_Handler},
		{MethodName: "Summary", Handler: _ResultsService_Summary_Handler},
		{MethodName: "HasResponded", Handler: _ResultsService_HasResponded_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "surveykeeper/results.proto",
}

// ResultsServiceClient is the client API for ResultsService.
type ResultsServiceClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Summary(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	HasResponded(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type resultsServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewResultsServiceClient(cc grpc.ClientConnInterface) ResultsServiceClient {
	return &resultsServiceClient{cc}
}

func (c *resultsServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, ResultsService_Ping_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *resultsServiceClient) Summary(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ResultsService_Summary_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *resultsServiceClient) HasResponded(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, ResultsService_HasResponded_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
