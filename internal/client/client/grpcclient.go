package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	pb "github.com/dmitrijs2005/surveykeeper/internal/resultspb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const callTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.ResultsServiceClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, s.accessToken), method, req, reply, cc, opts...)
}

// NewResultsClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults.
func NewResultsClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewResultsServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.accessToken = token
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if _, err := s.client.Ping(ctx, &emptypb.Empty{}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Summary(ctx context.Context) (*Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := s.client.Summary(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return decodeSummary(resp)
}

func (s *GRPCClient) HasResponded(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := s.client.HasResponded(ctx, wrapperspb.String(email))
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.GetValue(), nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func decodeSummary(st *structpb.Struct) (*Summary, error) {
	fields := st.GetFields()
	if fields == nil {
		return nil, ErrBadResponse
	}

	sum := &Summary{
		Variant:  fields["variant"].GetStringValue(),
		Title:    fields["title"].GetStringValue(),
		Chart:    fields["chart"].GetStringValue(),
		Total:    int(fields["total"].GetNumberValue()),
		Counts:   map[string]int{},
		Averages: map[string]float64{},
		Mine:     map[string]float64{},
	}
	if sum.Variant == "" {
		return nil, fmt.Errorf("%w: no variant", ErrBadResponse)
	}

	for k, v := range fields["counts"].GetStructValue().GetFields() {
		sum.Counts[k] = int(v.GetNumberValue())
	}
	for k, v := range fields["averages"].GetStructValue().GetFields() {
		sum.Averages[k] = v.GetNumberValue()
	}
	for k, v := range fields["mine"].GetStructValue().GetFields() {
		sum.Mine[k] = v.GetNumberValue()
	}
	return sum, nil
}
