package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/surveykeeper/internal/survey"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Summary(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	sum, err := s.results.Summarize(ctx, emailFromContext(ctx))
	if err != nil {
		s.logger.Error(ctx, "summary failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	out, err := structpb.NewStruct(summaryFields(sum))
	if err != nil {
		s.logger.Error(ctx, "summary encoding failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

// HasResponded answers for the token holder only. An empty email means the
// caller; any other address is refused.
func (s *GRPCServer) HasResponded(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	caller := emailFromContext(ctx)
	email := strings.TrimSpace(in.GetValue())
	if email == "" {
		email = caller
	}
	if email == "" {
		return nil, status.Error(codes.InvalidArgument, "email is required")
	}
	if email != caller {
		s.logger.Warn(ctx, "response lookup for another user refused", "caller", caller)
		return nil, status.Error(codes.PermissionDenied, "token does not belong to this email")
	}

	ok, err := s.results.HasResponded(ctx, email)
	if err != nil {
		s.logger.Error(ctx, "response lookup failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return wrapperspb.Bool(ok), nil
}

// summaryFields flattens a summary into structpb-compatible values.
func summaryFields(sum *survey.Summary) map[string]any {
	counts := make(map[string]any, len(sum.Counts))
	for _, c := range sum.Counts {
		counts[c.Label] = c.Count
	}
	averages := make(map[string]any, len(sum.Axes))
	mine := make(map[string]any)
	for _, a := range sum.Axes {
		averages[a.Name] = a.Average
		if a.Mine != nil {
			mine[a.Name] = *a.Mine
		}
	}

	return map[string]any{
		"variant":  sum.Variant,
		"title":    sum.Title,
		"chart":    string(sum.Chart),
		"total":    sum.Total,
		"counts":   counts,
		"averages": averages,
		"mine":     mine,
	}
}
