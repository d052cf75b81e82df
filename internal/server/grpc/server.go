// Package grpc serves the read-only results API.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	pb "github.com/dmitrijs2005/surveykeeper/internal/resultspb"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
	"google.golang.org/grpc"
)

// ResultsSource is satisfied by services.ResponseService.
type ResultsSource interface {
	Summarize(ctx context.Context, email string) (*survey.Summary, error)
	HasResponded(ctx context.Context, email string) (bool, error)
}

type GRPCServer struct {
	address   string
	results   ResultsSource
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, results ResultsSource, secretKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		results:   results,
		jwtSecret: []byte(secretKey),
	}, nil
}

// NewServer builds a grpc.Server with the auth interceptor and the results
// service registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	pb.RegisterResultsServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
