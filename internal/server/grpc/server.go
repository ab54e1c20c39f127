// Package grpc exposes the invoice archive over gRPC using the JSON codec
// from archiveapi.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/autobody/internal/archiveapi"
	"github.com/dmitrijs2005/autobody/internal/logging"
	"github.com/dmitrijs2005/autobody/internal/server/models"
)

// AuthService logs the archive account in and verifies access tokens.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (string, time.Time, error)
	Verify(token string) (string, error)
}

// ArchiveService is the invoice index behind the handlers.
type ArchiveService interface {
	PutInvoice(ctx context.Context, inv *models.Invoice) (string, string, error)
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	DownloadURL(ctx context.Context, id string) (string, error)
	MarkUploaded(ctx context.Context, id string) error
}

type GRPCServer struct {
	address string
	auth    AuthService
	archive ArchiveService
	logger  logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, auth AuthService, archive ArchiveService) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		auth:    auth,
		archive: archive,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	archiveapi.RegisterArchiveServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
