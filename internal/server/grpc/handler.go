package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/autobody/internal/archiveapi"
	"github.com/dmitrijs2005/autobody/internal/common"
	"github.com/dmitrijs2005/autobody/internal/server/models"
	"github.com/dmitrijs2005/autobody/internal/shared"
)

// toStatus maps service errors to gRPC codes. Unexpected errors are logged
// and hidden behind a generic message.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, shared.ErrorInvalidLoginPassword):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, shared.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "invoice not found")
	case errors.Is(err, shared.ErrorNotUploaded):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *archiveapi.PingRequest) (*archiveapi.PingResponse, error) {
	return &archiveapi.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *archiveapi.LoginRequest) (*archiveapi.LoginResponse, error) {
	token, expiresAt, err := s.auth.Login(ctx, req.Username, []byte(req.Password))
	if err != nil {
		s.logger.Warn(ctx, "Login failed", "username", req.Username)
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Logged in", "username", req.Username)
	return &archiveapi.LoginResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *GRPCServer) PutInvoice(ctx context.Context, req *archiveapi.PutInvoiceRequest) (*archiveapi.PutInvoiceResponse, error) {
	inv := invoiceFromWire(req.Invoice)

	key, url, err := s.archive.PutInvoice(ctx, inv)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Invoice archived", "id", inv.ID, "number", inv.Number)
	return &archiveapi.PutInvoiceResponse{ObjectKey: key, UploadURL: url}, nil
}

func (s *GRPCServer) ListInvoices(ctx context.Context, req *archiveapi.ListInvoicesRequest) (*archiveapi.ListInvoicesResponse, error) {
	items, err := s.archive.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &archiveapi.ListInvoicesResponse{Invoices: make([]archiveapi.Invoice, 0, len(items))}
	for _, inv := range items {
		resp.Invoices = append(resp.Invoices, invoiceToWire(inv))
	}
	return resp, nil
}

func (s *GRPCServer) GetDownloadURL(ctx context.Context, req *archiveapi.GetDownloadURLRequest) (*archiveapi.GetDownloadURLResponse, error) {
	url, err := s.archive.DownloadURL(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &archiveapi.GetDownloadURLResponse{URL: url}, nil
}

func (s *GRPCServer) MarkUploaded(ctx context.Context, req *archiveapi.MarkUploadedRequest) (*archiveapi.MarkUploadedResponse, error) {
	if err := s.archive.MarkUploaded(ctx, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &archiveapi.MarkUploadedResponse{}, nil
}

func invoiceFromWire(in archiveapi.Invoice) *models.Invoice {
	return &models.Invoice{
		ID:         in.ID,
		Number:     in.Number,
		ClientName: in.ClientName,
		IssuedAt:   in.IssuedAt,
		Subtotal:   in.Subtotal,
		TaxAmount:  in.TaxAmount,
		Total:      in.Total,
	}
}

func invoiceToWire(inv *models.Invoice) archiveapi.Invoice {
	return archiveapi.Invoice{
		ID:         inv.ID,
		Number:     inv.Number,
		ClientName: inv.ClientName,
		IssuedAt:   inv.IssuedAt,
		Subtotal:   inv.Subtotal,
		TaxAmount:  inv.TaxAmount,
		Total:      inv.Total,
		ObjectKey:  inv.ObjectKey,
		Uploaded:   inv.Uploaded,
		CreatedAt:  inv.CreatedAt,
	}
}
