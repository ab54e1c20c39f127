package archiveapi

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "autobody.archive.v1.Archive"

const (
	MethodPing           = "/" + ServiceName + "/Ping"
	MethodLogin          = "/" + ServiceName + "/Login"
	MethodPutInvoice     = "/" + ServiceName + "/PutInvoice"
	MethodListInvoices   = "/" + ServiceName + "/ListInvoices"
	MethodGetDownloadURL = "/" + ServiceName + "/GetDownloadURL"
	MethodMarkUploaded   = "/" + ServiceName + "/MarkUploaded"
)

// ArchiveServer is implemented by the archive's gRPC handlers.
type ArchiveServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	PutInvoice(context.Context, *PutInvoiceRequest) (*PutInvoiceResponse, error)
	ListInvoices(context.Context, *ListInvoicesRequest) (*ListInvoicesResponse, error)
	GetDownloadURL(context.Context, *GetDownloadURLRequest) (*GetDownloadURLResponse, error)
	MarkUploaded(context.Context, *MarkUploadedRequest) (*MarkUploadedResponse, error)
}

func unary[Req, Resp any](fullMethod string, call func(ArchiveServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ArchiveServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ArchiveServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the archive service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ArchiveServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, ArchiveServer.Ping)},
		{MethodName: "Login", Handler: unary(MethodLogin, ArchiveServer.Login)},
		{MethodName: "PutInvoice", Handler: unary(MethodPutInvoice, ArchiveServer.PutInvoice)},
		{MethodName: "ListInvoices", Handler: unary(MethodListInvoices, ArchiveServer.ListInvoices)},
		{MethodName: "GetDownloadURL", Handler: unary(MethodGetDownloadURL, ArchiveServer.GetDownloadURL)},
		{MethodName: "MarkUploaded", Handler: unary(MethodMarkUploaded, ArchiveServer.MarkUploaded)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "autobody/archive/v1/archive.json",
}

func RegisterArchiveServer(s grpc.ServiceRegistrar, srv ArchiveServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ArchiveClient calls the archive over a gRPC connection.
type ArchiveClient struct {
	cc grpc.ClientConnInterface
}

func NewArchiveClient(cc grpc.ClientConnInterface) *ArchiveClient {
	return &ArchiveClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ArchiveClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *ArchiveClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *ArchiveClient) PutInvoice(ctx context.Context, in *PutInvoiceRequest, opts ...grpc.CallOption) (*PutInvoiceResponse, error) {
	return invoke[PutInvoiceResponse](ctx, c.cc, MethodPutInvoice, in, opts)
}

func (c *ArchiveClient) ListInvoices(ctx context.Context, in *ListInvoicesRequest, opts ...grpc.CallOption) (*ListInvoicesResponse, error) {
	return invoke[ListInvoicesResponse](ctx, c.cc, MethodListInvoices, in, opts)
}

func (c *ArchiveClient) GetDownloadURL(ctx context.Context, in *GetDownloadURLRequest, opts ...grpc.CallOption) (*GetDownloadURLResponse, error) {
	return invoke[GetDownloadURLResponse](ctx, c.cc, MethodGetDownloadURL, in, opts)
}

func (c *ArchiveClient) MarkUploaded(ctx context.Context, in *MarkUploadedRequest, opts ...grpc.CallOption) (*MarkUploadedResponse, error) {
	return invoke[MarkUploadedResponse](ctx, c.cc, MethodMarkUploaded, in, opts)
}
