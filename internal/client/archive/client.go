// Package archive is the admin client's connection to the invoice archive
// server.
package archive

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/autobody/internal/archiveapi"
	"github.com/dmitrijs2005/autobody/internal/client/models"
	"github.com/dmitrijs2005/autobody/internal/common"
	"github.com/dmitrijs2005/autobody/internal/netx"
)

// Client talks to the archive over gRPC and uploads PDFs to the presigned
// URLs it hands out.
type Client struct {
	conn *grpc.ClientConn
	api  *archiveapi.ArchiveClient
	http netx.Doer

	mu          sync.RWMutex
	accessToken string
}

// New connects lazily to endpoint. Extra dial options are appended after
// the defaults.
func New(endpoint string, opts ...grpc.DialOption) (*Client, error) {
	c := &Client{}
	dial := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, dial...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.api = archiveapi.NewArchiveClient(conn)
	return c, nil
}

// SetHTTPClient replaces the HTTP client used for uploads.
func (c *Client) SetHTTPClient(d netx.Doer) { c.http = d }

func (c *Client) Close() error { return c.conn.Close() }

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if tok := c.Token(); tok != "" {
		ctx = withAccessToken(ctx, tok)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// Token returns the current access token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetToken installs a token remembered from an earlier session.
func (c *Client) SetToken(tok string) {
	c.mu.Lock()
	c.accessToken = tok
	c.mu.Unlock()
}

func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.api.Ping(ctx, &archiveapi.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// Login authenticates and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, username string, password []byte) (string, error) {
	resp, err := c.api.Login(ctx, &archiveapi.LoginRequest{Username: username, Password: string(password)})
	if err != nil {
		return "", mapError(err)
	}
	c.SetToken(resp.AccessToken)
	return resp.AccessToken, nil
}

// Upload registers the invoice in the archive, sends the PDF to storage and
// confirms the upload.
func (c *Client) Upload(ctx context.Context, rec models.InvoiceRecord, pdf []byte) error {
	put, err := c.api.PutInvoice(ctx, &archiveapi.PutInvoiceRequest{Invoice: InvoiceFromRecord(rec)})
	if err != nil {
		return mapError(err)
	}
	if err := netx.PutPresigned(ctx, c.http, put.UploadURL, common.PDFContentType, pdf); err != nil {
		return fmt.Errorf("upload %s: %w", rec.Number, err)
	}
	if _, err := c.api.MarkUploaded(ctx, &archiveapi.MarkUploadedRequest{ID: rec.ID}); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *Client) List(ctx context.Context, limit, offset int) ([]archiveapi.Invoice, error) {
	resp, err := c.api.ListInvoices(ctx, &archiveapi.ListInvoicesRequest{Limit: limit, Offset: offset})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Invoices, nil
}

func (c *Client) DownloadURL(ctx context.Context, id string) (string, error) {
	resp, err := c.api.GetDownloadURL(ctx, &archiveapi.GetDownloadURLRequest{ID: id})
	if err != nil {
		return "", mapError(err)
	}
	return resp.URL, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

// InvoiceFromRecord converts a local record to its wire form. Non-finite
// totals travel as null.
func InvoiceFromRecord(r models.InvoiceRecord) archiveapi.Invoice {
	return archiveapi.Invoice{
		ID:         r.ID,
		Number:     r.Number,
		ClientName: r.ClientName,
		IssuedAt:   r.IssuedAt,
		Subtotal:   nullDecimal(r.Subtotal),
		TaxAmount:  nullDecimal(r.TaxAmount),
		Total:      nullDecimal(r.Total),
	}
}

func nullDecimal(v float64) decimal.NullDecimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(v).Round(2))
}
