package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/autobody/internal/archiveapi"
	"github.com/dmitrijs2005/autobody/internal/common"
	"github.com/dmitrijs2005/autobody/internal/logging"
	"github.com/dmitrijs2005/autobody/internal/server/models"
	"github.com/dmitrijs2005/autobody/internal/shared"
)

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, username string, password []byte) (string, time.Time, error) {
	if string(password) != "taller" {
		return "", time.Time{}, shared.ErrorInvalidLoginPassword
	}
	return "tok-" + username, time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC), nil
}

func (fakeAuth) Verify(token string) (string, error) {
	if token == "tok-admin" {
		return "admin", nil
	}
	return "", common.ErrInvalidToken
}

type fakeArchive struct {
	put      *models.Invoice
	user     string
	marked   string
	listArgs [2]int
	err      error
}

func (f *fakeArchive) PutInvoice(ctx context.Context, inv *models.Invoice) (string, string, error) {
	f.user, _ = UsernameFromContext(ctx)
	if f.err != nil {
		return "", "", f.err
	}
	f.put = inv
	return "invoices/" + inv.ID + ".pdf", "http://s3/put", nil
}

func (f *fakeArchive) List(_ context.Context, limit, offset int) ([]*models.Invoice, error) {
	f.listArgs = [2]int{limit, offset}
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Invoice{
		{ID: "b", Number: "F-2026-0002", Uploaded: true, Total: decimal.NewNullDecimal(decimal.NewFromInt(121))},
		{ID: "a", Number: "F-2026-0001"},
	}, nil
}

func (f *fakeArchive) DownloadURL(_ context.Context, id string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "http://s3/get/" + id, nil
}

func (f *fakeArchive) MarkUploaded(_ context.Context, id string) error {
	f.marked = id
	return f.err
}

func startServer(t *testing.T, archive *fakeArchive) *archiveapi.ArchiveClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	s := NewGRPCServer("bufnet", logging.Nop{}, fakeAuth{}, archive)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return archiveapi.NewArchiveClient(conn)
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "tok-admin")
}

func TestPingAndLogin_Public(t *testing.T) {
	c := startServer(t, &fakeArchive{})

	ping, err := c.Ping(context.Background(), &archiveapi.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)

	login, err := c.Login(context.Background(), &archiveapi.LoginRequest{Username: "admin", Password: "taller"})
	require.NoError(t, err)
	assert.Equal(t, "tok-admin", login.AccessToken)

	_, err = c.Login(context.Background(), &archiveapi.LoginRequest{Username: "admin", Password: "x"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestProtectedMethods_RequireToken(t *testing.T) {
	c := startServer(t, &fakeArchive{})

	_, err := c.ListInvoices(context.Background(), &archiveapi.ListInvoicesRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	bad := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "forged")
	_, err = c.GetDownloadURL(bad, &archiveapi.GetDownloadURLRequest{ID: "a"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestPutInvoice_CarriesInvoiceAndUser(t *testing.T) {
	archive := &fakeArchive{}
	c := startServer(t, archive)

	in := archiveapi.Invoice{
		ID:         "6f1c",
		Number:     "F-2026-0001",
		ClientName: "Ana",
		IssuedAt:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Subtotal:   decimal.NewNullDecimal(decimal.RequireFromString("200.00")),
	}
	resp, err := c.PutInvoice(authed(), &archiveapi.PutInvoiceRequest{Invoice: in})
	require.NoError(t, err)
	assert.Equal(t, "invoices/6f1c.pdf", resp.ObjectKey)
	assert.Equal(t, "http://s3/put", resp.UploadURL)

	require.NotNil(t, archive.put)
	assert.Equal(t, "admin", archive.user)
	assert.Equal(t, "F-2026-0001", archive.put.Number)
	assert.True(t, archive.put.Subtotal.Decimal.Equal(decimal.NewFromInt(200)))
	assert.False(t, archive.put.Total.Valid)
}

func TestListInvoices(t *testing.T) {
	archive := &fakeArchive{}
	c := startServer(t, archive)

	resp, err := c.ListInvoices(authed(), &archiveapi.ListInvoicesRequest{Limit: 20, Offset: 40})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 2)
	assert.Equal(t, [2]int{20, 40}, archive.listArgs)
	assert.True(t, resp.Invoices[0].Uploaded)
	assert.True(t, resp.Invoices[0].Total.Decimal.Equal(decimal.NewFromInt(121)))
}

func TestDownloadAndMark(t *testing.T) {
	archive := &fakeArchive{}
	c := startServer(t, archive)

	dl, err := c.GetDownloadURL(authed(), &archiveapi.GetDownloadURLRequest{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, "http://s3/get/a", dl.URL)

	_, err = c.MarkUploaded(authed(), &archiveapi.MarkUploadedRequest{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, "a", archive.marked)
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("%w: id must be a uuid", shared.ErrorValidation), codes.InvalidArgument},
		{fmt.Errorf("error getting invoice: %w", common.ErrorNotFound), codes.NotFound},
		{shared.ErrorNotUploaded, codes.FailedPrecondition},
		{errors.New("db down"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			c := startServer(t, &fakeArchive{err: tt.err})
			_, err := c.GetDownloadURL(authed(), &archiveapi.GetDownloadURLRequest{ID: "a"})
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	c := startServer(t, &fakeArchive{err: errors.New("pq: password authentication failed")})
	_, err := c.ListInvoices(authed(), &archiveapi.ListInvoicesRequest{})
	assert.Equal(t, "internal error", status.Convert(err).Message())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:0", logging.Nop{}, fakeAuth{}, &fakeArchive{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, fakeAuth{}, &fakeArchive{})
	require.Error(t, srv.Run(context.Background()))
}
