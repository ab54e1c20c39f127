package archiveapi

import (
	"time"

	"github.com/shopspring/decimal"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Invoice is an archived invoice. Amounts are null when the exported totals
// were not numbers.
type Invoice struct {
	ID         string              `json:"id"`
	Number     string              `json:"number"`
	ClientName string              `json:"client_name"`
	IssuedAt   time.Time           `json:"issued_at"`
	Subtotal   decimal.NullDecimal `json:"subtotal"`
	TaxAmount  decimal.NullDecimal `json:"tax_amount"`
	Total      decimal.NullDecimal `json:"total"`
	ObjectKey  string              `json:"object_key,omitempty"`
	Uploaded   bool                `json:"uploaded"`
	CreatedAt  time.Time           `json:"created_at,omitempty"`
}

type PutInvoiceRequest struct {
	Invoice Invoice `json:"invoice"`
}

// PutInvoiceResponse carries a presigned URL the client PUTs the PDF to.
type PutInvoiceResponse struct {
	ObjectKey string `json:"object_key"`
	UploadURL string `json:"upload_url"`
}

type ListInvoicesRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type ListInvoicesResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type GetDownloadURLRequest struct {
	ID string `json:"id"`
}

type GetDownloadURLResponse struct {
	URL string `json:"url"`
}

type MarkUploadedRequest struct {
	ID string `json:"id"`
}

type MarkUploadedResponse struct{}
