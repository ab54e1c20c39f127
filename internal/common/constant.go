// Package common holds constants and sentinel errors shared by the client
// and the archive server. Match the errors with errors.Is.
package common

// AccessTokenHeaderName is the gRPC metadata key that carries the access
// token on outbound archive calls.
const AccessTokenHeaderName = "access_token"

// ExportFilename is the fixed name given to every exported invoice PDF.
const ExportFilename = "factura.pdf"

// PDFContentType is sent with every PDF body, upload or download.
const PDFContentType = "application/pdf"
