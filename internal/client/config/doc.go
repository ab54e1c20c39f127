// Package config loads runtime configuration for the autobody admin client.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Flags
//
//	-a string   host:port of the invoice archive gRPC endpoint
//	-u string   archive user name
//	-d string   path of the local SQLite database
//	-o string   directory exported PDFs are written to
//	-f string   file name of exported PDFs
//	-s float    raster scale used when exporting
//	-t float    tax rate (percent) preset on new invoices
//	-strict     refuse to export invoices with non-numeric totals
//	-l string   log level (debug, info, warn, error)
//
// The JSON file accepts the same settings plus the issuer block printed on
// every invoice. Durations are timex.Duration values ("10s" or nanoseconds):
//
//	{
//	  "server_endpoint_addr": "archive.taller.local:50051",
//	  "database_path": "/var/lib/autobody/client.db",
//	  "render_timeout": "15s",
//	  "page_size": "A4",
//	  "issuer": {"name": "Carrocerías Gil", "tax_id": "B12345678"}
//	}
package config
