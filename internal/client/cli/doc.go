// Package cli provides the interactive autobody admin client.
//
// It wires configuration, the local store and the application services
// into a REPL for the shop's front desk:
//   - Customers: intake wizard, list, delete, bill an invoice to one
//   - Invoice builder: header fields, line items, live totals, validation
//   - Export to PDF and the list of issued invoices
//   - Archive: login, sync issued invoices, browse and download
//
// The invoice being edited is saved as a draft after every change and is
// restored on the next start. The REPL is started via App.Run(ctx), which
// blocks until the user exits.
package cli
