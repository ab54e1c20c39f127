// Package export turns an invoice into a downloadable PDF.
//
// An export runs through fixed stages:
//
//	Idle → Snapshotting → Rendering → Rasterizing → Assembling → Delivered → Idle
//
// The invoice is frozen into an invoice.Snapshot, laid out off-screen at a
// fixed physical page width, painted into a bitmap, and the bitmap is
// embedded into a paginated PDF which is handed to a Deliverer. The text in
// the resulting PDF is part of the image and is not selectable.
//
// Only one export runs at a time per Pipeline; a concurrent request is
// rejected with ErrExportInProgress.
package export
