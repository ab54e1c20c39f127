// Package httpapi serves the PDF download endpoint: a posted invoice goes
// through the export pipeline and the PDF comes back as an attachment.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/autobody/internal/common"
	"github.com/dmitrijs2005/autobody/internal/export"
	"github.com/dmitrijs2005/autobody/internal/invoice"
	"github.com/dmitrijs2005/autobody/internal/ledger"
	"github.com/dmitrijs2005/autobody/internal/logging"
)

// maxBodyBytes bounds the JSON request body.
const maxBodyBytes = 1 << 20

// Exporter runs one export. *export.Pipeline implements it.
type Exporter interface {
	Export(ctx context.Context, h invoice.Header, items []ledger.LineItem) (*export.Result, error)
	Busy() bool
}

type Server struct {
	address  string
	exporter Exporter
	logger   logging.Logger
	now      func() time.Time
}

func NewServer(address string, l logging.Logger, e Exporter) *Server {
	return &Server{
		address:  address,
		exporter: e,
		logger:   l.With("module", "http_server"),
		now:      time.Now,
	}
}

// Router returns the endpoint's routes.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/api/export/status", s.exportStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/invoices/pdf", s.exportPDF).Methods(http.MethodPost)
	return r
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// exportStatus lets a form disable its export button while a PDF is being
// built.
func (s *Server) exportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"busy": s.exporter.Busy()})
}

func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	h, items, errs := req.toInvoice(s.now())
	if len(errs) > 0 {
		all := invoice.Validate(h, items)
		maps.Copy(all, errs)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": all})
		return
	}

	res, err := s.exporter.Export(r.Context(), h, items)
	if err != nil {
		s.writeExportError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", common.PDFContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(res.PDF)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PDF)
}

func (s *Server) writeExportError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs invoice.ValidationErrors
	var rerr *export.RenderingError

	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verrs})
	case errors.Is(err, invoice.ErrComputationAnomaly):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, export.ErrExportInProgress):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &rerr):
		s.logger.Error(r.Context(), "export failed", "stage", rerr.Stage.String(), "error", rerr.Err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "rendering failed", "stage": rerr.Stage.String()})
	default:
		s.logger.Error(r.Context(), "export failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
