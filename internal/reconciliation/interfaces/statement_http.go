package interfaces

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"ticketshop/internal/audit"
	"ticketshop/internal/auth"
	"ticketshop/internal/observability/metrics"
	"ticketshop/internal/reconciliation/application"
	reconciliation "ticketshop/internal/reconciliation/domain"
)

// StatementHandler accepts a bank statement upload, runs one reconciliation
// pass and returns the payments report as a downloadable file.
type StatementHandler struct {
	service     *application.Service
	auditLogger audit.Logger
}

// NewStatementHandler constructs a handler.
func NewStatementHandler(service *application.Service, auditLogger audit.Logger) (*StatementHandler, error) {
	if service == nil {
		return nil, errors.New("statement handler: nil service")
	}
	return &StatementHandler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles POST /api/v1/reconciliation/bank-statement.
func (h *StatementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	statement, err := statementBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer statement.Close()

	start := time.Now()
	report, err := h.service.Reconcile(r.Context(), statement)
	if err != nil {
		metrics.ObserveReconciliationRun(metrics.ResultError, time.Since(start))
		if errors.Is(err, reconciliation.ErrStatementHeader) || errors.Is(err, reconciliation.ErrMalformedRow) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "reconciliation failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveReconciliationRun(metrics.ResultSuccess, time.Since(start))
	for _, line := range report.Lines {
		metrics.IncReconciliationOutcome(string(line.Kind))
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	switch format {
	case "csv":
		body, err := report.CSVBytes()
		if err != nil {
			http.Error(w, "render report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+application.ReportFilename+`.csv"`)
		_, _ = w.Write(body)
	case "xlsx":
		body, err := BuildReportXLSX(report)
		if err != nil {
			http.Error(w, "render report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+application.ReportFilename+`.xlsx"`)
		_, _ = w.Write(body)
	default:
		http.Error(w, "unknown format", http.StatusBadRequest)
		return
	}
	metrics.IncReportExport(format)

	h.logAudit(r, report, format)
}

// statementBody returns the uploaded statement: the "file" part of a
// multipart form, or the raw request body.
func statementBody(r *http.Request) (io.ReadCloser, error) {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && contentType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("missing multipart field \"file\"")
		}
		return file, nil
	}
	if r.Body == nil {
		return nil, errors.New("empty request body")
	}
	return r.Body, nil
}

func (h *StatementHandler) logAudit(r *http.Request, report *application.Report, format string) {
	if h.auditLogger == nil {
		return
	}
	metadata, _ := json.Marshal(map[string]any{
		"lines":  len(report.Lines),
		"format": format,
	})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       "reconciliation.run",
		ResourceType: "bank_statement",
		Metadata:     metadata,
		IP:           r.RemoteAddr,
		UserAgent:    r.UserAgent(),
	})
}
