package interfaces

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"billed-app/internal/audit"
	"billed-app/internal/auth"
	"billed-app/internal/bills/application"
	bills "billed-app/internal/bills/domain"
	"billed-app/internal/bills/format"
	"billed-app/internal/observability/metrics"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// BillsHandler serves the bill list and its exports.
type BillsHandler struct {
	service     *application.ListService
	formatter   *format.Formatter
	export      application.ExportConfig
	auditLogger audit.Logger
	logger      *log.Logger
	now         func() time.Time
}

// NewBillsHandler constructs a handler.
func NewBillsHandler(service *application.ListService, formatter *format.Formatter, export application.ExportConfig, auditLogger audit.Logger, logger *log.Logger) (*BillsHandler, error) {
	if service == nil {
		return nil, errors.New("bills handler: nil service")
	}
	if formatter == nil {
		formatter = format.Default()
	}
	return &BillsHandler{
		service:     service,
		formatter:   formatter,
		export:      export,
		auditLogger: auditLogger,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// ServeHTTP handles bill routes under /api/v1/bills.
func (h *BillsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/api/v1/bills" && r.Method == http.MethodGet:
		h.handleList(w, r)
	case path == "/api/v1/bills/export.pdf" && r.Method == http.MethodGet:
		h.handleExport(w, r, "pdf")
	case path == "/api/v1/bills/export.xlsx" && r.Method == http.MethodGet:
		h.handleExport(w, r, "xlsx")
	case path == "/api/v1/bills/convert-date" && r.Method == http.MethodPost:
		h.handleConvertDate(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *BillsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	views, ok := h.list(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(views)
}

func (h *BillsHandler) handleExport(w http.ResponseWriter, r *http.Request, kind string) {
	start := time.Now()
	views, ok := h.list(w, r)
	if !ok {
		metrics.ObserveBillsExport(kind, metrics.ResultError, time.Since(start))
		return
	}
	doc := ExportDocument{
		Title:       h.export.Title,
		Owner:       filterFor(r).Email,
		Currency:    h.export.Currency,
		GeneratedAt: h.now(),
		Bills:       views,
		Summary:     h.service.Summarize(views),
	}

	var (
		payload     []byte
		err         error
		contentType string
	)
	switch kind {
	case "pdf":
		payload, err = BuildBillsPDF(doc)
		contentType = contentTypePDF
	default:
		payload, err = BuildBillsXLSX(doc)
		contentType = contentTypeXLSX
	}
	if err != nil {
		metrics.ObserveBillsExport(kind, metrics.ResultError, time.Since(start))
		h.logf("bills export %s error: %v", kind, err)
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveBillsExport(kind, metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"bills."+kind+"\"")
	_, _ = w.Write(payload)
	h.logAudit(r, "bills.export", map[string]any{
		"format": kind,
		"count":  len(views),
	})
}

func (h *BillsHandler) handleConvertDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	iso, err := h.formatter.ConvertDateToISO(req.Date)
	if err != nil {
		respondFormatError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"iso": iso})
}

func (h *BillsHandler) list(w http.ResponseWriter, r *http.Request) ([]application.BillView, bool) {
	views, err := h.service.List(r.Context(), filterFor(r))
	if err != nil {
		h.logf("bills list error: %v", err)
		respondStoreError(w, err)
		return nil, false
	}
	return views, true
}

// filterFor restricts employees to their own bills. Admins, and requests
// without an identity, may pick an owner with ?email=.
func filterFor(r *http.Request) application.Filter {
	email := auth.EmailFromContext(r.Context())
	if email != "" && auth.RoleFromContext(r.Context()) != auth.RoleAdmin {
		return application.Filter{Email: email}
	}
	return application.Filter{Email: r.URL.Query().Get("email")}
}

func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, bills.ErrNotFound) {
		http.Error(w, "Erreur 404", http.StatusNotFound)
		return
	}
	http.Error(w, "Erreur 500", http.StatusInternalServerError)
}

func respondFormatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, format.ErrUnsupportedValue):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, format.ErrMalformedInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *BillsHandler) logAudit(r *http.Request, action string, metadata map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(metadata)
	entry := audit.Entry{
		Actor:        auth.EmailFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "bills",
		ResourceID:   filterFor(r).Email,
		Metadata:     payload,
		IP:           clientIP(r),
		UserAgent:    r.UserAgent(),
	}
	if err := h.auditLogger.Log(r.Context(), entry); err != nil {
		h.logf("audit log error: %v", err)
	}
}

func (h *BillsHandler) logf(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(msg, args...)
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	return r.RemoteAddr
}
