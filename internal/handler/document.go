package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/esxdocs/esxdocs/internal/auth"
	"github.com/esxdocs/esxdocs/internal/compliance"
	"github.com/esxdocs/esxdocs/internal/handler/dto"
	"github.com/esxdocs/esxdocs/internal/service"
)

// maxUploadMemory bounds how much of a multipart body is buffered in
// memory; the rest spills to temp files.
const maxUploadMemory = 10 << 20 // 10MB

// DocumentHandler handles compliance document endpoints.
type DocumentHandler struct {
	svc    *service.DocumentService
	logger *slog.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(svc *service.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, logger: logger}
}

// Upload handles POST /api/v1/documents (multipart/form-data).
//
// The file travels in the "file" part; everything else is form fields.
// Which metadata fields are required depends on the declared type.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Request must be multipart/form-data")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	session := auth.SessionFromContext(r.Context())

	input := service.UploadInput{
		Title:    r.FormValue("title"),
		Type:     r.FormValue("type"),
		BankCode: r.FormValue("bank_code"),
		Fields: compliance.UploadFields{
			ReportingDate:   r.FormValue("reporting_date"),
			TimeLine:        r.FormValue("time_line"),
			ResponsibleUnit: r.FormValue("responsible_unit"),
			MeetingType:     r.FormValue("meeting_type"),
			Remark:          r.FormValue("remark"),
		},
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		input.File = file
		input.Filename = header.Filename
		input.ContentType = header.Header.Get("Content-Type")
	}

	doc, err := h.svc.Upload(r.Context(), session, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("document_uploaded",
		"document_id", doc.ID,
		"type", string(doc.Type),
		"company", doc.CompanyName,
	)

	writeJSON(w, http.StatusCreated, doc)
}

// List handles GET /api/v1/documents.
// Admins may pass ?tenant= to scope to one issuer; issuers always get
// their own documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	docs, err := h.svc.List(r.Context(), session, r.URL.Query().Get("tenant"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(docs))
}

// Dashboard handles GET /api/v1/dashboard.
func (h *DocumentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	dash, err := h.svc.Dashboard(r.Context(), session)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dash)
}

func (h *DocumentHandler) handleServiceError(w http.ResponseWriter, err error) {
	var fieldErr *compliance.FieldError

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, service.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "MISSING_TITLE", "Title is required")
	case errors.Is(err, service.ErrFileRequired):
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "A file is required")
	case errors.Is(err, compliance.ErrUnknownType):
		writeError(w, http.StatusBadRequest, "UNKNOWN_TYPE", "Unknown document type")
	case errors.As(err, &fieldErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": fieldErr.Msg,
			"code":  "INVALID_FIELD",
			"field": fieldErr.Field,
		})
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
