package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/firehawk/backend/internal/model"
	"github.com/firehawk/backend/internal/repository"
	"github.com/firehawk/backend/internal/service"
)

const maxBodyBytes = 1 << 20

// ContactHandler handles contact form submission and the operator endpoints.
// It does not know how requests are routed; see Register.
type ContactHandler struct {
	contactService service.ContactService
	metrics        *Metrics
}

// NewContactHandler creates a ContactHandler with the given service. metrics may be nil.
func NewContactHandler(contactService service.ContactService, metrics *Metrics) *ContactHandler {
	return &ContactHandler{contactService: contactService, metrics: metrics}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.ContactSubmission
	if !decodeBody(w, r, &req) {
		h.metrics.validationFailed("submit")
		return
	}

	msg, err := h.contactService.Submit(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "submit", err, "Failed to create message")
		return
	}

	h.metrics.submitted()
	writeJSON(w, http.StatusOK, msg)
}

// List handles GET /api/contact.
// Supports query params: status (new/replied), limit, offset. Without them
// every message is returned.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := model.ContactListOptions{
		Status: model.ContactStatus(q.Get("status")),
	}
	if opts.Status == "all" {
		opts.Status = ""
	}
	if l := q.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := q.Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	messages, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		h.writeServiceError(w, r, "list", err, "Failed to fetch messages")
		return
	}

	// Return [] not null for empty lists
	if messages == nil {
		messages = []*model.ContactMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// Get handles a single-message lookup.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	msg, err := h.contactService.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "get", err, "Failed to fetch message")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Reply records the operator's reply on message id.
func (h *ContactHandler) Reply(w http.ResponseWriter, r *http.Request, id string) {
	var req model.ContactReply
	if !decodeBody(w, r, &req) {
		h.metrics.validationFailed("reply")
		return
	}

	msg, err := h.contactService.Reply(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, "reply", err, "Failed to send reply")
		return
	}

	h.metrics.replied()
	writeJSON(w, http.StatusOK, msg)
}

// decodeBody reads a JSON object into dst. An empty body decodes as {} so the
// validator reports the missing fields. On malformed input it writes a 400 and
// returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   "Validation failed",
		Message: "Invalid JSON body",
	})
	return false
}

// writeServiceError maps service errors onto status codes. Internal detail is
// logged and replaced by internalMsg in the response.
func (h *ContactHandler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error, internalMsg string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		h.metrics.validationFailed(op)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Validation failed",
			Message: ve.Error(),
			Fields:  ve.Fields(),
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Message not found")
	default:
		slog.ErrorContext(r.Context(), "contact operation failed",
			"operation", op,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, internalMsg)
	}
}
