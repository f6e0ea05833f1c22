package sales

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
	"github.com/tillpoint-erp/tillpoint-erp/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/invoices", h.invoice)
	r.Post("/credit-notes", h.creditNote)
	r.Post("/receipts", h.confirmReceipt)
}

func (h *Handler) invoice(w http.ResponseWriter, r *http.Request) {
	var input InvoiceInput
	if !h.decode(w, r, &input) {
		return
	}
	input.CreatedBy = shared.ActorFromRequest(r)
	entry, err := h.service.Invoice(r.Context(), input)
	if err != nil {
		h.logger.Error("post sales invoice", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, entry)
}

func (h *Handler) creditNote(w http.ResponseWriter, r *http.Request) {
	var input CreditNoteInput
	if !h.decode(w, r, &input) {
		return
	}
	input.CreatedBy = shared.ActorFromRequest(r)
	entry, err := h.service.CreditNote(r.Context(), input)
	if err != nil {
		h.logger.Error("post credit note", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, entry)
}

func (h *Handler) confirmReceipt(w http.ResponseWriter, r *http.Request) {
	var input ReceiptInput
	if !h.decode(w, r, &input) {
		return
	}
	input.CreatedBy = shared.ActorFromRequest(r)
	entry, err := h.service.ConfirmReceipt(r.Context(), input)
	if err != nil {
		h.logger.Error("post client receipt", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, entry)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return false
	}
	return true
}
