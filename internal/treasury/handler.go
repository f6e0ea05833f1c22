package treasury

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
	r.Post("/supplier-payments", h.paySupplier)
	r.Post("/expenses", h.recordExpense)
	r.Post("/equity-contributions", h.contributeEquity)
}

func (h *Handler) paySupplier(w http.ResponseWriter, r *http.Request) {
	var input SupplierPaymentInput
	if !h.decode(w, r, &input) {
		return
	}
	input.CreatedBy = shared.ActorFromRequest(r)
	entry, err := h.service.PaySupplier(r.Context(), input)
	if err != nil {
		h.logger.Error("post supplier payment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, entry)
}

func (h *Handler) recordExpense(w http.ResponseWriter, r *http.Request) {
	var input ExpenseInput
	if !h.decode(w, r, &input) {
		return
	}
	input.CreatedBy = shared.ActorFromRequest(r)
	entry, err := h.service.RecordExpense(r.Context(), input)
	if err != nil {
		h.logger.Error("post expense", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, entry)
}

func (h *Handler) contributeEquity(w http.ResponseWriter, r *http.Request) {
	var input EquityContributionInput
	if !h.decode(w, r, &input) {
		return
	}
	input.CreatedBy = shared.ActorFromRequest(r)
	entry, err := h.service.ContributeEquity(r.Context(), input)
	if err != nil {
		h.logger.Error("post equity contribution", slog.Any("error", err))
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
