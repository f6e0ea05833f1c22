package procurement

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
	r.Post("/goods-receipts", h.receiveGoods)
}

func (h *Handler) receiveGoods(w http.ResponseWriter, r *http.Request) {
	var input GoodsReceiptInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validator.Struct(input); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	input.CreatedBy = shared.ActorFromRequest(r)

	entry, err := h.service.ReceiveGoods(r.Context(), input)
	if err != nil {
		h.logger.Error("post goods receipt", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, entry)
}
