package masterdata

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
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
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.list(posting.SubjectClient))
		r.Post("/", h.create(posting.SubjectClient))
		r.Get("/{id}", h.get(posting.SubjectClient))
		r.Get("/{id}/balance", h.balance(posting.SubjectClient))
	})
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", h.list(posting.SubjectSupplier))
		r.Post("/", h.create(posting.SubjectSupplier))
		r.Get("/{id}", h.get(posting.SubjectSupplier))
		r.Get("/{id}/balance", h.balance(posting.SubjectSupplier))
	})
}

func (h *Handler) create(kind posting.SubjectKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateInput
		if err := httpx.DecodeJSON(r, &input); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
			return
		}
		if err := h.validator.Struct(input); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
			return
		}
		cp, err := h.service.Create(r.Context(), kind, input)
		if err != nil {
			h.logger.Error("create counterparty", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.OK(w, http.StatusCreated, cp)
	}
}

func (h *Handler) list(kind posting.SubjectKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := h.service.List(r.Context(), kind)
		if err != nil {
			h.logger.Error("list counterparties", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func (h *Handler) get(kind posting.SubjectKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		cp, err := h.service.Get(r.Context(), kind, id)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, cp)
	}
}

func (h *Handler) balance(kind posting.SubjectKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		balance, err := h.service.GetBalance(r.Context(), kind, id)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "balance": balance})
	}
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid id", httpx.ErrValidation)
	}
	return id, nil
}
