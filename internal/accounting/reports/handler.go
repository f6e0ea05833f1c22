package reports

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/aging/clients", h.aging(posting.SubjectClient))
		r.Get("/aging/suppliers", h.aging(posting.SubjectSupplier))
		r.Get("/trial-balance", h.trialBalance)
		r.Get("/profit-and-loss", h.profitAndLoss)
		r.Get("/balance-sheet", h.balanceSheet)
		r.Get("/cash-flow", h.cashFlow)
		r.Get("/reconciliation", h.reconciliation)
		r.Get("/statement", h.statement)
	})
}

func (h *Handler) aging(kind SubjectKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asOf, err := dateParam(r, "as_of", time.Time{})
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		report, err := h.service.Aging(r.Context(), kind, asOf)
		if err != nil {
			h.logger.Error("aging report", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, report)
	}
}

func (h *Handler) trialBalance(w http.ResponseWriter, r *http.Request) {
	period, err := periodParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.TrialBalance(r.Context(), period)
	if err != nil {
		h.logger.Error("trial balance", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) profitAndLoss(w http.ResponseWriter, r *http.Request) {
	period, err := periodParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.ProfitAndLoss(r.Context(), period)
	if err != nil {
		h.logger.Error("profit and loss", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, err := dateParam(r, "as_of", time.Time{})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.BalanceSheet(r.Context(), asOf)
	if err != nil {
		h.logger.Error("balance sheet", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) cashFlow(w http.ResponseWriter, r *http.Request) {
	period, err := periodParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.CashFlow(r.Context(), period)
	if err != nil {
		h.logger.Error("cash flow", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) reconciliation(w http.ResponseWriter, r *http.Request) {
	asOf, err := dateParam(r, "as_of", time.Time{})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.Reconciliation(r.Context(), asOf)
	if err != nil {
		h.logger.Error("reconciliation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	period, err := periodParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.Statement(r.Context(), period)
	if err != nil {
		h.logger.Error("statement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func dateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", httpx.ErrValidation, name)
	}
	return t, nil
}

func periodParams(r *http.Request) (Period, error) {
	now := time.Now()
	from, err := dateParam(r, "from", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return Period{}, err
	}
	to, err := dateParam(r, "to", now)
	if err != nil {
		return Period{}, err
	}
	if to.Before(from) {
		return Period{}, fmt.Errorf("%w: to precedes from", httpx.ErrValidation)
	}
	return Period{From: from, To: to}, nil
}
