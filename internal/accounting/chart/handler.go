package chart

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

type Handler struct {
	registry *Registry
	logger   *slog.Logger
}

func NewHandler(logger *slog.Logger, registry *Registry) *Handler {
	return &Handler{logger: logger, registry: registry}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts", h.List)
}

type accountView struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Kind     string `json:"kind"`
	IsActive bool   `json:"is_active"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accounts := h.registry.All()
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	out := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountView{Code: a.Code, Name: a.Name, Type: string(a.Type), Kind: string(a.Kind), IsActive: a.IsActive})
	}
	httpx.JSON(w, http.StatusOK, out)
}
