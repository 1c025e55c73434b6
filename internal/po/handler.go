package po

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/po-mobile/po-gateway/internal/platform/httpx"
	"github.com/po-mobile/po-gateway/internal/shared"
)

// Handler exposes the purchase order JSON API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers purchase order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/count", h.handleCount)
	r.Get("/{poID}", h.handleDetail)
	r.Get("/{poID}/history", h.handleHistory)
	r.Get("/{poID}/goods-receipts", h.handleGoodsReceipts)
	r.Get("/{poID}/invoices", h.handleInvoices)
	r.Get("/{poID}/overview", h.handleOverview)
}

type listParams struct {
	Page     int `validate:"min=1"`
	PageSize int `validate:"min=1,max=200"`
}

type listResponse struct {
	Data       []HeaderView      `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params, f, err := h.parseListQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	views, pagination, err := h.service.ListPage(r.Context(), params.Page, params.PageSize, f)
	if err != nil {
		h.logger.Error("list purchase orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Data: views, Pagination: pagination})
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	_, f, err := h.parseListQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	total, err := h.service.CountHeaders(r.Context(), f)
	if err != nil {
		h.logger.Error("count purchase orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"total": total})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	poID := chi.URLParam(r, "poID")
	view, err := h.service.GetDetail(r.Context(), poID)
	if err != nil {
		h.logger.Error("load purchase order", slog.String("po_id", poID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if view.POID == "" {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "purchase order "+poID+" does not exist")
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	poID := chi.URLParam(r, "poID")
	rows, err := h.service.History(r.Context(), poID)
	if err != nil {
		h.logger.Error("load history", slog.String("po_id", poID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (h *Handler) handleGoodsReceipts(w http.ResponseWriter, r *http.Request) {
	poID := chi.URLParam(r, "poID")
	rows, err := h.service.GoodsReceipts(r.Context(), poID)
	if err != nil {
		h.logger.Error("load goods receipts", slog.String("po_id", poID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (h *Handler) handleInvoices(w http.ResponseWriter, r *http.Request) {
	poID := chi.URLParam(r, "poID")
	rows, err := h.service.Invoices(r.Context(), poID)
	if err != nil {
		h.logger.Error("load invoices", slog.String("po_id", poID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	poID := chi.URLParam(r, "poID")
	httpx.JSON(w, http.StatusOK, h.service.Overview(r.Context(), poID))
}

func (h *Handler) parseListQuery(r *http.Request) (listParams, Filter, error) {
	params := listParams{Page: 1, PageSize: defaultPageSize}
	if raw := r.URL.Query().Get("page"); raw != "" {
		params.Page, _ = strconv.Atoi(raw)
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		params.PageSize, _ = strconv.Atoi(raw)
	}
	if err := h.validate.Struct(params); err != nil {
		return listParams{}, Filter{}, err
	}
	f := Filter{
		CompCode: r.URL.Query().Get("comp_code"),
		Vendor:   r.URL.Query().Get("vendor"),
		PurchOrg: r.URL.Query().Get("purch_org"),
		POID:     r.URL.Query().Get("po_id"),
	}
	return params, f, nil
}
