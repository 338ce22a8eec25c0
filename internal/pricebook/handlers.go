package pricebook

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Handler exposes REST endpoints for reference prices.
type Handler struct {
	Svc *Service
}

type priceRequest struct {
	ProductID        string          `json:"product_id" validate:"required,uuid4"`
	PumpPrice        decimal.Decimal `json:"pump_price"`
	DistributorPrice decimal.Decimal `json:"distributor_price"`
	ValidFrom        time.Time       `json:"valid_from"`
}

// Publish handles POST /prices.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	price, err := h.Svc.Publish(r.Context(), PriceInput{
		ProductID:        productID,
		PumpPrice:        req.PumpPrice,
		DistributorPrice: req.DistributorPrice,
		ValidFrom:        req.ValidFrom,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": price})
}

// Latest handles GET /products/{productID}/price.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	price, err := h.Svc.Latest(r.Context(), productID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": price})
}

// History handles GET /products/{productID}/price/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	prices, total, err := h.Svc.History(r.Context(), productID, perPage, common.Offset(page, perPage))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       prices,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}

func (h *Handler) productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return uuid.Nil, false
	}
	return id, true
}
