package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Handler exposes order endpoints.
type Handler struct {
	Svc *Service
}

type createPayload struct {
	CustomerID  string          `json:"customer_id" validate:"required,uuid4"`
	ProductID   string          `json:"product_id" validate:"required,uuid4"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type statusPayload struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED SHIPPED DELIVERED CANCELLED"`
}

// Create handles POST /orders.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p createPayload
	if err := common.DecodeAndValidate(r, &p); err != nil {
		common.WriteError(w, err)
		return
	}
	customerID, err := uuid.Parse(p.CustomerID)
	if err != nil {
		common.WriteError(w, common.NewAppError("VALIDATION_ERROR", "invalid customer id", http.StatusBadRequest, err))
		return
	}
	productID, err := uuid.Parse(p.ProductID)
	if err != nil {
		common.WriteError(w, common.NewAppError("VALIDATION_ERROR", "invalid product id", http.StatusBadRequest, err))
		return
	}
	o, err := h.Svc.Create(r.Context(), Input{
		CustomerID:  customerID,
		ProductID:   productID,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice,
		TotalAmount: p.TotalAmount,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, o)
}

// List handles GET /orders with optional ?customer_id= filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	var customerID uuid.UUID
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			common.WriteError(w, common.NewAppError("VALIDATION_ERROR", "invalid customer id", http.StatusBadRequest, err))
			return
		}
		customerID = id
	}
	orders, total, err := h.Svc.List(r.Context(), customerID, perPage, common.Offset(page, perPage))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  perPage,
	})
}

// Get handles GET /orders/{orderID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	o, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

// SetStatus handles POST /orders/{orderID}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var p statusPayload
	if err := common.DecodeAndValidate(r, &p); err != nil {
		common.WriteError(w, err)
		return
	}
	o, err := h.Svc.SetStatus(r.Context(), id, Status(p.Status))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

func orderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		return uuid.Nil, common.NewAppError("VALIDATION_ERROR", "invalid order id", http.StatusBadRequest, err)
	}
	return id, nil
}
