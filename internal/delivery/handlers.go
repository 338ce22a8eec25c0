package delivery

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Handler exposes delivery endpoints.
type Handler struct {
	Svc *Service
}

type planPayload struct {
	OrderID     string    `json:"order_id" validate:"required,uuid4"`
	VehicleID   string    `json:"vehicle_id" validate:"omitempty,uuid4"`
	DriverID    string    `json:"driver_id" validate:"omitempty,uuid4"`
	PlannedDate time.Time `json:"planned_date" validate:"required"`
}

type completePayload struct {
	DeliveredQuantity decimal.Decimal `json:"delivered_quantity"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
}

// Plan handles POST /deliveries.
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	var p planPayload
	if err := common.DecodeAndValidate(r, &p); err != nil {
		common.WriteError(w, err)
		return
	}
	orderID, err := uuid.Parse(p.OrderID)
	if err != nil {
		common.WriteError(w, common.NewAppError("VALIDATION_ERROR", "invalid order id", http.StatusBadRequest, err))
		return
	}
	input := Input{OrderID: orderID, PlannedDate: p.PlannedDate}
	if p.VehicleID != "" {
		id, err := uuid.Parse(p.VehicleID)
		if err != nil {
			common.WriteError(w, common.NewAppError("VALIDATION_ERROR", "invalid vehicle id", http.StatusBadRequest, err))
			return
		}
		input.VehicleID = &id
	}
	if p.DriverID != "" {
		id, err := uuid.Parse(p.DriverID)
		if err != nil {
			common.WriteError(w, common.NewAppError("VALIDATION_ERROR", "invalid driver id", http.StatusBadRequest, err))
			return
		}
		input.DriverID = &id
	}
	d, err := h.Svc.Plan(r.Context(), input)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, d)
}

// Get handles GET /deliveries/{deliveryID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := deliveryID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	d, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, d)
}

// ListByOrder handles GET /orders/{orderID}/deliveries.
func (h *Handler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		common.WriteError(w, common.NewAppError("VALIDATION_ERROR", "invalid order id", http.StatusBadRequest, err))
		return
	}
	deliveries, err := h.Svc.ListByOrder(r.Context(), orderID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"deliveries": deliveries})
}

// Dispatch handles POST /deliveries/{deliveryID}/dispatch.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, err := deliveryID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	d, err := h.Svc.Dispatch(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, d)
}

// Complete handles POST /deliveries/{deliveryID}/complete.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := deliveryID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var p completePayload
	if err := common.DecodeAndValidate(r, &p); err != nil {
		common.WriteError(w, err)
		return
	}
	deliveredAt := time.Time{}
	if p.DeliveredAt != nil {
		deliveredAt = *p.DeliveredAt
	}
	d, err := h.Svc.Complete(r.Context(), id, p.DeliveredQuantity, deliveredAt)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, d)
}

// Cancel handles POST /deliveries/{deliveryID}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := deliveryID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	d, err := h.Svc.Cancel(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, d)
}

func deliveryID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "deliveryID"))
	if err != nil {
		return uuid.Nil, common.NewAppError("VALIDATION_ERROR", "invalid delivery id", http.StatusBadRequest, err)
	}
	return id, nil
}
