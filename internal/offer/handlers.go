package offer

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Handler exposes the offer endpoints.
type Handler struct {
	Svc *Service
}

type quotePayload struct {
	ProductID       string           `json:"product_id" validate:"required,uuid4"`
	PriceSource     string           `json:"price_source" validate:"omitempty,oneof=pump distributor"`
	RatePercent     decimal.Decimal  `json:"rate_percent"`
	Quantity        decimal.Decimal  `json:"quantity"`
	ShippingTotal   decimal.Decimal  `json:"shipping_total"`
	ManualUnitPrice *decimal.Decimal `json:"manual_unit_price,omitempty"`
}

type createPayload struct {
	quotePayload
	CustomerID string     `json:"customer_id" validate:"required,uuid4"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

type statusPayload struct {
	Status string `json:"status" validate:"required,oneof=SENT REJECTED"`
}

func (p quotePayload) toRequest() (QuoteRequest, error) {
	productID, err := uuid.Parse(p.ProductID)
	if err != nil {
		return QuoteRequest{}, common.NewAppError("VALIDATION_ERROR", "invalid product id", http.StatusBadRequest, err)
	}
	return QuoteRequest{
		ProductID:       productID,
		Source:          PriceSource(p.PriceSource),
		RatePercent:     p.RatePercent,
		Quantity:        p.Quantity,
		ShippingTotal:   p.ShippingTotal,
		ManualUnitPrice: p.ManualUnitPrice,
	}, nil
}

// Quote handles POST /offers/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var payload quotePayload
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		common.WriteError(w, err)
		return
	}
	quote, err := h.Svc.Quote(r.Context(), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, quote)
}

// Create handles POST /offers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createPayload
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	customerID, err := uuid.Parse(payload.CustomerID)
	if err != nil {
		common.WriteError(w, common.NewAppError("VALIDATION_ERROR", "invalid customer id", http.StatusBadRequest, err))
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		common.WriteError(w, err)
		return
	}
	o, err := h.Svc.Create(r.Context(), customerID, req, payload.ValidUntil)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, o)
}

// List handles GET /offers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	offers, total, err := h.Svc.List(r.Context(), perPage, common.Offset(page, perPage))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"offers": offers,
		"total":  total,
		"page":   page,
		"limit":  perPage,
	})
}

// Get handles GET /offers/{offerID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := offerID(r)
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

// Reprice handles PUT /offers/{offerID}/pricing.
func (h *Handler) Reprice(w http.ResponseWriter, r *http.Request) {
	id, err := offerID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var payload quotePayload
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		common.WriteError(w, err)
		return
	}
	o, err := h.Svc.Reprice(r.Context(), id, req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

// SetStatus handles POST /offers/{offerID}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := offerID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var payload statusPayload
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	o, err := h.Svc.SetStatus(r.Context(), id, Status(payload.Status))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

// Accept handles POST /offers/{offerID}/accept.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := offerID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	o, orderID, err := h.Svc.Accept(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"offer":    o,
		"order_id": orderID,
	})
}

func offerID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "offerID"))
	if err != nil {
		return uuid.Nil, common.NewAppError("VALIDATION_ERROR", "invalid offer id", http.StatusBadRequest, err)
	}
	return id, nil
}
