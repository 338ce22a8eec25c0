package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Handler exposes customer endpoints.
type Handler struct {
	Svc *Service
}

type payload struct {
	Name      string `json:"name" validate:"required"`
	TaxNumber string `json:"tax_number"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	Address   string `json:"address"`
}

// Create handles POST /customers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p payload
	if err := common.DecodeAndValidate(r, &p); err != nil {
		common.WriteError(w, err)
		return
	}
	c, err := h.Svc.Create(r.Context(), Input(p))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, c)
}

// List handles GET /customers with optional ?q= name search.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	customers, total, err := h.Svc.List(r.Context(), r.URL.Query().Get("q"), perPage, common.Offset(page, perPage))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"customers": customers,
		"total":     total,
		"page":      page,
		"limit":     perPage,
	})
}

// Get handles GET /customers/{customerID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	c, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, c)
}

// Update handles PUT /customers/{customerID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var p payload
	if err := common.DecodeAndValidate(r, &p); err != nil {
		common.WriteError(w, err)
		return
	}
	c, err := h.Svc.Update(r.Context(), id, Input(p))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, c)
}

func customerID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		return uuid.Nil, common.NewAppError("VALIDATION_ERROR", "invalid customer id", http.StatusBadRequest, err)
	}
	return id, nil
}
