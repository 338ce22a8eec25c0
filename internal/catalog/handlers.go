package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Handler exposes catalog endpoints.
type Handler struct {
	Svc *Service
}

type productPayload struct {
	SupplierID string `json:"supplier_id" validate:"omitempty,uuid4"`
	Name       string `json:"name" validate:"required"`
	FuelType   string `json:"fuel_type" validate:"required"`
	Unit       string `json:"unit"`
	Active     *bool  `json:"active"`
}

type supplierPayload struct {
	Name        string `json:"name" validate:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func (p productPayload) toInput() (ProductInput, error) {
	input := ProductInput{
		Name:     p.Name,
		FuelType: p.FuelType,
		Unit:     p.Unit,
		Active:   true,
	}
	if p.Active != nil {
		input.Active = *p.Active
	}
	if p.SupplierID != "" {
		id, err := uuid.Parse(p.SupplierID)
		if err != nil {
			return input, common.NewAppError("VALIDATION_ERROR", "invalid supplier id", http.StatusBadRequest, err)
		}
		input.SupplierID = &id
	}
	return input, nil
}

// CreateProduct handles POST /products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	input, err := payload.toInput()
	if err != nil {
		common.WriteError(w, err)
		return
	}
	p, err := h.Svc.CreateProduct(r.Context(), input)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, p)
}

// ListProducts handles GET /products. ?all=true includes inactive products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	products, err := h.Svc.ListProducts(r.Context(), activeOnly)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"products": products})
}

// GetProduct handles GET /products/{productID}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	p, err := h.Svc.GetProduct(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, p)
}

// UpdateProduct handles PUT /products/{productID}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var payload productPayload
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	input, err := payload.toInput()
	if err != nil {
		common.WriteError(w, err)
		return
	}
	p, err := h.Svc.UpdateProduct(r.Context(), id, input)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, p)
}

// CreateSupplier handles POST /suppliers.
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var payload supplierPayload
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	sup, err := h.Svc.CreateSupplier(r.Context(), SupplierInput(payload))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, sup)
}

// ListSuppliers handles GET /suppliers.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.Svc.ListSuppliers(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})
}

// GetSupplier handles GET /suppliers/{supplierID}.
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "supplierID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	sup, err := h.Svc.GetSupplier(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, sup)
}

// UpdateSupplier handles PUT /suppliers/{supplierID}.
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "supplierID")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var payload supplierPayload
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	sup, err := h.Svc.UpdateSupplier(r.Context(), id, SupplierInput(payload))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, sup)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, common.NewAppError("VALIDATION_ERROR", "invalid "+name, http.StatusBadRequest, err)
	}
	return id, nil
}
