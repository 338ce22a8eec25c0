package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Handler exposes transport endpoints.
type Handler struct {
	Svc *Service
}

type companyPayload struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

type vehiclePayload struct {
	Plate          string          `json:"plate" validate:"required"`
	CapacityLiters decimal.Decimal `json:"capacity_liters"`
}

type driverPayload struct {
	Name      string `json:"name" validate:"required"`
	LicenceNo string `json:"licence_no"`
	Phone     string `json:"phone"`
}

// CreateCompany handles POST /transport-companies.
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var p companyPayload
	if err := common.DecodeAndValidate(r, &p); err != nil {
		common.WriteError(w, err)
		return
	}
	c, err := h.Svc.CreateCompany(r.Context(), p.Name, p.Phone)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, c)
}

// ListCompanies handles GET /transport-companies.
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Svc.ListCompanies(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"companies": companies})
}

// GetCompany handles GET /transport-companies/{companyID}.
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := companyID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	c, err := h.Svc.GetCompany(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, c)
}

// AddVehicle handles POST /transport-companies/{companyID}/vehicles.
func (h *Handler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := companyID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var p vehiclePayload
	if err := common.DecodeAndValidate(r, &p); err != nil {
		common.WriteError(w, err)
		return
	}
	v, err := h.Svc.AddVehicle(r.Context(), VehicleInput{
		CompanyID:      id,
		Plate:          p.Plate,
		CapacityLiters: p.CapacityLiters,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, v)
}

// ListVehicles handles GET /transport-companies/{companyID}/vehicles.
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	id, err := companyID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	vehicles, err := h.Svc.ListVehicles(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

// AddDriver handles POST /transport-companies/{companyID}/drivers.
func (h *Handler) AddDriver(w http.ResponseWriter, r *http.Request) {
	id, err := companyID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var p driverPayload
	if err := common.DecodeAndValidate(r, &p); err != nil {
		common.WriteError(w, err)
		return
	}
	d, err := h.Svc.AddDriver(r.Context(), DriverInput{
		CompanyID: id,
		Name:      p.Name,
		LicenceNo: p.LicenceNo,
		Phone:     p.Phone,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, d)
}

// ListDrivers handles GET /transport-companies/{companyID}/drivers.
func (h *Handler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	id, err := companyID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	drivers, err := h.Svc.ListDrivers(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"drivers": drivers})
}

func companyID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		return uuid.Nil, common.NewAppError("VALIDATION_ERROR", "invalid company id", http.StatusBadRequest, err)
	}
	return id, nil
}
