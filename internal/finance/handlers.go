package finance

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Handler exposes REST endpoints for credits and installment schedules.
type Handler struct {
	Svc *Service
}

type creditRequest struct {
	CustomerID        string          `json:"customer_id" validate:"required,uuid4"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	InstallmentCount  int             `json:"installment_count" validate:"gte=1"`
	StartDate         time.Time       `json:"start_date" validate:"required"`
}

type previewRequest struct {
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	InstallmentCount  int             `json:"installment_count"`
	StartDate         time.Time       `json:"start_date"`
}

type editInstallmentRequest struct {
	Field Field           `json:"field" validate:"required"`
	Value decimal.Decimal `json:"value"`
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Preview handles POST /credits/preview. Nothing is stored; the form
// regenerates the schedule whenever the terms change.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	schedule, err := h.Svc.Preview(LoanTerms{
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		InstallmentCount:  req.InstallmentCount,
		StartDate:         req.StartDate,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": schedule})
}

// Create handles POST /credits.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid customer id", nil)
		return
	}
	credit, schedule, err := h.Svc.CreateCredit(r.Context(), CreditInput{
		CustomerID:        customerID,
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		InstallmentCount:  req.InstallmentCount,
		StartDate:         req.StartDate,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{"credit": credit, "schedule": schedule},
	})
}

// List handles GET /credits.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	credits, total, err := h.Svc.ListCredits(r.Context(), perPage, common.Offset(page, perPage))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       credits,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}

// Get handles GET /credits/{creditID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	creditID, ok := h.creditID(w, r)
	if !ok {
		return
	}
	credit, err := h.Svc.GetCredit(r.Context(), creditID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": credit})
}

// Schedule handles GET /credits/{creditID}/installments.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	creditID, ok := h.creditID(w, r)
	if !ok {
		return
	}
	schedule, err := h.Svc.Schedule(r.Context(), creditID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": schedule})
}

// Edit handles PUT /credits/{creditID}/installments/{no}.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	creditID, ok := h.creditID(w, r)
	if !ok {
		return
	}
	no := common.AtoiDefault(chi.URLParam(r, "no"), 0)
	var req editInstallmentRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	schedule, err := h.Svc.EditInstallment(r.Context(), creditID, no, req.Field, req.Value)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": schedule})
}

// Pay handles POST /credits/{creditID}/installments/{no}/payments.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	creditID, ok := h.creditID(w, r)
	if !ok {
		return
	}
	no := common.AtoiDefault(chi.URLParam(r, "no"), 0)
	var req paymentRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	schedule, err := h.Svc.RecordPayment(r.Context(), creditID, no, req.Amount)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": schedule})
}

// Remove handles DELETE /credits/{creditID}/installments/{no}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	creditID, ok := h.creditID(w, r)
	if !ok {
		return
	}
	no := common.AtoiDefault(chi.URLParam(r, "no"), 0)
	schedule, err := h.Svc.RemoveInstallment(r.Context(), creditID, no)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": schedule})
}

func (h *Handler) creditID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "creditID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid credit id", nil)
		return uuid.Nil, false
	}
	return id, true
}
