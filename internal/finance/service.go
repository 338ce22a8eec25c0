package finance

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Credit is a financing agreement whose repayment is tracked as a monthly
// installment schedule.
type Credit struct {
	ID                uuid.UUID       `json:"id"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	InstallmentCount  int             `json:"installment_count"`
	StartDate         time.Time       `json:"start_date"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CreditInput carries the fields needed to open a credit.
type CreditInput struct {
	CustomerID        uuid.UUID
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	InstallmentCount  int
	StartDate         time.Time
}

// Store abstracts credit and installment persistence.
type Store interface {
	CreateCredit(ctx context.Context, credit Credit, schedule []Installment) (Credit, error)
	GetCredit(ctx context.Context, id uuid.UUID) (Credit, error)
	ListCredits(ctx context.Context, limit, offset int) ([]Credit, int, error)
	Schedule(ctx context.Context, creditID uuid.UUID) ([]Installment, error)
	ReplaceSchedule(ctx context.Context, creditID uuid.UUID, schedule []Installment) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// Service orchestrates credit management on top of the installment engine.
type Service struct {
	Store Store
}

// Preview generates a schedule without persisting anything. The form calls
// this on every change to the terms.
func (s *Service) Preview(terms LoanTerms) ([]Installment, error) {
	schedule, err := GenerateSchedule(terms)
	if err != nil {
		return nil, invalidTerms(err)
	}
	return schedule, nil
}

// CreateCredit opens a credit and stores its generated schedule.
func (s *Service) CreateCredit(ctx context.Context, input CreditInput) (Credit, []Installment, error) {
	if input.Principal.IsNegative() {
		return Credit{}, nil, common.NewAppError("VALIDATION_ERROR", "principal cannot be negative", http.StatusBadRequest, nil)
	}
	if input.AnnualRatePercent.IsNegative() {
		return Credit{}, nil, common.NewAppError("VALIDATION_ERROR", "annual rate cannot be negative", http.StatusBadRequest, nil)
	}
	schedule, err := GenerateSchedule(LoanTerms{
		Principal:         input.Principal,
		AnnualRatePercent: input.AnnualRatePercent,
		InstallmentCount:  input.InstallmentCount,
		StartDate:         input.StartDate,
	})
	if err != nil {
		return Credit{}, nil, invalidTerms(err)
	}
	credit := Credit{
		CustomerID:        input.CustomerID,
		Principal:         input.Principal,
		AnnualRatePercent: input.AnnualRatePercent,
		InstallmentCount:  input.InstallmentCount,
		StartDate:         input.StartDate,
	}
	created, err := s.Store.CreateCredit(ctx, credit, schedule)
	if err != nil {
		return Credit{}, nil, err
	}
	return created, schedule, nil
}

// GetCredit loads one credit.
func (s *Service) GetCredit(ctx context.Context, id uuid.UUID) (Credit, error) {
	credit, err := s.Store.GetCredit(ctx, id)
	if err != nil {
		return Credit{}, notFoundOr(err)
	}
	return credit, nil
}

// ListCredits returns a page of credits with the total count.
func (s *Service) ListCredits(ctx context.Context, limit, offset int) ([]Credit, int, error) {
	return s.Store.ListCredits(ctx, limit, offset)
}

// Schedule loads the stored installment schedule of a credit.
func (s *Service) Schedule(ctx context.Context, creditID uuid.UUID) ([]Installment, error) {
	if _, err := s.Store.GetCredit(ctx, creditID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.Store.Schedule(ctx, creditID)
}

// EditInstallment overrides one amount field of one installment, identified by
// its number, and persists the result. Only the touched installment changes.
func (s *Service) EditInstallment(ctx context.Context, creditID uuid.UUID, no int, field Field, value decimal.Decimal) ([]Installment, error) {
	schedule, err := s.loadSchedule(ctx, creditID)
	if err != nil {
		return nil, err
	}
	index, err := indexOf(schedule, no)
	if err != nil {
		return nil, err
	}
	edited, err := EditInstallment(schedule, index, field, value)
	if err != nil {
		if errors.Is(err, ErrUnknownField) {
			return nil, common.NewAppError("VALIDATION_ERROR", "unknown installment field", http.StatusBadRequest, err)
		}
		return nil, err
	}
	if err := s.Store.ReplaceSchedule(ctx, creditID, edited); err != nil {
		return nil, err
	}
	return edited, nil
}

// RecordPayment adds a payment to one installment and advances its status.
func (s *Service) RecordPayment(ctx context.Context, creditID uuid.UUID, no int, amount decimal.Decimal) ([]Installment, error) {
	if !amount.IsPositive() {
		return nil, common.NewAppError("VALIDATION_ERROR", "payment amount must be positive", http.StatusBadRequest, nil)
	}
	schedule, err := s.loadSchedule(ctx, creditID)
	if err != nil {
		return nil, err
	}
	index, err := indexOf(schedule, no)
	if err != nil {
		return nil, err
	}
	ins := schedule[index]
	ins.Paid = ins.Paid.Add(amount)
	ins = Recompute(ins, false)
	ins.Status = paymentStatus(ins)

	out := make([]Installment, len(schedule))
	copy(out, schedule)
	out[index] = ins
	if err := s.Store.ReplaceSchedule(ctx, creditID, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveInstallment deletes one installment and renumbers the rest.
func (s *Service) RemoveInstallment(ctx context.Context, creditID uuid.UUID, no int) ([]Installment, error) {
	schedule, err := s.loadSchedule(ctx, creditID)
	if err != nil {
		return nil, err
	}
	index, err := indexOf(schedule, no)
	if err != nil {
		return nil, err
	}
	trimmed, err := RemoveInstallment(schedule, index)
	if err != nil {
		return nil, err
	}
	if err := s.Store.ReplaceSchedule(ctx, creditID, trimmed); err != nil {
		return nil, err
	}
	return trimmed, nil
}

// MarkOverdue flags unsettled installments whose due date passed. The worker
// runs this periodically.
func (s *Service) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	return s.Store.MarkOverdue(ctx, asOf)
}

func (s *Service) loadSchedule(ctx context.Context, creditID uuid.UUID) ([]Installment, error) {
	if _, err := s.Store.GetCredit(ctx, creditID); err != nil {
		return nil, notFoundOr(err)
	}
	schedule, err := s.Store.Schedule(ctx, creditID)
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

func indexOf(schedule []Installment, no int) (int, error) {
	for i, ins := range schedule {
		if ins.No == no {
			return i, nil
		}
	}
	return 0, common.NewAppError("NOT_FOUND", "installment not found", http.StatusNotFound, ErrInstallmentIndex)
}

func paymentStatus(ins Installment) InstallmentStatus {
	switch {
	case !ins.Remaining.IsPositive():
		return StatusPaid
	case ins.Paid.IsPositive():
		return StatusPartial
	default:
		return StatusNew
	}
}

func invalidTerms(err error) error {
	if errors.Is(err, ErrMissingStartDate) || errors.Is(err, ErrInvalidInstallmentCount) {
		return common.NewAppError("VALIDATION_ERROR", "provide a start date and installment count first", http.StatusBadRequest, err)
	}
	return err
}

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NewAppError("NOT_FOUND", "credit not found", http.StatusNotFound, err)
	}
	return err
}
