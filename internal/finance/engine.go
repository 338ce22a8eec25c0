package finance

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingStartDate is returned when schedule generation is requested without a start date.
	ErrMissingStartDate = errors.New("finance: start date is required")
	// ErrInvalidInstallmentCount is returned when the requested number of installments is below one.
	ErrInvalidInstallmentCount = errors.New("finance: installment count must be at least one")
	// ErrInstallmentIndex is returned when an installment index is outside the schedule.
	ErrInstallmentIndex = errors.New("finance: installment index out of range")
	// ErrUnknownField is returned when an edit targets a field the engine does not manage.
	ErrUnknownField = errors.New("finance: unknown installment field")
)

// InstallmentStatus tags the payment lifecycle of a single installment.
type InstallmentStatus string

const (
	StatusNew     InstallmentStatus = "NEW"
	StatusPartial InstallmentStatus = "PARTIAL"
	StatusPaid    InstallmentStatus = "PAID"
	StatusOverdue InstallmentStatus = "OVERDUE"
)

// Field identifies an editable installment amount.
type Field string

const (
	FieldPrincipal Field = "principal"
	FieldInterest  Field = "interest"
	FieldBSMV      Field = "bsmv"
	FieldPaid      Field = "paid"
)

// bsmvOfInterest is the banking transaction tax rate applied to the interest amount.
var bsmvOfInterest = decimal.New(1, -1) // 0.1

// LoanTerms describes the inputs of an installment schedule.
type LoanTerms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	InstallmentCount  int
	StartDate         time.Time
}

// Installment is one scheduled periodic payment of a credit.
type Installment struct {
	No        int               `json:"no"`
	DueDate   time.Time         `json:"due_date"`
	Principal decimal.Decimal   `json:"principal"`
	Interest  decimal.Decimal   `json:"interest"`
	BSMV      decimal.Decimal   `json:"bsmv"`
	TotalDue  decimal.Decimal   `json:"total_due"`
	Paid      decimal.Decimal   `json:"paid"`
	Remaining decimal.Decimal   `json:"remaining"`
	Status    InstallmentStatus `json:"status"`
}

// GenerateSchedule produces the monthly installment schedule for the given
// terms. Interest is a simple non-compounding monthly approximation, not a
// declining-balance amortization: the whole-loan interest is
// principal * (rate/100/12) * n and every installment carries an equal share
// of principal, interest and BSMV, each share rounded to cents independently.
// The per-installment rounding may drift from the loan totals by up to half a
// cent per installment; the drift is accepted and not redistributed.
func GenerateSchedule(terms LoanTerms) ([]Installment, error) {
	if terms.StartDate.IsZero() {
		return nil, ErrMissingStartDate
	}
	if terms.InstallmentCount < 1 {
		return nil, ErrInvalidInstallmentCount
	}

	n := decimal.NewFromInt(int64(terms.InstallmentCount))
	monthlyRate := terms.AnnualRatePercent.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12))
	totalInterest := terms.Principal.Mul(monthlyRate).Mul(n).Round(2)
	totalBSMV := totalInterest.Mul(bsmvOfInterest).Round(2)

	principalShare := terms.Principal.Div(n).Round(2)
	interestShare := totalInterest.Div(n).Round(2)
	bsmvShare := totalBSMV.Div(n).Round(2)
	totalDue := principalShare.Add(interestShare).Add(bsmvShare).Round(2)

	schedule := make([]Installment, 0, terms.InstallmentCount)
	for i := 1; i <= terms.InstallmentCount; i++ {
		schedule = append(schedule, Installment{
			No:        i,
			DueDate:   terms.StartDate.AddDate(0, i, 0),
			Principal: principalShare,
			Interest:  interestShare,
			BSMV:      bsmvShare,
			TotalDue:  totalDue,
			Paid:      decimal.Zero,
			Remaining: totalDue,
			Status:    StatusNew,
		})
	}
	return schedule, nil
}

// EditInstallment sets one amount field of one installment and returns a new
// schedule. Only the touched entry is recomputed: portion edits refresh its
// TotalDue and Remaining, a paid edit refreshes Remaining. Other installments
// are left untouched and no cross-installment consistency is enforced, so a
// manual edit may intentionally break the equal-monthly shape.
func EditInstallment(schedule []Installment, index int, field Field, value decimal.Decimal) ([]Installment, error) {
	if index < 0 || index >= len(schedule) {
		return nil, ErrInstallmentIndex
	}
	out := make([]Installment, len(schedule))
	copy(out, schedule)

	ins := out[index]
	switch field {
	case FieldPrincipal:
		ins.Principal = value
	case FieldInterest:
		ins.Interest = value
	case FieldBSMV:
		ins.BSMV = value
	case FieldPaid:
		ins.Paid = value
	default:
		return nil, ErrUnknownField
	}
	out[index] = Recompute(ins, field != FieldPaid)
	return out, nil
}

// Recompute refreshes the derived amounts of a single installment. When
// portionsChanged is true TotalDue is rebuilt from the three portions first;
// Remaining always follows TotalDue - Paid.
func Recompute(ins Installment, portionsChanged bool) Installment {
	if portionsChanged {
		ins.TotalDue = ins.Principal.Add(ins.Interest).Add(ins.BSMV).Round(2)
	}
	ins.Remaining = ins.TotalDue.Sub(ins.Paid)
	return ins
}

// RemoveInstallment drops one entry and renumbers the survivors sequentially
// from one. Due dates and amounts of the remaining entries are not recomputed.
func RemoveInstallment(schedule []Installment, index int) ([]Installment, error) {
	if index < 0 || index >= len(schedule) {
		return nil, ErrInstallmentIndex
	}
	out := make([]Installment, 0, len(schedule)-1)
	for i, ins := range schedule {
		if i == index {
			continue
		}
		ins.No = len(out) + 1
		out = append(out, ins)
	}
	return out, nil
}
