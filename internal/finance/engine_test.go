package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestGenerateScheduleTwelveMonths(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	schedule, err := GenerateSchedule(LoanTerms{
		Principal:         d("12000"),
		AnnualRatePercent: d("12"),
		InstallmentCount:  12,
		StartDate:         start,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(schedule) != 12 {
		t.Fatalf("expected 12 installments, got %d", len(schedule))
	}
	for i, ins := range schedule {
		if ins.No != i+1 {
			t.Fatalf("installment %d numbered %d", i, ins.No)
		}
		if !ins.Principal.Equal(d("1000")) {
			t.Fatalf("installment %d principal = %s", ins.No, ins.Principal)
		}
		if !ins.Interest.Equal(d("120")) {
			t.Fatalf("installment %d interest = %s", ins.No, ins.Interest)
		}
		if !ins.BSMV.Equal(d("12")) {
			t.Fatalf("installment %d bsmv = %s", ins.No, ins.BSMV)
		}
		if !ins.TotalDue.Equal(d("1132")) {
			t.Fatalf("installment %d total due = %s", ins.No, ins.TotalDue)
		}
		if !ins.Remaining.Equal(ins.TotalDue) || !ins.Paid.IsZero() {
			t.Fatalf("installment %d paid/remaining not initialised", ins.No)
		}
		if ins.Status != StatusNew {
			t.Fatalf("installment %d status = %s", ins.No, ins.Status)
		}
	}
	if got := schedule[0].DueDate; !got.Equal(start.AddDate(0, 1, 0)) {
		t.Fatalf("first due date = %s", got)
	}
	want := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	if got := schedule[11].DueDate; !got.Equal(want) {
		t.Fatalf("last due date = %s, want %s", got, want)
	}
}

func TestGenerateScheduleTotalDueIsSumOfPortions(t *testing.T) {
	schedule, err := GenerateSchedule(LoanTerms{
		Principal:         d("10000"),
		AnnualRatePercent: d("37.5"),
		InstallmentCount:  7,
		StartDate:         time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, ins := range schedule {
		sum := ins.Principal.Add(ins.Interest).Add(ins.BSMV).Round(2)
		if !ins.TotalDue.Equal(sum) {
			t.Fatalf("installment %d total due %s != portion sum %s", ins.No, ins.TotalDue, sum)
		}
	}
}

func TestGenerateSchedulePrincipalDriftWithinTolerance(t *testing.T) {
	principal := d("9999.99")
	count := 13
	schedule, err := GenerateSchedule(LoanTerms{
		Principal:         principal,
		AnnualRatePercent: d("24"),
		InstallmentCount:  count,
		StartDate:         time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var sum decimal.Decimal
	for _, ins := range schedule {
		sum = sum.Add(ins.Principal)
	}
	tolerance := decimal.NewFromInt(int64(count)).Mul(d("0.005"))
	if sum.Sub(principal).Abs().GreaterThan(tolerance) {
		t.Fatalf("principal drift %s exceeds tolerance %s", sum.Sub(principal), tolerance)
	}
}

func TestGenerateScheduleMonthEndNormalisation(t *testing.T) {
	// Jan 31 + 1 month rolls over per standard AddDate semantics.
	schedule, err := GenerateSchedule(LoanTerms{
		Principal:         d("1000"),
		AnnualRatePercent: d("10"),
		InstallmentCount:  2,
		StartDate:         time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := schedule[0].DueDate; got.Month() != time.March {
		t.Fatalf("expected normalised roll-over into March, got %s", got)
	}
}

func TestGenerateScheduleRejectsInvalidInput(t *testing.T) {
	_, err := GenerateSchedule(LoanTerms{Principal: d("100"), InstallmentCount: 3})
	if !errors.Is(err, ErrMissingStartDate) {
		t.Fatalf("expected ErrMissingStartDate, got %v", err)
	}
	_, err = GenerateSchedule(LoanTerms{
		Principal: d("100"),
		StartDate: time.Now(),
	})
	if !errors.Is(err, ErrInvalidInstallmentCount) {
		t.Fatalf("expected ErrInvalidInstallmentCount, got %v", err)
	}
}

func TestEditInstallmentPaidIsLocal(t *testing.T) {
	schedule := mustSchedule(t, 6)
	edited, err := EditInstallment(schedule, 2, FieldPaid, d("500"))
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !edited[2].Paid.Equal(d("500")) {
		t.Fatalf("paid not applied: %s", edited[2].Paid)
	}
	wantRemaining := edited[2].TotalDue.Sub(d("500"))
	if !edited[2].Remaining.Equal(wantRemaining) {
		t.Fatalf("remaining = %s, want %s", edited[2].Remaining, wantRemaining)
	}
	for i := range schedule {
		if i == 2 {
			continue
		}
		if !installmentsEqual(schedule[i], edited[i]) {
			t.Fatalf("installment %d changed by edit of installment 3", i+1)
		}
	}
	// Original slice untouched.
	if !schedule[2].Paid.IsZero() {
		t.Fatalf("edit mutated the input schedule")
	}
}

func TestEditInstallmentPortionRecomputesTotal(t *testing.T) {
	schedule := mustSchedule(t, 3)
	edited, err := EditInstallment(schedule, 0, FieldPrincipal, d("1234.56"))
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	want := d("1234.56").Add(edited[0].Interest).Add(edited[0].BSMV).Round(2)
	if !edited[0].TotalDue.Equal(want) {
		t.Fatalf("total due = %s, want %s", edited[0].TotalDue, want)
	}
	if !edited[0].Remaining.Equal(want) {
		t.Fatalf("remaining = %s, want %s", edited[0].Remaining, want)
	}
	// Equal-monthly shape is intentionally broken for this entry only.
	if installmentsEqual(schedule[0], edited[0]) {
		t.Fatalf("edit had no effect")
	}
	if !installmentsEqual(schedule[1], edited[1]) {
		t.Fatalf("edit cascaded to installment 2")
	}
}

func TestEditInstallmentErrors(t *testing.T) {
	schedule := mustSchedule(t, 2)
	if _, err := EditInstallment(schedule, 5, FieldPaid, decimal.Zero); !errors.Is(err, ErrInstallmentIndex) {
		t.Fatalf("expected ErrInstallmentIndex, got %v", err)
	}
	if _, err := EditInstallment(schedule, 0, Field("penalty"), decimal.Zero); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestRemoveInstallmentRenumbers(t *testing.T) {
	schedule := mustSchedule(t, 5)
	trimmed, err := RemoveInstallment(schedule, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(trimmed) != 4 {
		t.Fatalf("expected 4 installments, got %d", len(trimmed))
	}
	for i, ins := range trimmed {
		if ins.No != i+1 {
			t.Fatalf("installment at %d numbered %d", i, ins.No)
		}
	}
	// Survivors keep their original dates and amounts.
	if !trimmed[1].DueDate.Equal(schedule[2].DueDate) {
		t.Fatalf("due date of survivor changed")
	}
	if !trimmed[1].TotalDue.Equal(schedule[2].TotalDue) {
		t.Fatalf("total due of survivor changed")
	}
	if _, err := RemoveInstallment(schedule, -1); !errors.Is(err, ErrInstallmentIndex) {
		t.Fatalf("expected ErrInstallmentIndex, got %v", err)
	}
}

func mustSchedule(t *testing.T, count int) []Installment {
	t.Helper()
	schedule, err := GenerateSchedule(LoanTerms{
		Principal:         d("12000"),
		AnnualRatePercent: d("18"),
		InstallmentCount:  count,
		StartDate:         time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return schedule
}

func installmentsEqual(a, b Installment) bool {
	return a.No == b.No &&
		a.DueDate.Equal(b.DueDate) &&
		a.Principal.Equal(b.Principal) &&
		a.Interest.Equal(b.Interest) &&
		a.BSMV.Equal(b.BSMV) &&
		a.TotalDue.Equal(b.TotalDue) &&
		a.Paid.Equal(b.Paid) &&
		a.Remaining.Equal(b.Remaining) &&
		a.Status == b.Status
}
