package offer

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestComputeFromRate(t *testing.T) {
	result := ComputeFromRate(PricingInput{
		ReferenceUnitPrice: d("100"),
		RatePercent:        d("10"),
		Quantity:           d("1000"),
		ShippingTotal:      d("500"),
	})
	if !result.UnitPrice.Equal(d("110")) {
		t.Fatalf("unit price = %s", result.UnitPrice)
	}
	if !result.ShippingPerUnit.Equal(d("0.5")) {
		t.Fatalf("shipping per unit = %s", result.ShippingPerUnit)
	}
	if !result.UnitPriceWithShipping.Equal(d("110.5")) {
		t.Fatalf("unit price with shipping = %s", result.UnitPriceWithShipping)
	}
	if !result.TotalAmount.Equal(d("110000")) {
		t.Fatalf("total = %s", result.TotalAmount)
	}
}

func TestComputeFromRateDiscount(t *testing.T) {
	result := ComputeFromRate(PricingInput{
		ReferenceUnitPrice: d("42.8765"),
		RatePercent:        d("-3.25"),
		Quantity:           d("15000"),
		ShippingTotal:      d("1250"),
	})
	// 42.8765 * 0.9675 = 41.48301375 -> 41.4830 at four decimals.
	if !result.UnitPrice.Equal(d("41.483")) {
		t.Fatalf("unit price = %s", result.UnitPrice)
	}
	if !result.ShippingPerUnit.Equal(d("0.0833")) {
		t.Fatalf("shipping per unit = %s", result.ShippingPerUnit)
	}
	if !result.TotalAmount.Equal(d("622245")) {
		t.Fatalf("total = %s", result.TotalAmount)
	}
	// Total over quantity matches the unit price within currency rounding.
	perUnit := result.TotalAmount.Div(d("15000")).Round(4)
	if perUnit.Sub(result.UnitPrice).Abs().GreaterThan(d("0.0001")) {
		t.Fatalf("total/quantity = %s, unit price = %s", perUnit, result.UnitPrice)
	}
}

func TestComputeFromRateZeroQuantity(t *testing.T) {
	result := ComputeFromRate(PricingInput{
		ReferenceUnitPrice: d("100"),
		RatePercent:        d("5"),
		ShippingTotal:      d("750"),
	})
	if !result.ShippingPerUnit.IsZero() {
		t.Fatalf("shipping per unit = %s, want 0", result.ShippingPerUnit)
	}
	if !result.TotalAmount.IsZero() {
		t.Fatalf("total = %s, want 0", result.TotalAmount)
	}
	if !result.UnitPrice.Equal(d("105")) {
		t.Fatalf("unit price = %s", result.UnitPrice)
	}
}

func TestComputeFromManualUnitPrice(t *testing.T) {
	input := PricingInput{
		ReferenceUnitPrice: d("40"),
		Quantity:           d("2000"),
		ShippingTotal:      d("300"),
	}
	result, implied := ComputeFromManualUnitPrice(input, d("38.5"))
	if !implied.Equal(d("-3.75")) {
		t.Fatalf("implied rate = %s", implied)
	}
	// The typed price is held as-is, not rebuilt from the implied rate.
	if !result.UnitPrice.Equal(d("38.5")) {
		t.Fatalf("unit price = %s", result.UnitPrice)
	}
	if !result.ShippingPerUnit.Equal(d("0.15")) {
		t.Fatalf("shipping per unit = %s", result.ShippingPerUnit)
	}
	if !result.UnitPriceWithShipping.Equal(d("38.65")) {
		t.Fatalf("unit price with shipping = %s", result.UnitPriceWithShipping)
	}
	if !result.TotalAmount.Equal(d("77000")) {
		t.Fatalf("total = %s", result.TotalAmount)
	}
}

func TestImpliedRateZeroReference(t *testing.T) {
	if got := ImpliedRate(d("38.5"), decimal.Zero); !got.IsZero() {
		t.Fatalf("implied rate with zero reference = %s, want 0", got)
	}
}

func TestRateSetSyncRecomputesBothRates(t *testing.T) {
	rs := RateSet{Active: SourcePump}
	rs = rs.Sync(d("110"), d("100"), d("88"))
	if !rs.PumpRate.Equal(d("10")) {
		t.Fatalf("pump rate = %s", rs.PumpRate)
	}
	if !rs.DistributorRate.Equal(d("25")) {
		t.Fatalf("distributor rate = %s", rs.DistributorRate)
	}
	if !rs.ActiveRate().Equal(d("10")) {
		t.Fatalf("active rate = %s", rs.ActiveRate())
	}
	rs.Active = SourceDistributor
	if !rs.ActiveRate().Equal(d("25")) {
		t.Fatalf("active rate after switch = %s", rs.ActiveRate())
	}
	if !rs.Reference(d("100"), d("88")).Equal(d("88")) {
		t.Fatalf("active reference mismatch")
	}
	// A missing reference keeps that side at zero instead of propagating NaN.
	rs = rs.Sync(d("110"), decimal.Zero, d("88"))
	if !rs.PumpRate.IsZero() {
		t.Fatalf("pump rate with zero reference = %s", rs.PumpRate)
	}
}
