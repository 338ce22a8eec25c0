package offer

import (
	"github.com/shopspring/decimal"
)

// PriceSource selects which reference price an offer is based on.
type PriceSource string

const (
	SourcePump        PriceSource = "pump"
	SourceDistributor PriceSource = "distributor"
)

var oneHundred = decimal.NewFromInt(100)

// PricingInput carries the figures an offer quote is derived from. Quantity is
// in liters; ShippingTotal is the whole-order shipping cost.
type PricingInput struct {
	ReferenceUnitPrice decimal.Decimal
	RatePercent        decimal.Decimal
	Quantity           decimal.Decimal
	ShippingTotal      decimal.Decimal
}

// PricingResult is the derived offer pricing. Unit figures keep four decimals
// because sub-cent differences matter at tanker volumes; the order total is
// currency-rounded to cents.
type PricingResult struct {
	UnitPrice             decimal.Decimal `json:"unit_price"`
	ShippingPerUnit       decimal.Decimal `json:"shipping_per_unit"`
	UnitPriceWithShipping decimal.Decimal `json:"unit_price_with_shipping"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
}

// ComputeFromRate derives offer pricing from a reference price and a discount
// or markup rate. A negative rate is a discount, a positive one a markup.
// Quantity zero is a reachable state during form entry and yields zero
// shipping-per-unit and total instead of a division error.
func ComputeFromRate(in PricingInput) PricingResult {
	unitPrice := in.ReferenceUnitPrice.Mul(oneHundred.Add(in.RatePercent)).Div(oneHundred).Round(4)
	return completePricing(unitPrice, in)
}

// ComputeFromManualUnitPrice derives offer pricing from a unit price typed
// directly by the user. The typed price is held as-is rather than being
// rebuilt from the implied rate, so the result reflects exactly what was
// entered; the implied rate is returned for display alongside.
func ComputeFromManualUnitPrice(in PricingInput, manualUnitPrice decimal.Decimal) (PricingResult, decimal.Decimal) {
	implied := ImpliedRate(manualUnitPrice, in.ReferenceUnitPrice)
	return completePricing(manualUnitPrice.Round(4), in), implied
}

// ImpliedRate computes the discount/markup percentage that turns reference
// into price. A zero reference yields zero, never an error or a NaN.
func ImpliedRate(price, reference decimal.Decimal) decimal.Decimal {
	if reference.IsZero() {
		return decimal.Zero
	}
	return price.Div(reference).Sub(decimal.NewFromInt(1)).Mul(oneHundred).Round(2)
}

func completePricing(unitPrice decimal.Decimal, in PricingInput) PricingResult {
	shippingPerUnit := decimal.Zero
	if in.Quantity.IsPositive() {
		shippingPerUnit = in.ShippingTotal.Div(in.Quantity).Round(4)
	}
	total := decimal.Zero
	if in.Quantity.IsPositive() {
		total = in.Quantity.Mul(unitPrice).Round(2)
	}
	return PricingResult{
		UnitPrice:             unitPrice,
		ShippingPerUnit:       shippingPerUnit,
		UnitPriceWithShipping: unitPrice.Add(shippingPerUnit).Round(4),
		TotalAmount:           total,
	}
}

// RateSet tracks the discount rates against both reference prices at once.
// The offer form shows both for comparison, so whenever the unit price moves
// BOTH rates are resynced, not just the active one.
type RateSet struct {
	PumpRate        decimal.Decimal `json:"pump_rate"`
	DistributorRate decimal.Decimal `json:"distributor_rate"`
	Active          PriceSource     `json:"active"`
}

// Sync recomputes both tracked rates from the current unit price.
func (rs RateSet) Sync(unitPrice, pumpRef, distributorRef decimal.Decimal) RateSet {
	rs.PumpRate = ImpliedRate(unitPrice, pumpRef)
	rs.DistributorRate = ImpliedRate(unitPrice, distributorRef)
	return rs
}

// ActiveRate returns the rate tracked for the active price source.
func (rs RateSet) ActiveRate() decimal.Decimal {
	if rs.Active == SourceDistributor {
		return rs.DistributorRate
	}
	return rs.PumpRate
}

// Reference selects the reference price matching the active source.
func (rs RateSet) Reference(pumpRef, distributorRef decimal.Decimal) decimal.Decimal {
	if rs.Active == SourceDistributor {
		return distributorRef
	}
	return pumpRef
}
