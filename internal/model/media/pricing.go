package media

import (
	"github.com/shopspring/decimal"
)

// PricingVariant selects the rates a Pricing view applies to a product.
type PricingVariant int

const (
	PricingRegular PricingVariant = iota
	PricingDiscounted
)

var (
	regularTaxRate     = decimal.RequireFromString("0.08")
	discountedTaxRate  = decimal.RequireFromString("0.05")
	regularShipping    = decimal.RequireFromString("2.00")
	discountedShipping = decimal.RequireFromString("1.50")
	undiscountRate     = decimal.RequireFromString("1.20")
)

// Pricing is a view over a stored product. Both variants read the same
// row; only the rates and the display name differ.
type Pricing struct {
	product *Product
	variant PricingVariant
}

func NewPricing(p *Product, variant PricingVariant) Pricing {
	return Pricing{product: p, variant: variant}
}

func (p Pricing) Product() *Product {
	return p.product
}

func (p Pricing) Variant() PricingVariant {
	return p.variant
}

// Tax is the price times the variant's tax rate.
func (p Pricing) Tax() decimal.Decimal {
	if p.variant == PricingDiscounted {
		return p.product.Price.Mul(discountedTaxRate)
	}
	return p.product.Price.Mul(regularTaxRate)
}

// ShippingCost is the weight times the variant's shipping rate.
func (p Pricing) ShippingCost(weight decimal.Decimal) decimal.Decimal {
	if p.variant == PricingDiscounted {
		return weight.Mul(discountedShipping)
	}
	return weight.Mul(regularShipping)
}

func (p Pricing) FormatName() string {
	if p.variant == PricingDiscounted {
		return "Discounted Product: " + p.product.Name
	}
	return "Product: " + p.product.Name
}

// PriceWithoutDiscount restores the price a discounted product had before
// its discount. Regular products were never discounted and keep their price.
func (p Pricing) PriceWithoutDiscount() decimal.Decimal {
	if p.variant == PricingDiscounted {
		return p.product.Price.Mul(undiscountRate)
	}
	return p.product.Price
}
