// Package pricing holds the derived money computations of the store. Every
// function is pure and works on fixed-point decimals.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DefaultGSTPercentage applies to products created without an explicit rate.
var DefaultGSTPercentage = decimal.NewFromInt(18)

// DefaultReorderLevel is the stock threshold for products created without one.
const DefaultReorderLevel = 10

// PurchaseTotal adds lens and frame price. A nil price counts as zero.
func PurchaseTotal(lensPrice, framePrice *decimal.Decimal) decimal.Decimal {
	return orZero(lensPrice).Add(orZero(framePrice))
}

// ProductTotal is the tax-inclusive price: price * (1 + gst/100).
func ProductTotal(price, gstPercentage decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Add(gstPercentage.Div(hundred)))
}

// InventoryCost is quantity * purchase price.
func InventoryCost(quantity int, purchasePrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(purchasePrice)
}

// InventoryValue is quantity * selling price.
func InventoryValue(quantity int, sellingPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(sellingPrice)
}

// SaleTotal is quantity * price.
func SaleTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(price)
}

// IsLowStock reports whether an active lot has fallen below the reorder level.
func IsLowStock(active bool, quantity, reorderLevel int) bool {
	return active && quantity < reorderLevel
}

// BillSubtotal sums the listed product prices.
func BillSubtotal(prices []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, prices...)
}

// BillTotal is the subtotal minus the flat discount.
func BillTotal(prices []decimal.Decimal, discount decimal.Decimal) decimal.Decimal {
	return BillSubtotal(prices).Sub(discount)
}

// TaxOn returns amount * rate / 100.
func TaxOn(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
