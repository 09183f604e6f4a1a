// Package pricing holds the shipping-cost rules shared by the cart preview,
// the checkout calculation endpoint and order creation. Keeping them in one
// place is what stops the call sites from drifting apart.
package pricing

import "backend/internal/models"

// StandardMethodName is the only method name eligible for free shipping.
const StandardMethodName = "Standard Shipping"

// ComputeShipping returns the shipping cost for a cart subtotal. Only the
// standard method is discounted: once the subtotal reaches the free-shipping
// threshold it costs nothing. Every other method keeps its full price no
// matter how large the order is.
func ComputeShipping(subtotal models.Money, methodName string, methodPrice, freeThreshold models.Money) models.Money {
	if methodName == StandardMethodName && subtotal.Cmp(freeThreshold) >= 0 {
		return models.ZeroMoney
	}
	return methodPrice
}

// ComputeTotal returns subtotal plus shipping, exact decimal arithmetic.
func ComputeTotal(subtotal, shippingCost models.Money) models.Money {
	return subtotal.Add(shippingCost)
}
