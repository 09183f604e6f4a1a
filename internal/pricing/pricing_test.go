package pricing

import (
	"testing"

	"backend/internal/models"
)

var threshold = models.MustMoney("50.00")

func TestComputeShippingBelowThreshold(t *testing.T) {
	cost := ComputeShipping(models.MustMoney("49.99"), StandardMethodName, models.MustMoney("5.99"), threshold)
	if cost.String() != "5.99" {
		t.Fatalf("expected 5.99, got %s", cost)
	}
}

func TestComputeShippingAtThresholdIsFree(t *testing.T) {
	cost := ComputeShipping(models.MustMoney("50.00"), StandardMethodName, models.MustMoney("5.99"), threshold)
	if !cost.IsZero() {
		t.Fatalf("expected free shipping at threshold, got %s", cost)
	}
}

func TestComputeShippingAboveThresholdIsFree(t *testing.T) {
	cost := ComputeShipping(models.MustMoney("70.97"), StandardMethodName, models.MustMoney("5.99"), threshold)
	if !cost.IsZero() {
		t.Fatalf("expected free shipping above threshold, got %s", cost)
	}
}

func TestComputeShippingExpressNeverDiscounted(t *testing.T) {
	cost := ComputeShipping(models.MustMoney("1000"), "Express Shipping", models.MustMoney("12.99"), threshold)
	if cost.String() != "12.99" {
		t.Fatalf("expected full express price regardless of subtotal, got %s", cost)
	}
}

func TestComputeShippingUnknownMethodKeepsPrice(t *testing.T) {
	cost := ComputeShipping(models.MustMoney("99.99"), "Pickup Point", models.MustMoney("3.49"), threshold)
	if cost.String() != "3.49" {
		t.Fatalf("expected full price for non-standard method, got %s", cost)
	}
}

func TestComputeTotal(t *testing.T) {
	total := ComputeTotal(models.MustMoney("70.97"), models.ZeroMoney)
	if total.String() != "70.97" {
		t.Fatalf("expected 70.97, got %s", total)
	}

	total = ComputeTotal(models.MustMoney("49.99"), models.MustMoney("5.99"))
	if total.String() != "55.98" {
		t.Fatalf("expected 55.98, got %s", total)
	}
}
