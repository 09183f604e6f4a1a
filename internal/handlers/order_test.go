package handlers

import (
	"regexp"
	"strings"
	"testing"

	"backend/internal/models"
	"backend/internal/pricing"
)

func TestOrderSubtotalFromSnapshot(t *testing.T) {
	items := []models.OrderItem{
		{ProductName: "Classic Tee", Size: "M", Quantity: 2, Price: models.MustMoney("22.99")},
		{ProductName: "Oversized Tee", Size: "L", Quantity: 1, Price: models.MustMoney("24.99")},
	}

	subtotal := orderSubtotal(items)
	if subtotal.String() != "70.97" {
		t.Fatalf("expected subtotal 70.97, got %s", subtotal)
	}

	shipping := pricing.ComputeShipping(subtotal, pricing.StandardMethodName, models.MustMoney("5.99"), models.MustMoney("50.00"))
	if !shipping.IsZero() {
		t.Fatalf("expected free standard shipping, got %s", shipping)
	}
	if total := pricing.ComputeTotal(subtotal, shipping); total.String() != "70.97" {
		t.Fatalf("expected total 70.97, got %s", total)
	}
}

func TestBuildOrderItemsRejectsEmpty(t *testing.T) {
	if _, err := buildOrderItems(nil); err == nil {
		t.Fatal("expected error for empty items")
	}
}

func TestBuildOrderItemsRejectsBadQuantityAndPrice(t *testing.T) {
	_, err := buildOrderItems([]CreateOrderItemRequest{
		{ProductName: "Tee", Size: "S", Quantity: 0, Price: models.MustMoney("22.99")},
	})
	if err == nil {
		t.Fatal("expected error for zero quantity")
	}

	_, err = buildOrderItems([]CreateOrderItemRequest{
		{ProductName: "Tee", Size: "S", Quantity: 1, Price: models.MustMoney("-1")},
	})
	if err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestGenerateOrderNumberShape(t *testing.T) {
	pattern := regexp.MustCompile(`^TAV-[0-9A-Z]+-[0-9A-Z]{6}$`)

	number, err := generateOrderNumber()
	if err != nil {
		t.Fatalf("generateOrderNumber returned error: %v", err)
	}
	if !pattern.MatchString(number) {
		t.Fatalf("unexpected order number shape: %s", number)
	}
	if !strings.HasPrefix(number, orderNumberPrefix+"-") {
		t.Fatalf("expected %s prefix, got %s", orderNumberPrefix, number)
	}
}

func TestGenerateOrderNumberVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number, err := generateOrderNumber()
		if err != nil {
			t.Fatalf("generateOrderNumber returned error: %v", err)
		}
		if seen[number] {
			t.Fatalf("duplicate order number within a single run: %s", number)
		}
		seen[number] = true
	}
}
