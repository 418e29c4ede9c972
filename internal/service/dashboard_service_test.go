package service

import (
	"context"
	"testing"

	"optistore/internal/testutil"
)

func TestDashboardStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := testutil.Account(t, e.db, "alice")
	other := testutil.Account(t, e.db, "bob")

	testutil.Customer(t, e.db, owner, "Asha", "9000000001")
	testutil.Customer(t, e.db, owner, "Ravi", "9000000002")
	testutil.Customer(t, e.db, other, "Ben", "9000000003")

	product := testutil.Product(t, e.db, "Frame", "100", nil)
	for day := 1; day <= 7; day++ {
		recordSale(t, e, owner.Caller(), product, nil, testutil.Day(2024, 3, day), 1, "100")
	}
	recordSale(t, e, other.Caller(), product, nil, testutil.Day(2024, 3, 8), 1, "100")

	for i := 0; i < 7; i++ {
		testutil.Lot(t, e.db, product, testutil.Unique("LOW"), 2)
	}
	testutil.Lot(t, e.db, product, "FULL", 50)

	stats, err := e.dashboard.GetDashboardStats(ctx, owner.Caller())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.CustomerCount != 2 {
		t.Fatalf("customer count = %d", stats.CustomerCount)
	}
	if len(stats.RecentSales) != 5 {
		t.Fatalf("recent sales = %d, want 5", len(stats.RecentSales))
	}
	for _, s := range stats.RecentSales {
		if *s.CreatedByID != owner.ID {
			t.Fatalf("recent sales include another account's sale")
		}
	}
	if len(stats.LowStock) != 5 {
		t.Fatalf("low stock = %d, want 5", len(stats.LowStock))
	}
}
