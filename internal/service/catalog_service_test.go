package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"optistore/internal/apperr"
	"optistore/internal/model"
	"optistore/internal/testutil"
)

func TestCreateProductDefaults(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.caller(t, "alice")

	p, err := e.catalog.CreateProduct(ctx, alice, &ProductInput{Name: " Aviator ", Price: decimal.NewFromInt(2500)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Aviator" || !p.GSTPercentage.Equal(decimal.NewFromInt(18)) || p.ReorderLevel != 10 {
		t.Fatalf("defaults not applied: %+v", p)
	}
	if p.TotalCost().StringFixed(2) != "2950.00" {
		t.Fatalf("total cost = %s", p.TotalCost())
	}

	zero := decimal.Zero
	p, err = e.catalog.CreateProduct(ctx, alice, &ProductInput{
		Name:          "Cleaning cloth",
		Price:         decimal.NewFromInt(50),
		GSTPercentage: &zero,
		ReorderLevel:  intPtr(0),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.GSTPercentage.IsZero() || p.ReorderLevel != 0 {
		t.Fatalf("explicit zero overridden: gst=%s reorder=%d", p.GSTPercentage, p.ReorderLevel)
	}

	updated, err := e.catalog.UpdateProduct(ctx, alice, p.ID, &ProductInput{Name: "Cloth", Price: decimal.NewFromInt(60)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.GSTPercentage.IsZero() || updated.Name != "Cloth" {
		t.Fatalf("update should keep stored gst: %+v", updated)
	}
}

func TestCreateProductValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.caller(t, "alice")
	unknown := uuid.New()
	tooHigh := decimal.NewFromInt(101)

	cases := map[string]*ProductInput{
		"missing name":     {Price: decimal.NewFromInt(1)},
		"negative price":   {Name: "X", Price: decimal.NewFromInt(-1)},
		"gst above 100":    {Name: "X", Price: decimal.NewFromInt(1), GSTPercentage: &tooHigh},
		"unknown category": {Name: "X", Price: decimal.NewFromInt(1), CategoryID: &unknown},
		"bad lens type":    {Name: "X", Price: decimal.NewFromInt(1), LensType: "ZZ"},
	}
	for name, req := range cases {
		if _, err := e.catalog.CreateProduct(ctx, alice, req); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("%s: got %v", name, err)
		}
	}
	if _, err := e.catalog.CreateProduct(ctx, model.Caller{}, &ProductInput{Name: "X"}); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("anonymous: got %v", err)
	}
}

func TestCategoryRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := testutil.Account(t, e.db, "alice")
	alice := owner.Caller()

	if _, err := e.catalog.CreateCategory(ctx, alice, &model.ProductCategory{Name: "Lenses", GSTRate: decimal.NewNullDecimal(decimal.NewFromInt(101))}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("rate 101: got %v", err)
	}
	lenses, err := e.catalog.CreateCategory(ctx, alice, &model.ProductCategory{Name: "Lenses", GSTRate: decimal.NewNullDecimal(decimal.NewFromInt(5))})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.catalog.CreateCategory(ctx, alice, &model.ProductCategory{Name: "Lenses"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate name: got %v", err)
	}

	billed := testutil.Product(t, e.db, "Lens", "100", lenses)
	customer := testutil.Customer(t, e.db, owner, "Asha", "")
	if _, err := e.billing.Create(ctx, alice, customer.ID, &BillInput{ProductIDs: []uuid.UUID{billed.ID}, PaymentMethod: model.PaymentCash}); err != nil {
		t.Fatalf("bill: %v", err)
	}

	if err := e.catalog.DeleteCategory(ctx, alice, lenses.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("delete with billed product: got %v", err)
	}
	if _, err := e.catalog.GetProduct(ctx, billed.ID); err != nil {
		t.Fatalf("product must survive the aborted delete: %v", err)
	}
}

func TestSupplierGSTIN(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.caller(t, "alice")

	s, err := e.catalog.CreateSupplier(ctx, alice, &model.Supplier{Name: "Essilor", GSTIN: " 27aapfu0939f1zv ", PaymentTerms: model.TermsNet30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.GSTIN != "27AAPFU0939F1ZV" {
		t.Fatalf("gstin = %q", s.GSTIN)
	}

	_, err = e.catalog.CreateSupplier(ctx, alice, &model.Supplier{Name: "Zeiss", GSTIN: "27AAPFU0939F1Z"})
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "gstin" {
		t.Fatalf("bad gstin: got %v", err)
	}

	if _, err := e.catalog.CreateSupplier(ctx, alice, &model.Supplier{Name: "Essilor"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate name: got %v", err)
	}
}

func TestDeleteSupplierKeepsLots(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.caller(t, "alice")
	supplier := testutil.Supplier(t, e.db, "Essilor")
	product := testutil.Product(t, e.db, "Lens", "100", nil)
	lot := testutil.Lot(t, e.db, product, "B-1", 5)
	e.db.Model(lot).Update("supplier_id", supplier.ID)

	if err := e.catalog.DeleteSupplier(ctx, alice, supplier.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	item, err := e.inventory.Get(ctx, lot.ID)
	if err != nil {
		t.Fatalf("lot gone: %v", err)
	}
	if item.SupplierID != nil {
		t.Fatalf("supplier not cleared")
	}
	if _, err := e.catalog.GetSupplier(ctx, supplier.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("supplier still there: %v", err)
	}
}
