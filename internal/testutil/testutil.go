// Package testutil opens throwaway SQLite stores with the production schema.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"optistore/internal/model"
	"optistore/pkg/database"
)

// OpenDB returns a migrated database backed by a file in t.TempDir.
// Foreign keys are enforced so delete ordering is exercised for real.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(logger.Default.LogMode(logger.Silent)))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// Account inserts an active account and returns it.
func Account(t *testing.T, db *gorm.DB, username string) *model.Account {
	t.Helper()
	acc := &model.Account{
		Username: username,
		Email:    username + "@example.com",
		IsActive: true,
	}
	if err := acc.SetPassword("password123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(acc).Error; err != nil {
		t.Fatalf("create account %s: %v", username, err)
	}
	return acc
}

// Customer inserts a customer owned by owner.
func Customer(t *testing.T, db *gorm.DB, owner *model.Account, first, phone string) *model.Customer {
	t.Helper()
	c := &model.Customer{AccountID: owner.ID, FirstName: first, LastName: "Test"}
	if phone != "" {
		c.Phone = &phone
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create customer %s: %v", first, err)
	}
	return c
}

// Category inserts a category; rate may be empty for "no override".
func Category(t *testing.T, db *gorm.DB, name, rate string) *model.ProductCategory {
	t.Helper()
	cat := &model.ProductCategory{Name: name}
	if rate != "" {
		cat.GSTRate = decimal.NewNullDecimal(decimal.RequireFromString(rate))
	}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return cat
}

// Product inserts a product with GST 18 and reorder level 10.
func Product(t *testing.T, db *gorm.DB, name, price string, category *model.ProductCategory) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		GSTPercentage: decimal.NewFromInt(18),
		ReorderLevel:  10,
	}
	if category != nil {
		p.CategoryID = &category.ID
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

// Supplier inserts a supplier.
func Supplier(t *testing.T, db *gorm.DB, name string) *model.Supplier {
	t.Helper()
	s := &model.Supplier{Name: name, PaymentTerms: model.TermsNet30}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("create supplier %s: %v", name, err)
	}
	return s
}

// Lot inserts an active inventory lot for product.
func Lot(t *testing.T, db *gorm.DB, product *model.Product, batch string, qty int) *model.Inventory {
	t.Helper()
	item := &model.Inventory{
		ProductID:     product.ID,
		BatchNumber:   batch,
		Quantity:      qty,
		PurchasePrice: decimal.NewFromInt(100),
		SellingPrice:  decimal.NewFromInt(150),
		PurchaseDate:  Day(2024, 1, 1),
		IsActive:      true,
		Version:       1,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create lot %s: %v", batch, err)
	}
	return item
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Unique returns a short random suffix for names that must not collide.
func Unique(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}
