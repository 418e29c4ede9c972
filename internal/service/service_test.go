package service

import (
	"sync"
	"testing"

	"gorm.io/gorm"

	"optistore/internal/model"
	"optistore/internal/repository"
	"optistore/internal/testutil"
	"optistore/internal/ws"
)

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recorder) Publish(e ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type env struct {
	db        *gorm.DB
	events    *recorder
	customers CustomerService
	purchases PurchaseService
	catalog   CatalogService
	inventory InventoryService
	sales     SalesService
	billing   BillingService
	dashboard DashboardService
	auth      AuthService

	customerRepo  repository.CustomerRepository
	historyRepo   repository.HistoryRepository
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	supplierRepo  repository.SupplierRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.OpenDB(t)
	e := &env{
		db:            db,
		events:        &recorder{},
		customerRepo:  repository.NewCustomerRepo(db),
		historyRepo:   repository.NewHistoryRepo(db),
		inventoryRepo: repository.NewInventoryRepo(db),
		productRepo:   repository.NewProductRepo(db),
		supplierRepo:  repository.NewSupplierRepo(db),
	}
	e.customers = NewCustomerService(e.customerRepo, NewHistoryRecorder(e.historyRepo), db)
	e.purchases = NewPurchaseService(e.customerRepo, repository.NewPurchaseRepo(db), repository.NewPrescriptionRepo(db), db)
	e.catalog = NewCatalogService(e.productRepo, repository.NewCategoryRepo(db), e.supplierRepo, db)
	e.inventory = NewInventoryService(e.inventoryRepo, e.productRepo, e.supplierRepo, e.events)
	e.sales = NewSalesService(repository.NewSaleRepo(db), e.productRepo, e.customerRepo)
	e.billing = NewBillingService(repository.NewBillRepo(db), e.customerRepo, e.productRepo, db)
	e.dashboard = NewDashboardService(e.customers, e.sales, e.inventory, 5)
	e.auth = NewAuthService(repository.NewAccountRepo(db))
	return e
}

// caller creates an account and returns its identity.
func (e *env) caller(t *testing.T, username string) model.Caller {
	t.Helper()
	return testutil.Account(t, e.db, username).Caller()
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }
