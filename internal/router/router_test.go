package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"optistore/internal/export"
	"optistore/internal/repository"
	"optistore/internal/service"
	"optistore/internal/testutil"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.OpenDB(t)

	customerRepo := repository.NewCustomerRepo(db)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	customers := service.NewCustomerService(customerRepo, service.NewHistoryRecorder(repository.NewHistoryRepo(db)), db)
	sales := service.NewSalesService(repository.NewSaleRepo(db), productRepo, customerRepo)
	inventory := service.NewInventoryService(repository.NewInventoryRepo(db), productRepo, supplierRepo, nil)

	app := fiber.New()
	Setup(app, Services{
		Auth:      service.NewAuthService(repository.NewAccountRepo(db)),
		Customers: customers,
		Purchases: service.NewPurchaseService(customerRepo, repository.NewPurchaseRepo(db), repository.NewPrescriptionRepo(db), db),
		Catalog:   service.NewCatalogService(productRepo, repository.NewCategoryRepo(db), supplierRepo, db),
		Inventory: inventory,
		Sales:     sales,
		Billing:   service.NewBillingService(repository.NewBillRepo(db), customerRepo, productRepo, db),
		Dashboard: service.NewDashboardService(customers, sales, inventory, 5),
		Promotion: service.NewPromotionService(customerRepo),
	}, nil)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

func decode(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return m
}

// login signs up username and returns a bearer token.
func login(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"username": username, "email": username + "@example.com", "password": "password123",
	})
	if status != 201 {
		t.Fatalf("signup %s: %d %s", username, status, body)
	}
	status, body = call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": username, "password": "password123",
	})
	if status != 200 {
		t.Fatalf("login %s: %d %s", username, status, body)
	}
	return decode(t, body)["token"].(string)
}

func TestAuthFlow(t *testing.T) {
	app := newApp(t)

	if status, _ := call(t, app, http.MethodGet, "/api/v1/customers", "", nil); status != 401 {
		t.Fatalf("no token: %d", status)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/v1/customers", "garbage", nil); status != 401 {
		t.Fatalf("bad token: %d", status)
	}

	token := login(t, app, "alice")
	if status, _ := call(t, app, http.MethodGet, "/api/v1/customers", token, nil); status != 200 {
		t.Fatalf("with token: %d", status)
	}

	status, body := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"username": "alice", "password": "nope"})
	if status != 401 {
		t.Fatalf("wrong password: %d %s", status, body)
	}

	status, body = call(t, app, http.MethodPost, "/api/v1/auth/validate-token", "", fiber.Map{"token": token})
	if status != 200 || decode(t, body)["valid"] != true {
		t.Fatalf("validate: %d %s", status, body)
	}

	// Logging in again replaces the first session.
	status, body = call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"username": "alice", "password": "password123"})
	if status != 200 {
		t.Fatalf("second login: %d %s", status, body)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/v1/customers", token, nil); status != 401 {
		t.Fatalf("replaced session: %d", status)
	}
}

func TestCustomerRoutes(t *testing.T) {
	app := newApp(t)
	alice := login(t, app, "alice")
	bob := login(t, app, "bob")

	status, body := call(t, app, http.MethodPost, "/api/v1/customers", alice, fiber.Map{
		"first_name": "Asha", "phone": "9000000001", "axis_left": 90,
	})
	if status != 201 {
		t.Fatalf("create: %d %s", status, body)
	}
	id := decode(t, body)["data"].(map[string]interface{})["id"].(string)

	status, body = call(t, app, http.MethodPost, "/api/v1/customers", alice, fiber.Map{"first_name": "Bad", "axis_left": 200})
	if status != 400 {
		t.Fatalf("invalid axis: %d %s", status, body)
	}
	fields := decode(t, body)["fields"].([]interface{})
	if fields[0].(map[string]interface{})["field"] != "axis_left" {
		t.Fatalf("fields = %v", fields)
	}

	status, _ = call(t, app, http.MethodPost, "/api/v1/customers", alice, fiber.Map{"first_name": "Dup", "phone": "9000000001"})
	if status != 409 {
		t.Fatalf("duplicate phone: %d", status)
	}

	status, body = call(t, app, http.MethodGet, "/api/v1/customers/"+id, alice, nil)
	if status != 200 {
		t.Fatalf("details: %d %s", status, body)
	}
	if history := decode(t, body)["history"].([]interface{}); len(history) != 1 {
		t.Fatalf("history = %v", history)
	}

	if status, _ := call(t, app, http.MethodGet, "/api/v1/customers/"+id, bob, nil); status != 403 {
		t.Fatalf("other account: %d", status)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/v1/customers/not-a-uuid", alice, nil); status != 400 {
		t.Fatalf("bad id: %d", status)
	}
	if status, _ := call(t, app, http.MethodDelete, "/api/v1/customers/"+id, alice, nil); status != 200 {
		t.Fatalf("delete: %d", status)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/v1/customers/"+id, alice, nil); status != 404 {
		t.Fatalf("after delete: %d", status)
	}
}

func TestInventoryAndSalesRoutes(t *testing.T) {
	app := newApp(t)
	token := login(t, app, "alice")

	status, body := call(t, app, http.MethodPost, "/api/v1/products", token, fiber.Map{"name": "Aviator", "price": "150.00"})
	if status != 201 {
		t.Fatalf("product: %d %s", status, body)
	}
	productID := decode(t, body)["data"].(map[string]interface{})["id"].(string)

	status, body = call(t, app, http.MethodPost, "/api/v1/inventory", token, fiber.Map{
		"product_id": productID, "batch_number": "B-1", "quantity": 20,
		"purchase_price": "100", "selling_price": "150", "purchase_date": "2024-01-01T00:00:00Z",
	})
	if status != 201 {
		t.Fatalf("inventory: %d %s", status, body)
	}
	item := decode(t, body)["data"].(map[string]interface{})
	itemID := item["id"].(string)

	status, body = call(t, app, http.MethodPost, "/api/v1/inventory/"+itemID+"/adjust", token, fiber.Map{"delta": -25})
	if status != 400 {
		t.Fatalf("oversell: %d %s", status, body)
	}
	status, _ = call(t, app, http.MethodPost, "/api/v1/inventory/"+itemID+"/adjust", token, fiber.Map{"delta": -5})
	if status != 200 {
		t.Fatalf("adjust: %d", status)
	}

	// The form still carries version 1.
	item["quantity"] = 40
	status, body = call(t, app, http.MethodPut, "/api/v1/inventory/"+itemID, token, item)
	if status != 409 {
		t.Fatalf("stale update: %d %s", status, body)
	}

	status, body = call(t, app, http.MethodPost, "/api/v1/sales", token, fiber.Map{
		"date": "2024-03-10T00:00:00Z", "product_id": productID, "quantity": 3, "price": "150.00", "total": "1",
	})
	if status != 201 {
		t.Fatalf("sale: %d %s", status, body)
	}
	if total := decode(t, body)["data"].(map[string]interface{})["total"]; total != "450" {
		t.Fatalf("sale total = %v", total)
	}

	status, body = call(t, app, http.MethodGet, "/api/v1/sales?start_date=2024-03-10&end_date=2024-03-10", token, nil)
	if status != 200 || len(decode(t, body)["sales"].([]interface{})) != 1 {
		t.Fatalf("report: %d %s", status, body)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/v1/sales?start_date=2024-03-11&end_date=2024-03-10", token, nil); status != 400 {
		t.Fatalf("reversed range: %d", status)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/v1/sales?start_date=10/03/2024", token, nil); status != 400 {
		t.Fatalf("bad date: %d", status)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 || resp.Header.Get("Content-Type") != export.ContentType {
		t.Fatalf("export: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Sales")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Aviator" || rows[1][5] != "N/A" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestMetricsRoute(t *testing.T) {
	app := newApp(t)
	status, body := call(t, app, http.MethodGet, "/metrics", "", nil)
	if status != 200 || !bytes.Contains(body, []byte("go_goroutines")) {
		t.Fatalf("metrics: %d", status)
	}
}
