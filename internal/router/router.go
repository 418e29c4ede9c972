// Package router wires the HTTP handlers onto a fiber app.
package router

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"optistore/internal/handler"
	"optistore/internal/middleware"
	"optistore/internal/service"
	"optistore/internal/ws"
)

// Services is everything the routes need.
type Services struct {
	Auth      service.AuthService
	Customers service.CustomerService
	Purchases service.PurchaseService
	Catalog   service.CatalogService
	Inventory service.InventoryService
	Sales     service.SalesService
	Billing   service.BillingService
	Dashboard service.DashboardService
	Promotion service.PromotionService
}

// Setup registers every route. hub may be nil, in which case /ws is not served.
func Setup(app *fiber.App, s Services, hub *ws.Hub) {
	authHandler := handler.NewAuthHandler(s.Auth)
	dashHandler := handler.NewDashboardHandler(s.Dashboard)
	customerHandler := handler.NewCustomerHandler(s.Customers)
	purchaseHandler := handler.NewPurchaseHandler(s.Purchases)
	catalogHandler := handler.NewCatalogHandler(s.Catalog)
	invHandler := handler.NewInventoryHandler(s.Inventory)
	salesHandler := handler.NewSalesHandler(s.Sales)
	billingHandler := handler.NewBillingHandler(s.Billing)
	promoHandler := handler.NewPromotionHandler(s.Promotion)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(s.Auth))

	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)

	// Customers and what hangs off them
	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Post("/customers", customerHandler.CreateCustomer)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Put("/customers/:id", customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", customerHandler.DeleteCustomer)
	protected.Post("/customers/:id/purchases", purchaseHandler.AddPurchase)
	protected.Post("/customers/:id/bills", billingHandler.CreateBill)

	protected.Get("/purchases/:id", purchaseHandler.GetPurchase)
	protected.Delete("/purchases/:id", purchaseHandler.DeletePurchase)
	protected.Delete("/prescriptions/:id", purchaseHandler.DeletePrescription)

	protected.Get("/bills/:id", billingHandler.GetBill)
	protected.Delete("/bills/:id", billingHandler.DeleteBill)

	// Catalog
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Post("/products", catalogHandler.CreateProduct)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Put("/products/:id", catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", catalogHandler.DeleteProduct)

	protected.Get("/categories", catalogHandler.GetCategories)
	protected.Post("/categories", catalogHandler.CreateCategory)
	protected.Put("/categories/:id", catalogHandler.UpdateCategory)
	protected.Delete("/categories/:id", catalogHandler.DeleteCategory)

	protected.Get("/suppliers", catalogHandler.GetSuppliers)
	protected.Post("/suppliers", catalogHandler.CreateSupplier)
	protected.Get("/suppliers/:id", catalogHandler.GetSupplier)
	protected.Put("/suppliers/:id", catalogHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", catalogHandler.DeleteSupplier)
	protected.Get("/suppliers/:id/inventory", invHandler.GetSupplierLedger)

	// Inventory
	protected.Get("/inventory", invHandler.GetInventory)
	protected.Post("/inventory", invHandler.CreateItem)
	protected.Get("/inventory/low-stock", invHandler.GetLowStock)
	protected.Get("/inventory/batch/:batch", invHandler.GetBatch)
	protected.Get("/inventory/:id", invHandler.GetItem)
	protected.Put("/inventory/:id", invHandler.UpdateItem)
	protected.Post("/inventory/:id/toggle", invHandler.ToggleItem)
	protected.Post("/inventory/:id/adjust", invHandler.AdjustStock)

	// Sales
	protected.Get("/sales", salesHandler.GetReport)
	protected.Post("/sales", salesHandler.RecordSale)
	protected.Get("/sales/gst", salesHandler.GetGSTReport)
	protected.Get("/sales/export", salesHandler.ExportSales)
	protected.Get("/sales/:id", salesHandler.GetSale)
	protected.Delete("/sales/:id", salesHandler.DeleteSale)

	protected.Post("/promotions", promoHandler.SendPromotion)

	if hub == nil {
		return
	}

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
