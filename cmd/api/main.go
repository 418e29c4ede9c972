package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"optistore/internal/config"
	"optistore/internal/notify"
	"optistore/internal/repository"
	"optistore/internal/router"
	"optistore/internal/service"
	"optistore/internal/ws"
	"optistore/pkg/database"
	"optistore/pkg/jwt"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	jwt.SetSecretKey(cfg.JWTSecret)

	// 2. Setup Database
	db := database.ConnectDB(cfg.DSN())
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Outbound messaging, only for configured channels
	var smsSender, emailSender notify.Sender
	if cfg.SMSEnabled() {
		smsSender = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	} else {
		log.Println("Warning: Twilio not configured, SMS promotions disabled")
	}
	if cfg.EmailEnabled() {
		emailSender = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.DefaultFromEmail)
	} else {
		log.Println("Warning: SMTP not configured, email promotions disabled")
	}

	// 5. Dependency Injection (Wiring Layers)
	accountRepo := repository.NewAccountRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	prescriptionRepo := repository.NewPrescriptionRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	billRepo := repository.NewBillRepo(db)

	customerService := service.NewCustomerService(customerRepo, service.NewHistoryRecorder(historyRepo), db)
	salesService := service.NewSalesService(saleRepo, productRepo, customerRepo)
	invService := service.NewInventoryService(inventoryRepo, productRepo, supplierRepo, wsHub)

	services := router.Services{
		Auth:      service.NewAuthService(accountRepo),
		Customers: customerService,
		Purchases: service.NewPurchaseService(customerRepo, purchaseRepo, prescriptionRepo, db),
		Catalog:   service.NewCatalogService(productRepo, categoryRepo, supplierRepo, db),
		Inventory: invService,
		Sales:     salesService,
		Billing:   service.NewBillingService(billRepo, customerRepo, productRepo, db),
		Dashboard: service.NewDashboardService(customerService, salesService, invService, cfg.LowStockDashboardLimit),
		Promotion: service.NewPromotionService(customerRepo, smsSender, emailSender),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "OptiStore v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	router.Setup(app, services, wsHub)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
