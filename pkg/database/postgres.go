package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"optistore/internal/model"
)

// Models lists every table, in dependency order, for AutoMigrate.
var Models = []interface{}{
	&model.Account{},
	&model.Customer{},
	&model.Purchase{},
	&model.Prescription{},
	&model.CustomerHistory{},
	&model.ProductCategory{},
	&model.Product{},
	&model.Supplier{},
	&model.Inventory{},
	&model.Sale{},
	&model.Bill{},
}

// GormConfig is shared by the Postgres connection and the test databases so
// both translate driver errors into gorm.ErrDuplicatedKey / ErrForeignKeyViolated.
func GormConfig(l logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:         l,
		PrepareStmt:    false, // Disables GORM-level prepared statements
		TranslateError: true,
	}
}

func ConnectDB(dsn string) *gorm.DB {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled transaction mode
	}), GormConfig(newLogger))

	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
