package main

import (
	"log"

	"github.com/spf13/pflag"

	"optistore/internal/config"
	"optistore/internal/model"
	"optistore/pkg/database"
)

// Resets an account's password and ends its current session.
//
//	go run ./cmd/reset-password --username admin --password newsecret
func main() {
	username := pflag.String("username", "admin", "account to reset")
	newPassword := pflag.String("password", "", "new password (at least 8 characters)")
	pflag.Parse()

	if len(*newPassword) < 8 {
		log.Fatal("❌ --password must be at least 8 characters")
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// 2. Setup Database
	db := database.ConnectDB(cfg.DSN())

	// 3. Find account
	var account model.Account
	if err := db.Where("username = ?", *username).First(&account).Error; err != nil {
		log.Fatalf("❌ Account %s not found in database: %v", *username, err)
	}

	// 4. Hash new password
	if err := account.SetPassword(*newPassword); err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 5. Update; clearing the token version logs out every open session
	if err := db.Model(&account).Updates(map[string]interface{}{
		"password":      account.Password,
		"token_version": "",
	}).Error; err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", *username)
}
