package database

import (
	"fmt"
	"log"
	"os"

	"symposium-app/internal/domain/consumers"
	"symposium-app/internal/domain/events"
	"symposium-app/internal/domain/institutions"
	"symposium-app/internal/domain/subscriptions"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	// ✅ REQUIRED for UUID generation
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	// ✅ Auto-migrate all domain models
	if err := DB.AutoMigrate(
		// identity
		&institutions.Institution{},
		&consumers.Consumer{},
		&consumers.ConsumerEvent{},
		&consumers.BlockedConsumerEvent{},

		// billing
		&subscriptions.SubscriptionTier{},
		&subscriptions.Subscription{},
		&subscriptions.SubscriptionAdmin{},

		// conference content
		&events.Event{},
		&events.Presentation{},
		&events.LiveSession{},
		&events.Comment{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}
