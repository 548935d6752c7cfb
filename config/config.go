package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
)

var DB *gorm.DB

// StatusRegistry holds the tender status table loaded at startup.
var StatusRegistry *tenderflow.Registry

func Connect() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dsn := os.Getenv("DB_DSN")
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := Migrations(DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Seed default users
	SeedUsers()

	StatusRegistry = LoadStatusRegistry(DB)
}

// LoadStatusRegistry reads the statuses table into the in-memory
// registry. A broken table (duplicate ids, blank names) is fatal at
// startup rather than a runtime surprise.
func LoadStatusRegistry(db *gorm.DB) *tenderflow.Registry {
	var rows []models.Status
	if err := db.Order("id").Find(&rows).Error; err != nil {
		log.Fatal("Failed to load status registry:", err)
	}

	defs := make([]tenderflow.StatusDef, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, tenderflow.StatusDef{
			ID:       row.ID,
			Name:     row.Name,
			Stage:    tenderflow.Stage(row.Stage),
			Category: tenderflow.Category(row.Category),
		})
	}

	registry, err := tenderflow.NewRegistry(defs)
	if err != nil {
		log.Fatal("Invalid status registry:", err)
	}
	return registry
}
