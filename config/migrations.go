package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250110_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Status{}, &models.Tender{},
					&models.TenderStatusHistory{})
			},
		},
		{
			ID: "20250110_seed_statuses",
			Migrate: func(tx *gorm.DB) error {
				for _, def := range tenderflow.DefaultStatuses() {
					status := models.Status{
						ID:       def.ID,
						Name:     def.Name,
						Stage:    string(def.Stage),
						Category: string(def.Category),
					}
					if err := tx.Where("id = ?", def.ID).FirstOrCreate(&status).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			ID: "20250117_create_info_sheet_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.TenderInfoSheet{}, &models.TenderClient{},
					&models.TenderTechnicalDocument{}, &models.TenderFinancialDocument{})
			},
		},
		{
			ID: "20250124_create_rfq_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Rfq{}, &models.RfqItem{}, &models.RfqDocument{},
					&models.RfqResponse{}, &models.RfqResponseItem{})
			},
		},
		{
			ID: "20250131_create_payment_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.PaymentRequest{}, &models.PaymentInstrument{})
			},
		},
		{
			ID: "20250207_create_costing_and_bid_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.CostingSheet{}, &models.BidSubmission{},
					&models.TenderResult{})
			},
		},
	})
	return m.Migrate()
}
