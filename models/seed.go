package models

import (
	"context"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/utils"
	"github.com/shopspring/decimal"
)

// fixedWarehouses is the site layout: four bulk stores plus the small
// vault annex. Seeded once into an empty table; operators adjust
// capacities afterwards through the normal update path.
var fixedWarehouses = []Warehouse{
	{Code: "W01", Name: "Main Storage North", Description: "North yard bulk store", Capacity: decimal.NewFromInt(1000)},
	{Code: "W02", Name: "Main Storage South", Description: "South yard bulk store", Capacity: decimal.NewFromInt(750)},
	{Code: "W03", Name: "Processing Annex A", Description: "Processing wing", Capacity: decimal.NewFromInt(500)},
	{Code: "W04", Name: "Processing Annex B", Description: "Processing wing", Capacity: decimal.NewFromInt(500)},
	{Code: "VAS", Name: "Vault Annex", Description: "Secure block", Capacity: decimal.NewFromInt(300)},
}

// SeedWarehouses inserts the fixed warehouse set when the table is empty.
// Idempotent: a populated table is left alone.
func SeedWarehouses(ctx context.Context) error {
	db := config.GetDB()

	var count int64
	if err := db.WithContext(ctx).Model(&Warehouse{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx := db.Begin()
	for _, warehouse := range fixedWarehouses {
		row := warehouse
		row.IsActive = utils.NewTrue()
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := SaveHistoryCreate(tx.WithContext(ctx), "warehouses", row.ID,
			row.auditValues(), "Warehouse seeded: "+row.Code); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}
