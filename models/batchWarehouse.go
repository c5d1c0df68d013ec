package models

import (
	"context"
	"time"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/shopspring/decimal"
)

// BatchWarehouse holds the stored quantity of one batch at one warehouse.
// Rows are replaced wholesale by DistributeBatch; this is the only entity
// that is hard-deleted.
type BatchWarehouse struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BatchId        int             `gorm:"not null;index" json:"batch_id"`
	WarehouseId    int             `gorm:"not null;index" json:"warehouse_id"`
	QuantityStored decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"quantity_stored"`
	Notes          string          `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// BatchAllocation is one requested (warehouse, quantity) pair of a
// distribution.
type BatchAllocation struct {
	WarehouseId int             `json:"warehouse_id" binding:"required" validate:"required,gt=0"`
	Quantity    decimal.Decimal `json:"quantity"`
	Notes       string          `json:"notes"`
}

// GetBatchDistribution lists the current warehouse rows of a batch.
func GetBatchDistribution(ctx context.Context, batchId int) ([]*BatchWarehouse, error) {
	db := config.GetDB()
	var results []*BatchWarehouse
	err := db.WithContext(ctx).Where("batch_id = ?", batchId).Order("warehouse_id").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
