package models

import (
	"context"
	"time"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/utils"
	"github.com/shopspring/decimal"
)

// Warehouse is one of the fixed storage locations seeded at first run.
// Capacity is expressed in the same unit as the batches stored there.
type Warehouse struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Code        string          `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Capacity    decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"capacity"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewWarehouse struct {
	Code        string          `json:"code" binding:"required" validate:"required,min=3,max=10,refcode"`
	Name        string          `json:"name" binding:"required" validate:"required,min=2,max=100"`
	Description string          `json:"description"`
	Capacity    decimal.Decimal `json:"capacity"`
}

func (input *NewWarehouse) validate(ctx context.Context, id int) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.Capacity.IsNegative() {
		return utils.NewValidationError("capacity cannot be negative")
	}
	if err := utils.ValidateUnique[Warehouse](ctx, "code", input.Code, id); err != nil {
		return err
	}
	return nil
}

func (input *NewWarehouse) fields() map[string]interface{} {
	return map[string]interface{}{
		"code":        input.Code,
		"name":        input.Name,
		"description": input.Description,
		"capacity":    input.Capacity,
	}
}

func (w *Warehouse) auditValues() map[string]interface{} {
	return map[string]interface{}{
		"code":        w.Code,
		"name":        w.Name,
		"description": w.Description,
		"capacity":    w.Capacity,
	}
}

func CreateWarehouse(ctx context.Context, input *NewWarehouse) (*Warehouse, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	warehouse := Warehouse{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Capacity:    input.Capacity,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&warehouse).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryCreate(tx.WithContext(ctx), "warehouses", warehouse.ID, warehouse.auditValues(), "Warehouse created: "+warehouse.Code); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func UpdateWarehouse(ctx context.Context, id int, input *NewWarehouse) (*Warehouse, error) {

	warehouse, err := utils.FetchModel[Warehouse](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	// shrinking capacity below what is already stored would break the
	// distribution bound retroactively
	stored, err := warehouseStoredQuantity(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Capacity.LessThan(stored) {
		return nil, utils.NewValidationError("capacity is below the quantity currently stored")
	}

	oldValues := warehouse.auditValues()

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(warehouse).Updates(input.fields()).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryUpdate(tx.WithContext(ctx), "warehouses", id, oldValues, input.fields(), ""); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Warehouse](ctx, id)
}

// DeleteWarehouse is a soft delete; it fails while any batch quantity is
// stored at the location.
func DeleteWarehouse(ctx context.Context, id int) (*Warehouse, error) {

	warehouse, err := utils.FetchModel[Warehouse](ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := warehouseStoredQuantity(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored.IsPositive() {
		return nil, utils.NewValidationError("warehouse has stock")
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(warehouse).UpdateColumn("is_active", false).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryDelete(tx.WithContext(ctx), "warehouses", id, warehouse.auditValues(), "Warehouse deleted: "+warehouse.Code); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Warehouse](ctx, id)
}

func GetWarehouse(ctx context.Context, id int) (*Warehouse, error) {
	return utils.FetchModel[Warehouse](ctx, id)
}

func GetWarehouseByCode(ctx context.Context, code string) (*Warehouse, error) {
	return utils.FetchModelWhere[Warehouse](ctx, "code = ?", code)
}

func ListWarehouses(ctx context.Context, activeOnly bool) ([]*Warehouse, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	var results []*Warehouse
	if err := dbCtx.Order("code").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func SearchWarehouses(ctx context.Context, term string) ([]*Warehouse, error) {
	db := config.GetDB()
	pattern := "%" + term + "%"
	var results []*Warehouse
	err := db.WithContext(ctx).
		Where("code LIKE ? OR name LIKE ? OR description LIKE ?", pattern, pattern, pattern).
		Order("code").Limit(config.SearchLimit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ToggleActiveWarehouse(ctx context.Context, id int, isActive bool) (*Warehouse, error) {
	return ToggleActiveModel[Warehouse](ctx, id, isActive)
}

// warehouseStoredQuantity sums the batch quantity currently held at one
// location, across all batches.
func warehouseStoredQuantity(ctx context.Context, warehouseId int) (decimal.Decimal, error) {
	db := config.GetDB()
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Model(&BatchWarehouse{}).
		Where("warehouse_id = ?", warehouseId).
		Select("SUM(quantity_stored)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

type WarehouseUtilization struct {
	WarehouseId    int             `json:"warehouse_id"`
	WarehouseCode  string          `json:"warehouse_code"`
	WarehouseName  string          `json:"warehouse_name"`
	Capacity       decimal.Decimal `json:"capacity"`
	TotalStored    decimal.Decimal `json:"total_stored"`
	AvailableSpace decimal.Decimal `json:"available_space"`
	UtilizationPct decimal.Decimal `json:"utilization_pct"`
	BatchCount     int64           `json:"batch_count"`
}

func GetWarehouseUtilization(ctx context.Context, id int) (*WarehouseUtilization, error) {
	warehouse, err := utils.FetchModel[Warehouse](ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := warehouseStoredQuantity(ctx, id)
	if err != nil {
		return nil, err
	}
	batchCount, err := utils.ResourceCountWhere[BatchWarehouse](ctx, "warehouse_id = ? AND quantity_stored > 0", id)
	if err != nil {
		return nil, err
	}

	u := WarehouseUtilization{
		WarehouseId:    warehouse.ID,
		WarehouseCode:  warehouse.Code,
		WarehouseName:  warehouse.Name,
		Capacity:       warehouse.Capacity,
		TotalStored:    stored,
		AvailableSpace: warehouse.Capacity.Sub(stored),
		BatchCount:     batchCount,
	}
	if warehouse.Capacity.IsPositive() {
		u.UtilizationPct = stored.Div(warehouse.Capacity).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &u, nil
}
