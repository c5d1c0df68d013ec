package models

import (
	"context"
	"fmt"
	"time"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Batch is a quantity of extracted material from one mine. TotalQuantity is
// the ceiling for both warehouse distribution and sample extraction; the
// remaining balance is always derived from source rows, never stored.
type Batch struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BatchNumber    string          `gorm:"size:50;uniqueIndex;not null" json:"batch_number"`
	MineId         int             `gorm:"not null;index" json:"mine_id"`
	Description    string          `gorm:"type:text" json:"description"`
	ExtractionDate time.Time       `gorm:"not null" json:"extraction_date"`
	TotalQuantity  decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"total_quantity"`
	Unit           string          `gorm:"size:10;not null;default:kg" json:"unit"`
	IsActive       *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBatch struct {
	BatchNumber    string          `json:"batch_number" binding:"required" validate:"required,min=3,max=50,refcode"`
	MineId         int             `json:"mine_id" binding:"required" validate:"required,gt=0"`
	Description    string          `json:"description"`
	ExtractionDate time.Time       `json:"extraction_date"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	Unit           string          `json:"unit"`
}

func (input *NewBatch) validate(ctx context.Context, id int) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.TotalQuantity.IsNegative() {
		return utils.NewValidationError("total quantity cannot be negative")
	}
	if input.Unit == "" {
		input.Unit = "kg"
	}
	if !ValidMeasurementUnit(input.Unit) {
		return utils.NewValidationError("invalid measurement unit %s", input.Unit)
	}
	if err := utils.ValidateUnique[Batch](ctx, "batch_number", input.BatchNumber, id); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Mine](ctx, input.MineId); err != nil {
		return utils.NewValidationError("mine not found")
	}
	return nil
}

func (input *NewBatch) fields() map[string]interface{} {
	return map[string]interface{}{
		"batch_number":    input.BatchNumber,
		"mine_id":         input.MineId,
		"description":     input.Description,
		"extraction_date": input.ExtractionDate,
		"total_quantity":  input.TotalQuantity,
		"unit":            input.Unit,
	}
}

func (b *Batch) auditValues() map[string]interface{} {
	return map[string]interface{}{
		"batch_number":    b.BatchNumber,
		"mine_id":         b.MineId,
		"description":     b.Description,
		"extraction_date": b.ExtractionDate,
		"total_quantity":  b.TotalQuantity,
		"unit":            b.Unit,
	}
}

func CreateBatch(ctx context.Context, input *NewBatch) (*Batch, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	if input.ExtractionDate.IsZero() {
		input.ExtractionDate = time.Now()
	}

	batch := Batch{
		BatchNumber:    input.BatchNumber,
		MineId:         input.MineId,
		Description:    input.Description,
		ExtractionDate: input.ExtractionDate,
		TotalQuantity:  input.TotalQuantity,
		Unit:           input.Unit,
		IsActive:       utils.NewTrue(),
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&batch).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryCreate(tx.WithContext(ctx), "batches", batch.ID, batch.auditValues(), "Batch created: "+batch.BatchNumber); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func UpdateBatch(ctx context.Context, id int, input *NewBatch) (*Batch, error) {

	batch, err := utils.FetchModel[Batch](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	// the total may not drop below what warehouses already hold
	stored, err := batchStoredQuantity(config.GetDB(), ctx, id)
	if err != nil {
		return nil, err
	}
	if input.TotalQuantity.LessThan(stored) {
		return nil, utils.NewValidationError("total quantity %s is below the stored quantity %s", input.TotalQuantity, stored)
	}

	oldValues := batch.auditValues()

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(batch).Updates(input.fields()).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryUpdate(tx.WithContext(ctx), "batches", id, oldValues, input.fields(), ""); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Batch](ctx, id)
}

// UpdateBatchQuantity adjusts only the total, guarded against dropping below
// the currently stored sum.
func UpdateBatchQuantity(ctx context.Context, id int, newTotal decimal.Decimal) (*Batch, error) {

	if newTotal.IsNegative() {
		return nil, utils.NewValidationError("total quantity cannot be negative")
	}
	batch, err := utils.FetchModel[Batch](ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := batchStoredQuantity(config.GetDB(), ctx, id)
	if err != nil {
		return nil, err
	}
	if newTotal.LessThan(stored) {
		return nil, utils.NewValidationError("total quantity %s is below the stored quantity %s", newTotal, stored)
	}

	oldTotal := batch.TotalQuantity

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(batch).UpdateColumn("total_quantity", newTotal).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	summary := fmt.Sprintf("Batch %s total quantity changed from %s to %s", batch.BatchNumber, oldTotal, newTotal)
	if err := SaveHistoryUpdate(tx.WithContext(ctx), "batches", id,
		map[string]interface{}{"total_quantity": oldTotal},
		map[string]interface{}{"total_quantity": newTotal}, summary); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Batch](ctx, id)
}

// DeleteBatch is a soft delete; it fails while the batch has active samples.
// The warehouse distribution rows are removed so the stock stops counting
// against warehouse capacity.
func DeleteBatch(ctx context.Context, id int) (*Batch, error) {

	batch, err := utils.FetchModel[Batch](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Sample](ctx, "batch_id = ? AND is_active = ?", id, true)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("batch has active samples")
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("batch_id = ?", id).Delete(&BatchWarehouse{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Model(batch).UpdateColumn("is_active", false).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryDelete(tx.WithContext(ctx), "batches", id, batch.auditValues(), "Batch deleted: "+batch.BatchNumber); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Batch](ctx, id)
}

func GetBatch(ctx context.Context, id int) (*Batch, error) {
	return utils.FetchModel[Batch](ctx, id)
}

func GetBatchByNumber(ctx context.Context, batchNumber string) (*Batch, error) {
	return utils.FetchModelWhere[Batch](ctx, "batch_number = ?", batchNumber)
}

func ListBatches(ctx context.Context, activeOnly bool) ([]*Batch, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	var results []*Batch
	if err := dbCtx.Order("extraction_date DESC").Limit(config.SearchLimit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func ListBatchesByMine(ctx context.Context, mineId int) ([]*Batch, error) {
	db := config.GetDB()
	var results []*Batch
	err := db.WithContext(ctx).Where("mine_id = ?", mineId).
		Order("extraction_date DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func SearchBatches(ctx context.Context, term string) ([]*Batch, error) {
	db := config.GetDB()
	pattern := "%" + term + "%"
	var results []*Batch
	err := db.WithContext(ctx).
		Where("batch_number LIKE ? OR description LIKE ?", pattern, pattern).
		Order("extraction_date DESC").Limit(config.SearchLimit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ToggleActiveBatch(ctx context.Context, id int, isActive bool) (*Batch, error) {
	return ToggleActiveModel[Batch](ctx, id, isActive)
}

/* quantity accounting */

// batchStoredQuantity sums the warehouse distribution of one batch.
// The handle argument lets callers read inside their own transaction.
func batchStoredQuantity(handle *gorm.DB, ctx context.Context, batchId int) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := handle.WithContext(ctx).Model(&BatchWarehouse{}).
		Where("batch_id = ?", batchId).
		Select("SUM(quantity_stored)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// batchSampledQuantity sums the quantity drawn into active samples.
func batchSampledQuantity(handle *gorm.DB, ctx context.Context, batchId int) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := handle.WithContext(ctx).Model(&Sample{}).
		Where("batch_id = ? AND is_active = ?", batchId, true).
		Select("SUM(quantity)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// batchAvailableQuantity is the extractable balance: stored minus sampled.
// Always recomputed from source rows inside the caller's handle.
func batchAvailableQuantity(handle *gorm.DB, ctx context.Context, batchId int) (decimal.Decimal, error) {
	stored, err := batchStoredQuantity(handle, ctx, batchId)
	if err != nil {
		return decimal.Zero, err
	}
	sampled, err := batchSampledQuantity(handle, ctx, batchId)
	if err != nil {
		return decimal.Zero, err
	}
	return stored.Sub(sampled), nil
}

// BatchBalance is the derived quantity snapshot of one batch.
type BatchBalance struct {
	BatchId       int             `json:"batch_id"`
	BatchNumber   string          `json:"batch_number"`
	Unit          string          `json:"unit"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	Stored        decimal.Decimal `json:"stored"`
	Sampled       decimal.Decimal `json:"sampled"`
	Available     decimal.Decimal `json:"available"`
}

// GetBatchBalance recomputes the derived numbers from source rows. Sample
// deletion/restoration needs no quantity bookkeeping of its own; callers
// re-read this snapshot instead.
func GetBatchBalance(ctx context.Context, batchId int) (*BatchBalance, error) {
	batch, err := utils.FetchModel[Batch](ctx, batchId)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	stored, err := batchStoredQuantity(db, ctx, batchId)
	if err != nil {
		return nil, err
	}
	sampled, err := batchSampledQuantity(db, ctx, batchId)
	if err != nil {
		return nil, err
	}
	return &BatchBalance{
		BatchId:       batch.ID,
		BatchNumber:   batch.BatchNumber,
		Unit:          batch.Unit,
		TotalQuantity: batch.TotalQuantity,
		Stored:        stored,
		Sampled:       sampled,
		Available:     stored.Sub(sampled),
	}, nil
}

// DistributeBatch replaces the batch's warehouse distribution. The request
// fails as a whole when the sum exceeds the batch total, a warehouse is
// unknown, or a warehouse would be filled past capacity; the prior
// distribution stays untouched in every failure case.
func DistributeBatch(ctx context.Context, batchId int, allocations []BatchAllocation) ([]*BatchWarehouse, error) {

	batch, err := utils.FetchModel[Batch](ctx, batchId)
	if err != nil {
		return nil, err
	}
	if !utils.DereferencePtr(batch.IsActive) {
		return nil, utils.NewValidationError("batch is inactive")
	}

	requested := decimal.Zero
	for _, alloc := range allocations {
		if alloc.Quantity.IsNegative() {
			return nil, utils.NewValidationError("allocation quantity cannot be negative")
		}
		requested = requested.Add(alloc.Quantity)
	}
	if requested.GreaterThan(batch.TotalQuantity) {
		return nil, utils.NewValidationError("distributed quantity %s exceeds the batch total %s", requested, batch.TotalQuantity)
	}

	db := config.GetDB()

	// per-warehouse capacity, counting every other batch's stock
	for _, alloc := range allocations {
		warehouse, err := utils.FetchModel[Warehouse](ctx, alloc.WarehouseId)
		if err != nil {
			return nil, utils.NewValidationError("warehouse not found")
		}
		var others decimal.NullDecimal
		err = db.WithContext(ctx).Model(&BatchWarehouse{}).
			Where("warehouse_id = ? AND batch_id <> ?", alloc.WarehouseId, batchId).
			Select("SUM(quantity_stored)").Scan(&others).Error
		if err != nil {
			return nil, err
		}
		occupied := decimal.Zero
		if others.Valid {
			occupied = others.Decimal
		}
		if warehouse.Capacity.IsPositive() && occupied.Add(alloc.Quantity).GreaterThan(warehouse.Capacity) {
			return nil, utils.NewValidationError("warehouse %s capacity exceeded", warehouse.Code)
		}
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("batch_id = ?", batchId).Delete(&BatchWarehouse{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, alloc := range allocations {
		row := BatchWarehouse{
			BatchId:        batchId,
			WarehouseId:    alloc.WarehouseId,
			QuantityStored: alloc.Quantity,
			Notes:          alloc.Notes,
		}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	summary := fmt.Sprintf("Batch %s distributed across %d warehouses", batch.BatchNumber, len(allocations))
	if err := SaveHistoryUpdate(tx.WithContext(ctx), "batch_warehouses", batchId, nil,
		map[string]interface{}{"distributions": allocations}, summary); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetBatchDistribution(ctx, batchId)
}

type BatchStatistics struct {
	BatchId        int             `json:"batch_id"`
	BatchNumber    string          `json:"batch_number"`
	Unit           string          `json:"unit"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	TotalStored    decimal.Decimal `json:"total_stored"`
	SampleCount    int64           `json:"sample_count"`
	SampledTotal   decimal.Decimal `json:"sampled_total"`
	WarehouseCount int64           `json:"warehouse_count"`
	Available      decimal.Decimal `json:"available"`
}

func GetBatchStatistics(ctx context.Context, id int) (*BatchStatistics, error) {
	batch, err := utils.FetchModel[Batch](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	stored, err := batchStoredQuantity(db, ctx, id)
	if err != nil {
		return nil, err
	}
	sampled, err := batchSampledQuantity(db, ctx, id)
	if err != nil {
		return nil, err
	}
	sampleCount, err := utils.ResourceCountWhere[Sample](ctx, "batch_id = ? AND is_active = ?", id, true)
	if err != nil {
		return nil, err
	}
	warehouseCount, err := utils.ResourceCountWhere[BatchWarehouse](ctx, "batch_id = ? AND quantity_stored > 0", id)
	if err != nil {
		return nil, err
	}

	return &BatchStatistics{
		BatchId:        batch.ID,
		BatchNumber:    batch.BatchNumber,
		Unit:           batch.Unit,
		TotalQuantity:  batch.TotalQuantity,
		TotalStored:    stored,
		SampleCount:    sampleCount,
		SampledTotal:   sampled,
		WarehouseCount: warehouseCount,
		Available:      stored.Sub(sampled),
	}, nil
}
