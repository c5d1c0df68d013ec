package models_test

import (
	"testing"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/models"
)

func TestDistributeBatch_RejectsOverTotal(t *testing.T) {
	ctx := setupTestDB(t)
	batch := seedBatch(t, ctx, "100")
	w1 := warehouseByCode(t, ctx, "W01")
	w2 := warehouseByCode(t, ctx, "W02")

	_, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{
		{WarehouseId: w1.ID, Quantity: mustDecimal(t, "60")},
		{WarehouseId: w2.ID, Quantity: mustDecimal(t, "50")},
	})
	if err == nil {
		t.Fatal("expected distribution over the batch total to fail")
	}

	// nothing written
	rows, err := models.GetBatchDistribution(ctx, batch.ID)
	if err != nil {
		t.Fatalf("GetBatchDistribution: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no distribution rows, got %d", len(rows))
	}
}

func TestDistributeBatch_ReplacesPriorDistribution(t *testing.T) {
	ctx := setupTestDB(t)
	batch := seedBatch(t, ctx, "100")
	w1 := warehouseByCode(t, ctx, "W01")
	w2 := warehouseByCode(t, ctx, "W02")

	_, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{
		{WarehouseId: w1.ID, Quantity: mustDecimal(t, "100")},
	})
	if err != nil {
		t.Fatalf("first distribution: %v", err)
	}

	rows, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{
		{WarehouseId: w1.ID, Quantity: mustDecimal(t, "40")},
		{WarehouseId: w2.ID, Quantity: mustDecimal(t, "60")},
	})
	if err != nil {
		t.Fatalf("second distribution: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 distribution rows, got %d", len(rows))
	}

	balance, err := models.GetBatchBalance(ctx, batch.ID)
	if err != nil {
		t.Fatalf("GetBatchBalance: %v", err)
	}
	assertDecimal(t, "stored", balance.Stored, "100")
}

func TestDistributeBatch_RejectsOverWarehouseCapacity(t *testing.T) {
	ctx := setupTestDB(t)
	batch := seedBatch(t, ctx, "500")
	// VAS holds 300
	vault := warehouseByCode(t, ctx, "VAS")

	_, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{
		{WarehouseId: vault.ID, Quantity: mustDecimal(t, "350")},
	})
	if err == nil {
		t.Fatal("expected capacity overflow to fail")
	}
}

func TestDistributeBatch_CapacityCountsOtherBatches(t *testing.T) {
	ctx := setupTestDB(t)
	first := seedBatch(t, ctx, "250")
	mine, err := models.GetMine(ctx, first.MineId)
	if err != nil {
		t.Fatalf("GetMine: %v", err)
	}
	second, err := models.CreateBatch(ctx, &models.NewBatch{
		BatchNumber:   "BATCH-CAP-2",
		MineId:        mine.ID,
		TotalQuantity: mustDecimal(t, "250"),
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	vault := warehouseByCode(t, ctx, "VAS")

	if _, err := models.DistributeBatch(ctx, first.ID, []models.BatchAllocation{
		{WarehouseId: vault.ID, Quantity: mustDecimal(t, "200")},
	}); err != nil {
		t.Fatalf("first distribution: %v", err)
	}
	// 200 of 300 taken; 150 more does not fit
	if _, err := models.DistributeBatch(ctx, second.ID, []models.BatchAllocation{
		{WarehouseId: vault.ID, Quantity: mustDecimal(t, "150")},
	}); err == nil {
		t.Fatal("expected combined capacity overflow to fail")
	}
	// 100 does
	if _, err := models.DistributeBatch(ctx, second.ID, []models.BatchAllocation{
		{WarehouseId: vault.ID, Quantity: mustDecimal(t, "100")},
	}); err != nil {
		t.Fatalf("fitting distribution: %v", err)
	}
}

func TestUpdateBatchQuantity_RejectsBelowStored(t *testing.T) {
	ctx := setupTestDB(t)
	batch := seedBatch(t, ctx, "100")
	w1 := warehouseByCode(t, ctx, "W01")

	if _, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{
		{WarehouseId: w1.ID, Quantity: mustDecimal(t, "80")},
	}); err != nil {
		t.Fatalf("DistributeBatch: %v", err)
	}

	if _, err := models.UpdateBatchQuantity(ctx, batch.ID, mustDecimal(t, "70")); err == nil {
		t.Fatal("expected total below stored to fail")
	}
	updated, err := models.UpdateBatchQuantity(ctx, batch.ID, mustDecimal(t, "120"))
	if err != nil {
		t.Fatalf("UpdateBatchQuantity: %v", err)
	}
	assertDecimal(t, "total", updated.TotalQuantity, "120")
}

func TestDeleteBatch_GuardsActiveSamples(t *testing.T) {
	ctx := setupTestDB(t)
	batch := seedBatch(t, ctx, "100")
	w1 := warehouseByCode(t, ctx, "W01")

	if _, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{
		{WarehouseId: w1.ID, Quantity: mustDecimal(t, "100")},
	}); err != nil {
		t.Fatalf("DistributeBatch: %v", err)
	}
	sample, err := models.ExtractSample(ctx, &models.NewSample{
		BatchId: batch.ID, Quantity: mustDecimal(t, "5"),
	})
	if err != nil {
		t.Fatalf("ExtractSample: %v", err)
	}

	if _, err := models.DeleteBatch(ctx, batch.ID); err == nil {
		t.Fatal("expected delete with active samples to fail")
	}

	if _, err := models.DeleteSample(ctx, sample.ID); err != nil {
		t.Fatalf("DeleteSample: %v", err)
	}
	deleted, err := models.DeleteBatch(ctx, batch.ID)
	if err != nil {
		t.Fatalf("DeleteBatch: %v", err)
	}
	if *deleted.IsActive {
		t.Fatal("batch still active after delete")
	}

	// the distribution rows are gone with it
	var count int64
	if err := config.GetDB().WithContext(ctx).Model(&models.BatchWarehouse{}).
		Where("batch_id = ?", batch.ID).Count(&count).Error; err != nil {
		t.Fatalf("count distribution rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected distribution rows removed, got %d", count)
	}
}

func TestCreateBatch_DuplicateNumber(t *testing.T) {
	ctx := setupTestDB(t)
	batch := seedBatch(t, ctx, "100")

	_, err := models.CreateBatch(ctx, &models.NewBatch{
		BatchNumber:   batch.BatchNumber,
		MineId:        batch.MineId,
		TotalQuantity: mustDecimal(t, "10"),
	})
	if err == nil {
		t.Fatal("expected duplicate batch number to fail")
	}
}

func TestCreateBatch_UnknownMine(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := models.CreateBatch(ctx, &models.NewBatch{
		BatchNumber:   "BATCH-NOMINE",
		MineId:        9999,
		TotalQuantity: mustDecimal(t, "10"),
	})
	if err == nil {
		t.Fatal("expected unknown mine to fail")
	}
}
