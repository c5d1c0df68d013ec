package models_test

import (
	"testing"

	"github.com/minelab/sampletrack_backend/models"
)

func TestSeedWarehouses_FixedSetOnce(t *testing.T) {
	ctx := setupTestDB(t)

	warehouses, err := models.ListWarehouses(ctx, true)
	if err != nil {
		t.Fatalf("ListWarehouses: %v", err)
	}
	if len(warehouses) != 5 {
		t.Fatalf("expected 5 seeded warehouses, got %d", len(warehouses))
	}

	// a second seed run leaves the table alone
	if err := models.SeedWarehouses(ctx); err != nil {
		t.Fatalf("SeedWarehouses: %v", err)
	}
	warehouses, err = models.ListWarehouses(ctx, true)
	if err != nil {
		t.Fatalf("ListWarehouses: %v", err)
	}
	if len(warehouses) != 5 {
		t.Fatalf("reseed changed the count to %d", len(warehouses))
	}

	vault := warehouseByCode(t, ctx, "VAS")
	assertDecimal(t, "VAS capacity", vault.Capacity, "300")
}

func TestUpdateWarehouse_RejectsCapacityBelowStock(t *testing.T) {
	ctx := setupTestDB(t)
	batch := seedBatch(t, ctx, "200")
	w1 := warehouseByCode(t, ctx, "W01")

	if _, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{
		{WarehouseId: w1.ID, Quantity: mustDecimal(t, "200")},
	}); err != nil {
		t.Fatalf("DistributeBatch: %v", err)
	}

	if _, err := models.UpdateWarehouse(ctx, w1.ID, &models.NewWarehouse{
		Code: w1.Code, Name: w1.Name, Capacity: mustDecimal(t, "150"),
	}); err == nil {
		t.Fatal("expected capacity below stock to fail")
	}

	updated, err := models.UpdateWarehouse(ctx, w1.ID, &models.NewWarehouse{
		Code: w1.Code, Name: w1.Name, Capacity: mustDecimal(t, "1200"),
	})
	if err != nil {
		t.Fatalf("UpdateWarehouse: %v", err)
	}
	assertDecimal(t, "capacity", updated.Capacity, "1200")
}

func TestDeleteWarehouse_GuardsStock(t *testing.T) {
	ctx := setupTestDB(t)
	batch := seedBatch(t, ctx, "50")
	w2 := warehouseByCode(t, ctx, "W02")

	if _, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{
		{WarehouseId: w2.ID, Quantity: mustDecimal(t, "50")},
	}); err != nil {
		t.Fatalf("DistributeBatch: %v", err)
	}

	if _, err := models.DeleteWarehouse(ctx, w2.ID); err == nil {
		t.Fatal("expected delete with stock to fail")
	}

	// empty it, then delete works
	if _, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{}); err != nil {
		t.Fatalf("empty distribution: %v", err)
	}
	deleted, err := models.DeleteWarehouse(ctx, w2.ID)
	if err != nil {
		t.Fatalf("DeleteWarehouse: %v", err)
	}
	if *deleted.IsActive {
		t.Fatal("warehouse still active after delete")
	}
}

func TestGetWarehouseUtilization(t *testing.T) {
	ctx := setupTestDB(t)
	batch := seedBatch(t, ctx, "250")
	w1 := warehouseByCode(t, ctx, "W01")

	if _, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{
		{WarehouseId: w1.ID, Quantity: mustDecimal(t, "250")},
	}); err != nil {
		t.Fatalf("DistributeBatch: %v", err)
	}

	utilization, err := models.GetWarehouseUtilization(ctx, w1.ID)
	if err != nil {
		t.Fatalf("GetWarehouseUtilization: %v", err)
	}
	assertDecimal(t, "stored", utilization.TotalStored, "250")
	assertDecimal(t, "available space", utilization.AvailableSpace, "750")
	assertDecimal(t, "utilization pct", utilization.UtilizationPct, "25")
	if utilization.BatchCount != 1 {
		t.Fatalf("batch count = %d, want 1", utilization.BatchCount)
	}
}
