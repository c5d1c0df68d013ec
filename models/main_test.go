package models_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/models"
	"github.com/minelab/sampletrack_backend/utils"
	"github.com/shopspring/decimal"
)

var testSeq int

// setupTestDB opens a throwaway sqlite database, migrates and seeds it.
// Each call gets its own file so tests stay independent.
func setupTestDB(t *testing.T) context.Context {
	t.Helper()

	testSeq++
	path := filepath.Join(t.TempDir(), fmt.Sprintf("test_%d.db", testSeq))
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", path)

	if err := config.ConnectDatabase(); err != nil {
		t.Fatalf("ConnectDatabase: %v", err)
	}
	if err := models.MigrateTables(); err != nil {
		t.Fatalf("MigrateTables: %v", err)
	}

	ctx := utils.SetUserNameInContext(context.Background(), "Test")
	if err := models.SeedWarehouses(ctx); err != nil {
		t.Fatalf("SeedWarehouses: %v", err)
	}
	return ctx
}

// seedBatch creates the client -> mine -> batch chain most tests need.
func seedBatch(t *testing.T, ctx context.Context, total string) *models.Batch {
	t.Helper()

	client, err := models.CreateClient(ctx, &models.NewClient{
		Code: fmt.Sprintf("CL-%03d", testSeq),
		Name: "Test Mining Co",
	})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	mine, err := models.CreateMine(ctx, &models.NewMine{
		Code:     fmt.Sprintf("MN-%03d", testSeq),
		Name:     "North Pit",
		ClientId: client.ID,
	})
	if err != nil {
		t.Fatalf("CreateMine: %v", err)
	}
	batch, err := models.CreateBatch(ctx, &models.NewBatch{
		BatchNumber:   fmt.Sprintf("BATCH-%03d", testSeq),
		MineId:        mine.ID,
		TotalQuantity: mustDecimal(t, total),
		Unit:          "kg",
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	return batch
}

func warehouseByCode(t *testing.T, ctx context.Context, code string) *models.Warehouse {
	t.Helper()
	warehouse, err := models.GetWarehouseByCode(ctx, code)
	if err != nil {
		t.Fatalf("GetWarehouseByCode(%s): %v", code, err)
	}
	return warehouse
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("decimal %q: %v", value, err)
	}
	return d
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(mustDecimal(t, want)) {
		t.Fatalf("%s = %s, want %s", label, got, want)
	}
}
