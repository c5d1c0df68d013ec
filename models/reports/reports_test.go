package reports_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/models"
	"github.com/minelab/sampletrack_backend/models/reports"
	"github.com/minelab/sampletrack_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func setupReportData(t *testing.T) context.Context {
	t.Helper()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "reports_test.db"))
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

	client, err := models.CreateClient(ctx, &models.NewClient{Code: "RPT-CL", Name: "Report Co"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	mine, err := models.CreateMine(ctx, &models.NewMine{Code: "RPT-MN", Name: "Report Pit", ClientId: client.ID})
	if err != nil {
		t.Fatalf("CreateMine: %v", err)
	}
	batch, err := models.CreateBatch(ctx, &models.NewBatch{
		BatchNumber:   "RPT-B1",
		MineId:        mine.ID,
		TotalQuantity: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	w1, err := models.GetWarehouseByCode(ctx, "W01")
	if err != nil {
		t.Fatalf("GetWarehouseByCode: %v", err)
	}
	if _, err := models.DistributeBatch(ctx, batch.ID, []models.BatchAllocation{
		{WarehouseId: w1.ID, Quantity: decimal.NewFromInt(500)},
	}); err != nil {
		t.Fatalf("DistributeBatch: %v", err)
	}
	sample, err := models.ExtractSample(ctx, &models.NewSample{
		BatchId: batch.ID, Quantity: decimal.NewFromInt(20),
	})
	if err != nil {
		t.Fatalf("ExtractSample: %v", err)
	}
	if _, err := models.MoveSampleToLab(ctx, sample.ID, ""); err != nil {
		t.Fatalf("MoveSampleToLab: %v", err)
	}
	return ctx
}

func TestWarehouseInventoryReport(t *testing.T) {
	ctx := setupReportData(t)

	report, err := reports.GetWarehouseInventoryReport(ctx)
	if err != nil {
		t.Fatalf("GetWarehouseInventoryReport: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("expected one inventory row, got %d", len(report.Rows))
	}
	row := report.Rows[0]
	if row.WarehouseCode != "W01" || row.BatchNumber != "RPT-B1" || row.ClientName != "Report Co" {
		t.Fatalf("unexpected row %+v", row)
	}
	if len(report.Utilization) != 5 {
		t.Fatalf("expected utilization for 5 warehouses, got %d", len(report.Utilization))
	}
}

func TestSampleStatusReport(t *testing.T) {
	ctx := setupReportData(t)

	report, err := reports.GetSampleStatusReport(ctx, models.SampleStatusInLab)
	if err != nil {
		t.Fatalf("GetSampleStatusReport: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("expected one IN_LAB sample, got %d", len(report.Rows))
	}
	if report.Rows[0].Status != models.SampleStatusInLab {
		t.Fatalf("status = %s, want IN_LAB", report.Rows[0].Status)
	}

	all, err := reports.GetSampleStatusReport(ctx, "")
	if err != nil {
		t.Fatalf("GetSampleStatusReport(all): %v", err)
	}
	if len(all.Rows) != 1 || len(all.Counts) != 1 {
		t.Fatalf("all = %d rows %d counts, want 1 and 1", len(all.Rows), len(all.Counts))
	}
}

func TestExportInventoryExcel(t *testing.T) {
	ctx := setupReportData(t)

	buffer, err := reports.ExportInventoryExcel(ctx)
	if err != nil {
		t.Fatalf("ExportInventoryExcel: %v", err)
	}

	workbook, err := excelize.OpenReader(buffer)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %v", sheets)
	}
	value, err := workbook.GetCellValue("Warehouse Inventory", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if value != "W01" {
		t.Fatalf("A2 = %q, want W01", value)
	}
}
