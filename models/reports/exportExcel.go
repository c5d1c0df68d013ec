package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	inventorySheet = "Warehouse Inventory"
	sampleSheet    = "Sample Status"
)

// ExportInventoryExcel builds a two-sheet workbook: the warehouse
// inventory with utilization totals and the full sample status listing.
func ExportInventoryExcel(ctx context.Context) (*bytes.Buffer, error) {

	inventory, err := GetWarehouseInventoryReport(ctx)
	if err != nil {
		return nil, err
	}
	samples, err := GetSampleStatusReport(ctx, "")
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", inventorySheet)
	if _, err := file.NewSheet(sampleSheet); err != nil {
		return nil, err
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	if err := writeInventorySheet(file, headerStyle, inventory); err != nil {
		return nil, err
	}
	if err := writeSampleSheet(file, headerStyle, samples); err != nil {
		return nil, err
	}

	return file.WriteToBuffer()
}

func writeInventorySheet(file *excelize.File, headerStyle int, report *WarehouseInventoryReport) error {

	headers := []interface{}{"Warehouse", "Warehouse Name", "Batch", "Mine", "Client", "Quantity Stored", "Unit"}
	if err := file.SetSheetRow(inventorySheet, "A1", &headers); err != nil {
		return err
	}
	if err := file.SetRowStyle(inventorySheet, 1, 1, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, item := range report.Rows {
		cell := fmt.Sprintf("A%d", row)
		values := []interface{}{
			item.WarehouseCode, item.WarehouseName, item.BatchNumber,
			item.MineName, item.ClientName,
			item.QuantityStored.InexactFloat64(), item.Unit,
		}
		if err := file.SetSheetRow(inventorySheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	// utilization block below the listing
	row++
	title := []interface{}{"Warehouse", "Capacity", "Stored", "Available", "Utilization %", "Batches"}
	cell := fmt.Sprintf("A%d", row)
	if err := file.SetSheetRow(inventorySheet, cell, &title); err != nil {
		return err
	}
	if err := file.SetRowStyle(inventorySheet, row, row, headerStyle); err != nil {
		return err
	}
	row++
	for _, item := range report.Utilization {
		cell := fmt.Sprintf("A%d", row)
		values := []interface{}{
			item.WarehouseCode,
			item.Capacity.InexactFloat64(), item.TotalStored.InexactFloat64(),
			item.AvailableSpace.InexactFloat64(), item.UtilizationPct.InexactFloat64(),
			item.BatchCount,
		}
		if err := file.SetSheetRow(inventorySheet, cell, &values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeSampleSheet(file *excelize.File, headerStyle int, report *SampleStatusReport) error {

	headers := []interface{}{"Sample Code", "Batch", "Mine", "Client", "Status", "Quantity", "Unit", "Collected By", "Collected", "Tested"}
	if err := file.SetSheetRow(sampleSheet, "A1", &headers); err != nil {
		return err
	}
	if err := file.SetRowStyle(sampleSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, item := range report.Rows {
		tested := ""
		if item.TestedDate != nil {
			tested = item.TestedDate.Format("2006-01-02")
		}
		cell := fmt.Sprintf("A%d", row)
		values := []interface{}{
			item.SampleCode, item.BatchNumber, item.MineName, item.ClientName,
			string(item.Status), item.Quantity.InexactFloat64(), item.Unit,
			item.CollectedBy, item.CollectedDate.Format("2006-01-02"), tested,
		}
		if err := file.SetSheetRow(sampleSheet, cell, &values); err != nil {
			return err
		}
		row++
	}
	return nil
}
