package reports

import (
	"context"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/models"
	"github.com/shopspring/decimal"
)

// WarehouseInventoryRow is one batch's holding in one warehouse, joined
// with the ownership chain up to the client.
type WarehouseInventoryRow struct {
	WarehouseCode  string          `json:"warehouse_code"`
	WarehouseName  string          `json:"warehouse_name"`
	BatchNumber    string          `json:"batch_number"`
	MineName       string          `json:"mine_name"`
	ClientName     string          `json:"client_name"`
	QuantityStored decimal.Decimal `json:"quantity_stored"`
	Unit           string          `json:"unit"`
}

// WarehouseInventoryReport is the stock of every active warehouse with
// per-warehouse utilization totals.
type WarehouseInventoryReport struct {
	Rows        []*WarehouseInventoryRow       `json:"rows"`
	Utilization []*models.WarehouseUtilization `json:"utilization"`
}

func GetWarehouseInventoryReport(ctx context.Context) (*WarehouseInventoryReport, error) {
	db := config.GetDB()

	var rows []*WarehouseInventoryRow
	err := db.WithContext(ctx).Table("batch_warehouses").
		Select(`warehouses.code AS warehouse_code,
			warehouses.name AS warehouse_name,
			batches.batch_number AS batch_number,
			mines.name AS mine_name,
			clients.name AS client_name,
			batch_warehouses.quantity_stored AS quantity_stored,
			batches.unit AS unit`).
		Joins("JOIN warehouses ON warehouses.id = batch_warehouses.warehouse_id").
		Joins("JOIN batches ON batches.id = batch_warehouses.batch_id").
		Joins("JOIN mines ON mines.id = batches.mine_id").
		Joins("JOIN clients ON clients.id = mines.client_id").
		Where("warehouses.is_active = ? AND batch_warehouses.quantity_stored > 0", true).
		Order("warehouses.code, batches.batch_number").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	warehouses, err := models.ListWarehouses(ctx, true)
	if err != nil {
		return nil, err
	}
	utilization := make([]*models.WarehouseUtilization, 0, len(warehouses))
	for _, warehouse := range warehouses {
		row, err := models.GetWarehouseUtilization(ctx, warehouse.ID)
		if err != nil {
			return nil, err
		}
		utilization = append(utilization, row)
	}

	return &WarehouseInventoryReport{Rows: rows, Utilization: utilization}, nil
}
