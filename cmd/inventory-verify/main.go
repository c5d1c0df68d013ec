package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/models"
	"github.com/shopspring/decimal"
)

// inventory-verify scans the database for quantity invariants that should
// hold at all times: no batch distributed past its total, no batch sampled
// past its stored quantity, no warehouse filled past capacity. Exits
// non-zero when any violation is found.
func main() {
	verbose := flag.Bool("v", false, "print every batch, not just violations")
	flag.Parse()

	config.MustConnectDatabase()
	ctx := context.Background()

	violations := 0

	db := config.GetDB()
	var batches []*models.Batch
	if err := db.WithContext(ctx).Find(&batches).Error; err != nil {
		fmt.Fprintln(os.Stderr, "listing batches:", err)
		os.Exit(1)
	}
	for _, batch := range batches {
		balance, err := models.GetBatchBalance(ctx, batch.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "batch %s: %v\n", batch.BatchNumber, err)
			violations++
			continue
		}
		ok := true
		if balance.Stored.GreaterThan(balance.TotalQuantity) {
			fmt.Printf("VIOLATION batch %s: stored %s exceeds total %s\n",
				balance.BatchNumber, balance.Stored, balance.TotalQuantity)
			ok = false
		}
		if balance.Available.IsNegative() {
			fmt.Printf("VIOLATION batch %s: sampled %s exceeds stored %s\n",
				balance.BatchNumber, balance.Sampled, balance.Stored)
			ok = false
		}
		if !ok {
			violations++
		} else if *verbose {
			fmt.Printf("ok batch %s: total=%s stored=%s sampled=%s available=%s\n",
				balance.BatchNumber, balance.TotalQuantity, balance.Stored,
				balance.Sampled, balance.Available)
		}
	}

	var warehouses []*models.Warehouse
	if err := db.WithContext(ctx).Find(&warehouses).Error; err != nil {
		fmt.Fprintln(os.Stderr, "listing warehouses:", err)
		os.Exit(1)
	}
	for _, warehouse := range warehouses {
		utilization, err := models.GetWarehouseUtilization(ctx, warehouse.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warehouse %s: %v\n", warehouse.Code, err)
			violations++
			continue
		}
		if warehouse.Capacity.IsPositive() && utilization.TotalStored.GreaterThan(warehouse.Capacity) {
			fmt.Printf("VIOLATION warehouse %s: stored %s exceeds capacity %s\n",
				warehouse.Code, utilization.TotalStored, warehouse.Capacity)
			violations++
		} else if *verbose {
			fmt.Printf("ok warehouse %s: stored=%s capacity=%s\n",
				warehouse.Code, utilization.TotalStored, warehouse.Capacity)
		}
		if utilization.TotalStored.LessThan(decimal.Zero) {
			fmt.Printf("VIOLATION warehouse %s: negative stored quantity %s\n",
				warehouse.Code, utilization.TotalStored)
			violations++
		}
	}

	if violations > 0 {
		fmt.Printf("%d violation(s) found\n", violations)
		os.Exit(1)
	}
	fmt.Println("inventory consistent")
}
