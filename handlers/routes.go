package handlers

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")

	clients := api.Group("/clients")
	{
		clients.POST("", CreateClient)
		clients.GET("", ListClients)
		clients.GET("/:id", GetClient)
		clients.GET("/code/:code", GetClientByCode)
		clients.PUT("/:id", UpdateClient)
		clients.DELETE("/:id", DeleteClient)
		clients.POST("/:id/restore", RestoreClient)
		clients.GET("/:id/statistics", GetClientStatistics)
	}

	mines := api.Group("/mines")
	{
		mines.POST("", CreateMine)
		mines.GET("", ListMines)
		mines.GET("/:id", GetMine)
		mines.GET("/code/:code", GetMineByCode)
		mines.PUT("/:id", UpdateMine)
		mines.DELETE("/:id", DeleteMine)
		mines.POST("/:id/restore", RestoreMine)
		mines.GET("/:id/statistics", GetMineStatistics)
	}

	warehouses := api.Group("/warehouses")
	{
		warehouses.POST("", CreateWarehouse)
		warehouses.GET("", ListWarehouses)
		warehouses.GET("/:id", GetWarehouse)
		warehouses.GET("/code/:code", GetWarehouseByCode)
		warehouses.PUT("/:id", UpdateWarehouse)
		warehouses.DELETE("/:id", DeleteWarehouse)
		warehouses.POST("/:id/restore", RestoreWarehouse)
		warehouses.GET("/:id/utilization", GetWarehouseUtilization)
	}

	batches := api.Group("/batches")
	{
		batches.POST("", CreateBatch)
		batches.GET("", ListBatches)
		batches.GET("/:id", GetBatch)
		batches.GET("/number/:number", GetBatchByNumber)
		batches.PUT("/:id", UpdateBatch)
		batches.PATCH("/:id/quantity", UpdateBatchQuantity)
		batches.DELETE("/:id", DeleteBatch)
		batches.POST("/:id/restore", RestoreBatch)
		batches.GET("/:id/balance", GetBatchBalance)
		batches.GET("/:id/statistics", GetBatchStatistics)
		batches.POST("/:id/distribute", DistributeBatch)
		batches.GET("/:id/distribution", GetBatchDistribution)
	}

	samples := api.Group("/samples")
	{
		samples.POST("", ExtractSample)
		samples.GET("", ListSamples)
		samples.GET("/status-counts", GetSampleStatusCounts)
		samples.GET("/:id", GetSample)
		samples.PUT("/:id", UpdateSample)
		samples.GET("/code/:code", GetSampleByCode)
		samples.POST("/:id/to-lab", MoveSampleToLab)
		samples.POST("/:id/tested", MarkSampleTested)
		samples.POST("/:id/store", StoreSample)
		samples.POST("/:id/destroy", DestroySample)
		samples.DELETE("/:id", DeleteSample)
		samples.POST("/:id/restore", RestoreSample)
	}

	api.GET("/audit-logs", ListAuditLogs)

	reports := api.Group("/reports")
	{
		reports.GET("/warehouse-inventory", GetWarehouseInventoryReport)
		reports.GET("/sample-status", GetSampleStatusReport)
		reports.GET("/export", ExportInventoryExcel)
	}
}
