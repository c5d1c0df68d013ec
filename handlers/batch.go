package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minelab/sampletrack_backend/models"
	"github.com/shopspring/decimal"
)

func CreateBatch(c *gin.Context) {
	var input models.NewBatch
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	batch, err := models.CreateBatch(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, batch)
}

func UpdateBatch(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewBatch
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	batch, err := models.UpdateBatch(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, batch)
}

type updateBatchQuantityRequest struct {
	TotalQuantity decimal.Decimal `json:"total_quantity" binding:"required"`
}

func UpdateBatchQuantity(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input updateBatchQuantityRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	batch, err := models.UpdateBatchQuantity(c.Request.Context(), id, input.TotalQuantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, batch)
}

func DeleteBatch(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	batch, err := models.DeleteBatch(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, batch)
}

func RestoreBatch(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	batch, err := models.ToggleActiveBatch(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, batch)
}

func GetBatch(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	batch, err := models.GetBatch(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, batch)
}

func GetBatchByNumber(c *gin.Context) {
	batch, err := models.GetBatchByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, batch)
}

func ListBatches(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("mine_id"); raw != "" {
		mineId, err := strconv.Atoi(raw)
		if err != nil || mineId <= 0 {
			respondError(c, errInvalidQuery("mine_id"))
			return
		}
		batches, err := models.ListBatchesByMine(ctx, mineId)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, batches)
		return
	}
	if term := c.Query("q"); term != "" {
		batches, err := models.SearchBatches(ctx, term)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, batches)
		return
	}
	batches, err := models.ListBatches(ctx, queryBool(c, "active_only", true))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, batches)
}

func GetBatchBalance(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	balance, err := models.GetBatchBalance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, balance)
}

func GetBatchStatistics(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	stats, err := models.GetBatchStatistics(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

type distributeBatchRequest struct {
	Allocations []models.BatchAllocation `json:"allocations" binding:"required"`
}

func DistributeBatch(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input distributeBatchRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	distribution, err := models.DistributeBatch(c.Request.Context(), id, input.Allocations)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, distribution)
}

func GetBatchDistribution(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	distribution, err := models.GetBatchDistribution(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, distribution)
}
