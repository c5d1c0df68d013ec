package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/minelab/sampletrack_backend/models"
)

func CreateWarehouse(c *gin.Context) {
	var input models.NewWarehouse
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	warehouse, err := models.CreateWarehouse(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, warehouse)
}

func UpdateWarehouse(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewWarehouse
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	warehouse, err := models.UpdateWarehouse(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, warehouse)
}

func DeleteWarehouse(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	warehouse, err := models.DeleteWarehouse(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, warehouse)
}

func RestoreWarehouse(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	warehouse, err := models.ToggleActiveWarehouse(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, warehouse)
}

func GetWarehouse(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	warehouse, err := models.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, warehouse)
}

func GetWarehouseByCode(c *gin.Context) {
	warehouse, err := models.GetWarehouseByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, warehouse)
}

func ListWarehouses(c *gin.Context) {
	if term := c.Query("q"); term != "" {
		warehouses, err := models.SearchWarehouses(c.Request.Context(), term)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, warehouses)
		return
	}
	warehouses, err := models.ListWarehouses(c.Request.Context(), queryBool(c, "active_only", true))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, warehouses)
}

func GetWarehouseUtilization(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	utilization, err := models.GetWarehouseUtilization(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, utilization)
}
