package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minelab/sampletrack_backend/models"
)

func CreateMine(c *gin.Context) {
	var input models.NewMine
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	mine, err := models.CreateMine(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, mine)
}

func UpdateMine(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewMine
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	mine, err := models.UpdateMine(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, mine)
}

func DeleteMine(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	mine, err := models.DeleteMine(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, mine)
}

func RestoreMine(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	mine, err := models.ToggleActiveMine(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, mine)
}

func GetMine(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	mine, err := models.GetMine(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, mine)
}

func GetMineByCode(c *gin.Context) {
	mine, err := models.GetMineByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, mine)
}

func ListMines(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("client_id"); raw != "" {
		clientId, err := strconv.Atoi(raw)
		if err != nil || clientId <= 0 {
			respondError(c, errInvalidQuery("client_id"))
			return
		}
		mines, err := models.ListMinesByClient(ctx, clientId)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, mines)
		return
	}
	if term := c.Query("q"); term != "" {
		mines, err := models.SearchMines(ctx, term)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, mines)
		return
	}
	mines, err := models.ListMines(ctx, queryBool(c, "active_only", true))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, mines)
}

func GetMineStatistics(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	stats, err := models.GetMineStatistics(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
