package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/minelab/sampletrack_backend/models"
)

func CreateClient(c *gin.Context) {
	var input models.NewClient
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	client, err := models.CreateClient(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, client)
}

func UpdateClient(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewClient
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	client, err := models.UpdateClient(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, client)
}

func DeleteClient(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	client, err := models.DeleteClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, client)
}

func RestoreClient(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	client, err := models.ToggleActiveClient(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, client)
}

func GetClient(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	client, err := models.GetClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, client)
}

func GetClientByCode(c *gin.Context) {
	client, err := models.GetClientByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, client)
}

func ListClients(c *gin.Context) {
	if term := c.Query("q"); term != "" {
		clients, err := models.SearchClients(c.Request.Context(), term)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, clients)
		return
	}
	clients, err := models.ListClients(c.Request.Context(), queryBool(c, "active_only", true))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, clients)
}

func GetClientStatistics(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	stats, err := models.GetClientStatistics(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
