package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minelab/sampletrack_backend/models"
)

// ListAuditLogs filters by table_name and record_id when given; without
// filters it returns the most recent entries up to the limit.
func ListAuditLogs(c *gin.Context) {
	tableName := c.Query("table_name")

	recordId := 0
	if raw := c.Query("record_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, errInvalidQuery("record_id"))
			return
		}
		recordId = parsed
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, errInvalidQuery("limit"))
			return
		}
		limit = parsed
	}

	logs, err := models.ListAuditLogs(c.Request.Context(), tableName, recordId, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, logs)
}
