package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minelab/sampletrack_backend/models"
	"github.com/minelab/sampletrack_backend/models/reports"
)

func GetWarehouseInventoryReport(c *gin.Context) {
	report, err := reports.GetWarehouseInventoryReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

func GetSampleStatusReport(c *gin.Context) {
	status := models.SampleStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		respondError(c, errInvalidQuery("status"))
		return
	}
	report, err := reports.GetSampleStatusReport(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

func ExportInventoryExcel(c *gin.Context) {
	buffer, err := reports.ExportInventoryExcel(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	fileName := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buffer.Bytes())
}
