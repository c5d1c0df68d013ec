package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/utils"
)

// respondError buckets model errors onto HTTP statuses. Not-found maps to
// 404; validation and rule violations to 400; everything else is a 500 that
// surfaces the error text and is logged.
func respondError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var verr *utils.ValidationError
	var jsonSyntaxErr *json.SyntaxError
	var jsonTypeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": utils.ProcessValidationErrors(verrs),
		})
	case errors.As(err, &verr),
		errors.As(err, &jsonSyntaxErr),
		errors.As(err, &jsonTypeErr),
		errors.Is(err, io.EOF):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		config.LogError(config.GetLogger(), "handlers", "respondError", c.Request.URL.Path, nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func respondOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

func respondCreated(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

func errInvalidQuery(name string) error {
	return utils.NewValidationError("invalid query parameter %s", name)
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryBool(c *gin.Context, name string, defaultValue bool) bool {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
