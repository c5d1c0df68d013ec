package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minelab/sampletrack_backend/models"
)

func ExtractSample(c *gin.Context) {
	var input models.NewSample
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	sample, err := models.ExtractSample(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, sample)
}

func UpdateSample(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.SampleUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	sample, err := models.UpdateSample(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sample)
}

type sampleNotesRequest struct {
	LabNotes string `json:"lab_notes"`
}

func MoveSampleToLab(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input sampleNotesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
	}
	sample, err := models.MoveSampleToLab(c.Request.Context(), id, input.LabNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sample)
}

type sampleTestedRequest struct {
	TestResults string `json:"test_results"`
	LabNotes    string `json:"lab_notes"`
}

func MarkSampleTested(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input sampleTestedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
	}
	sample, err := models.MarkSampleTested(c.Request.Context(), id, input.TestResults, input.LabNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sample)
}

func StoreSample(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	sample, err := models.StoreSample(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sample)
}

type destroySampleRequest struct {
	Reason string `json:"reason"`
}

func DestroySample(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input destroySampleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
	}
	sample, err := models.DestroySample(c.Request.Context(), id, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sample)
}

func DeleteSample(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	sample, err := models.DeleteSample(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sample)
}

func RestoreSample(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	sample, err := models.RestoreSample(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sample)
}

func GetSample(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	sample, err := models.GetSample(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sample)
}

func GetSampleByCode(c *gin.Context) {
	sample, err := models.GetSampleByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sample)
}

func ListSamples(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("batch_id"); raw != "" {
		batchId, err := strconv.Atoi(raw)
		if err != nil || batchId <= 0 {
			respondError(c, errInvalidQuery("batch_id"))
			return
		}
		samples, err := models.ListSamplesByBatch(ctx, batchId)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, samples)
		return
	}
	if status := c.Query("status"); status != "" {
		samples, err := models.ListSamplesByStatus(ctx, models.SampleStatus(status))
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, samples)
		return
	}
	if term := c.Query("q"); term != "" {
		samples, err := models.SearchSamples(ctx, term)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, samples)
		return
	}
	samples, err := models.ListSamples(ctx, queryBool(c, "active_only", true))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, samples)
}

func GetSampleStatusCounts(c *gin.Context) {
	counts, err := models.GetSampleStatusCounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, counts)
}
