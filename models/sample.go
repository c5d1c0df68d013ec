package models

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sample is a quantity drawn from a batch that moves through the custody
// lifecycle CUSTODY -> IN_LAB -> TESTED -> STORED. DESTROYED and INACTIVE
// take it out of circulation; only an INACTIVE sample can come back.
type Sample struct {
	ID            int             `gorm:"primary_key" json:"id"`
	SampleCode    string          `gorm:"size:50;uniqueIndex;not null" json:"sample_code"`
	BatchId       int             `gorm:"not null;index" json:"batch_id"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"quantity"`
	Unit          string          `gorm:"size:10;not null;default:g" json:"unit"`
	Status        SampleStatus    `gorm:"size:20;not null;default:CUSTODY" json:"status"`
	Purpose       string          `gorm:"type:text" json:"purpose"`
	TestResults   string          `gorm:"type:text" json:"test_results"`
	LabNotes      string          `gorm:"type:text" json:"lab_notes"`
	CollectedBy   string          `gorm:"size:100" json:"collected_by"`
	CollectedDate time.Time       `gorm:"not null" json:"collected_date"`
	TestedDate    *time.Time      `json:"tested_date"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSample struct {
	BatchId     int             `json:"batch_id" binding:"required" validate:"required,gt=0"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Purpose     string          `json:"purpose"`
	CollectedBy string          `json:"collected_by"`
}

func (input *NewSample) validate(ctx context.Context) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.Quantity.IsPositive() {
		return utils.NewValidationError("sample quantity must be positive")
	}
	if input.Unit == "" {
		input.Unit = "g"
	}
	if !ValidMeasurementUnit(input.Unit) {
		return utils.NewValidationError("invalid measurement unit %s", input.Unit)
	}
	return nil
}

func (s *Sample) auditValues() map[string]interface{} {
	return map[string]interface{}{
		"sample_code":    s.SampleCode,
		"batch_id":       s.BatchId,
		"quantity":       s.Quantity,
		"unit":           s.Unit,
		"status":         s.Status,
		"purpose":        s.Purpose,
		"test_results":   s.TestResults,
		"collected_by":   s.CollectedBy,
		"collected_date": s.CollectedDate,
	}
}

const sampleCodePrefix = "SMP-"

// GenerateSampleCode continues the SMP-NNNNNN sequence from the highest
// suffix present, including soft-deleted rows so codes never repeat.
func GenerateSampleCode(ctx context.Context) (string, error) {
	return generateSampleCode(config.GetDB(), ctx)
}

func generateSampleCode(handle *gorm.DB, ctx context.Context) (string, error) {
	var last string
	err := handle.WithContext(ctx).Model(&Sample{}).
		Where("sample_code LIKE ?", sampleCodePrefix+"%").
		Order("sample_code DESC").Limit(1).
		Pluck("sample_code", &last).Error
	if err != nil {
		return "", err
	}
	next := 1
	if last != "" {
		suffix, err := strconv.Atoi(strings.TrimPrefix(last, sampleCodePrefix))
		if err == nil {
			next = suffix + 1
		}
	}
	return fmt.Sprintf("%s%06d", sampleCodePrefix, next), nil
}

// ExtractSample draws a quantity out of a batch. The available balance is
// recomputed inside the same transaction that inserts the row, so two
// concurrent extractions cannot both spend the last of a batch.
func ExtractSample(ctx context.Context, input *NewSample) (*Sample, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	batch, err := utils.FetchModel[Batch](ctx, input.BatchId)
	if err != nil {
		return nil, utils.NewValidationError("batch not found")
	}
	if !utils.DereferencePtr(batch.IsActive) {
		return nil, utils.NewValidationError("batch is inactive")
	}

	db := config.GetDB()
	tx := db.Begin()

	available, err := batchAvailableQuantity(tx, ctx, input.BatchId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if input.Quantity.GreaterThan(available) {
		tx.Rollback()
		return nil, utils.NewValidationError("requested quantity %s exceeds the available %s", input.Quantity, available)
	}

	code, err := generateSampleCode(tx, ctx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	sample := Sample{
		SampleCode:    code,
		BatchId:       input.BatchId,
		Quantity:      input.Quantity,
		Unit:          input.Unit,
		Status:        SampleStatusCustody,
		Purpose:       input.Purpose,
		CollectedBy:   input.CollectedBy,
		CollectedDate: time.Now(),
		IsActive:      utils.NewTrue(),
	}
	if err := tx.WithContext(ctx).Create(&sample).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	summary := fmt.Sprintf("Sample %s extracted from batch %s", code, batch.BatchNumber)
	if err := SaveHistoryCreate(tx.WithContext(ctx), "samples", sample.ID, sample.auditValues(), summary); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &sample, nil
}

// SampleUpdate carries the optional fields of a partial update. Nil means
// leave the column alone.
type SampleUpdate struct {
	Quantity    *decimal.Decimal `json:"quantity"`
	Unit        *string          `json:"unit"`
	Purpose     *string          `json:"purpose"`
	TestResults *string          `json:"test_results"`
	LabNotes    *string          `json:"lab_notes"`
	CollectedBy *string          `json:"collected_by"`
}

// UpdateSample applies a partial update. A quantity change re-derives the
// batch balance inside the transaction; since the sample's current quantity
// is already spent there, the new quantity may use it plus whatever is left.
func UpdateSample(ctx context.Context, id int, input *SampleUpdate) (*Sample, error) {

	sample, err := utils.FetchModel[Sample](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Quantity != nil {
		if !input.Quantity.IsPositive() {
			return nil, utils.NewValidationError("sample quantity must be positive")
		}
		updates["quantity"] = *input.Quantity
	}
	if input.Unit != nil {
		if !ValidMeasurementUnit(*input.Unit) {
			return nil, utils.NewValidationError("invalid measurement unit %s", *input.Unit)
		}
		updates["unit"] = *input.Unit
	}
	if input.Purpose != nil {
		updates["purpose"] = *input.Purpose
	}
	if input.TestResults != nil {
		updates["test_results"] = *input.TestResults
	}
	if input.LabNotes != nil {
		updates["lab_notes"] = *input.LabNotes
	}
	if input.CollectedBy != nil {
		updates["collected_by"] = *input.CollectedBy
	}
	if len(updates) == 0 {
		return sample, nil
	}

	oldValues := sample.auditValues()

	db := config.GetDB()
	tx := db.Begin()

	if input.Quantity != nil && !input.Quantity.Equal(sample.Quantity) && utils.DereferencePtr(sample.IsActive) {
		available, err := batchAvailableQuantity(tx, ctx, sample.BatchId)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		allowance := available.Add(sample.Quantity)
		if input.Quantity.GreaterThan(allowance) {
			tx.Rollback()
			return nil, utils.NewValidationError("requested quantity %s exceeds the available %s", *input.Quantity, allowance)
		}
	}

	if err := tx.WithContext(ctx).Model(sample).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	summary := "Sample " + sample.SampleCode + " updated"
	if err := SaveHistoryUpdate(tx.WithContext(ctx), "samples", id, oldValues, updates, summary); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Sample](ctx, id)
}

// transitionSample moves one sample from an expected status to the next,
// auditing the change in the same transaction.
func transitionSample(ctx context.Context, id int, from, to SampleStatus, extra map[string]interface{}, summary string) (*Sample, error) {

	sample, err := utils.FetchModel[Sample](ctx, id)
	if err != nil {
		return nil, err
	}
	if sample.Status != from {
		return nil, utils.NewValidationError("sample is %s, expected %s", sample.Status, from)
	}

	updates := map[string]interface{}{"status": to}
	for key, value := range extra {
		updates[key] = value
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(sample).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	oldValues := map[string]interface{}{"status": from}
	if err := SaveHistoryUpdate(tx.WithContext(ctx), "samples", id, oldValues, updates, summary); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Sample](ctx, id)
}

func MoveSampleToLab(ctx context.Context, id int, labNotes string) (*Sample, error) {
	sample, err := utils.FetchModel[Sample](ctx, id)
	if err != nil {
		return nil, err
	}
	extra := map[string]interface{}{}
	if labNotes != "" {
		extra["lab_notes"] = appendNote(sample.LabNotes, labNotes)
	}
	summary := "Sample " + sample.SampleCode + " sent to lab"
	return transitionSample(ctx, id, SampleStatusCustody, SampleStatusInLab, extra, summary)
}

// MarkSampleTested records the lab outcome. The test results land on the
// sample and in the audit row's new values together with the tested date.
func MarkSampleTested(ctx context.Context, id int, testResults, labNotes string) (*Sample, error) {
	sample, err := utils.FetchModel[Sample](ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	extra := map[string]interface{}{"tested_date": &now}
	if testResults != "" {
		extra["test_results"] = testResults
	}
	if labNotes != "" {
		extra["lab_notes"] = appendNote(sample.LabNotes, labNotes)
	}
	summary := "Sample " + sample.SampleCode + " tested"
	return transitionSample(ctx, id, SampleStatusInLab, SampleStatusTested, extra, summary)
}

func StoreSample(ctx context.Context, id int) (*Sample, error) {
	sample, err := utils.FetchModel[Sample](ctx, id)
	if err != nil {
		return nil, err
	}
	summary := "Sample " + sample.SampleCode + " moved to storage"
	return transitionSample(ctx, id, SampleStatusTested, SampleStatusStored, nil, summary)
}

// DestroySample is terminal and allowed from any non-terminal status. The
// quantity stays on the sample as a record of consumed material, so the
// batch balance is unaffected.
func DestroySample(ctx context.Context, id int, reason string) (*Sample, error) {

	sample, err := utils.FetchModel[Sample](ctx, id)
	if err != nil {
		return nil, err
	}
	if sample.Status.Terminal() {
		return nil, utils.NewValidationError("sample is already %s", sample.Status)
	}

	updates := map[string]interface{}{"status": SampleStatusDestroyed}
	if reason != "" {
		updates["lab_notes"] = appendNote(sample.LabNotes, "Destroyed: "+reason)
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(sample).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	oldValues := map[string]interface{}{"status": sample.Status}
	summary := "Sample " + sample.SampleCode + " destroyed"
	if err := SaveHistoryUpdate(tx.WithContext(ctx), "samples", id, oldValues, updates, summary); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Sample](ctx, id)
}

// DeleteSample soft-deletes: the row stays but stops counting against the
// batch's sampled quantity, returning the material to the balance.
func DeleteSample(ctx context.Context, id int) (*Sample, error) {

	sample, err := utils.FetchModel[Sample](ctx, id)
	if err != nil {
		return nil, err
	}
	if !utils.DereferencePtr(sample.IsActive) {
		return nil, utils.NewValidationError("sample is already deleted")
	}

	updates := map[string]interface{}{"status": SampleStatusInactive, "is_active": false}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(sample).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	summary := "Sample " + sample.SampleCode + " deleted"
	if err := SaveHistoryDelete(tx.WithContext(ctx), "samples", id, sample.auditValues(), summary); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Sample](ctx, id)
}

// RestoreSample brings a soft-deleted sample back into CUSTODY. Its
// quantity counts against the batch again, so the restore fails when the
// balance no longer covers it.
func RestoreSample(ctx context.Context, id int) (*Sample, error) {

	sample, err := utils.FetchModel[Sample](ctx, id)
	if err != nil {
		return nil, err
	}
	if utils.DereferencePtr(sample.IsActive) {
		return nil, utils.NewValidationError("sample is not deleted")
	}

	db := config.GetDB()
	tx := db.Begin()

	available, err := batchAvailableQuantity(tx, ctx, sample.BatchId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if sample.Quantity.GreaterThan(available) {
		tx.Rollback()
		return nil, utils.NewValidationError("restoring %s exceeds the available %s", sample.Quantity, available)
	}

	updates := map[string]interface{}{"status": SampleStatusCustody, "is_active": true}
	if err := tx.WithContext(ctx).Model(sample).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	summary := "Sample " + sample.SampleCode + " restored"
	if err := SaveHistoryRestore(tx.WithContext(ctx), "samples", id, sample.auditValues(), summary); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Sample](ctx, id)
}

func GetSample(ctx context.Context, id int) (*Sample, error) {
	return utils.FetchModel[Sample](ctx, id)
}

func GetSampleByCode(ctx context.Context, sampleCode string) (*Sample, error) {
	return utils.FetchModelWhere[Sample](ctx, "sample_code = ?", sampleCode)
}

func ListSamples(ctx context.Context, activeOnly bool) ([]*Sample, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	var results []*Sample
	if err := dbCtx.Order("collected_date DESC").Limit(config.SearchLimit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func ListSamplesByBatch(ctx context.Context, batchId int) ([]*Sample, error) {
	db := config.GetDB()
	var results []*Sample
	err := db.WithContext(ctx).Where("batch_id = ?", batchId).
		Order("collected_date DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ListSamplesByStatus(ctx context.Context, status SampleStatus) ([]*Sample, error) {
	if !status.Valid() {
		return nil, utils.NewValidationError("invalid sample status %s", string(status))
	}
	db := config.GetDB()
	var results []*Sample
	err := db.WithContext(ctx).Where("status = ?", status).
		Order("collected_date DESC").Limit(config.SearchLimit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func SearchSamples(ctx context.Context, term string) ([]*Sample, error) {
	db := config.GetDB()
	pattern := "%" + term + "%"
	var results []*Sample
	err := db.WithContext(ctx).
		Where("sample_code LIKE ? OR purpose LIKE ? OR collected_by LIKE ?", pattern, pattern, pattern).
		Order("collected_date DESC").Limit(config.SearchLimit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

type SampleStatusCount struct {
	Status SampleStatus `json:"status"`
	Count  int64        `json:"count"`
}

func GetSampleStatusCounts(ctx context.Context) ([]*SampleStatusCount, error) {
	db := config.GetDB()
	var results []*SampleStatusCount
	err := db.WithContext(ctx).Model(&Sample{}).
		Select("status, COUNT(*) AS count").
		Group("status").Order("status").Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
