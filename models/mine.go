package models

import (
	"context"
	"time"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/utils"
	"github.com/shopspring/decimal"
)

// Mine belongs to one client and owns batches of extracted material.
type Mine struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Code        string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:100;not null;index" json:"name"`
	Location    string    `gorm:"size:200" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	ClientId    int       `gorm:"not null;index" json:"client_id"`
	IsActive    *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMine struct {
	Code        string `json:"code" binding:"required" validate:"required,min=3,max=20,refcode"`
	Name        string `json:"name" binding:"required" validate:"required,min=2,max=100"`
	Location    string `json:"location" validate:"max=200"`
	Description string `json:"description"`
	ClientId    int    `json:"client_id" binding:"required" validate:"required,gt=0"`
}

func (input *NewMine) validate(ctx context.Context, id int) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.ValidateUnique[Mine](ctx, "code", input.Code, id); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Client](ctx, input.ClientId); err != nil {
		return utils.NewValidationError("client not found")
	}
	return nil
}

func (input *NewMine) fields() map[string]interface{} {
	return map[string]interface{}{
		"code":        input.Code,
		"name":        input.Name,
		"location":    input.Location,
		"description": input.Description,
		"client_id":   input.ClientId,
	}
}

func (m *Mine) auditValues() map[string]interface{} {
	return map[string]interface{}{
		"code":        m.Code,
		"name":        m.Name,
		"location":    m.Location,
		"description": m.Description,
		"client_id":   m.ClientId,
	}
}

func CreateMine(ctx context.Context, input *NewMine) (*Mine, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	mine := Mine{
		Code:        input.Code,
		Name:        input.Name,
		Location:    input.Location,
		Description: input.Description,
		ClientId:    input.ClientId,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&mine).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryCreate(tx.WithContext(ctx), "mines", mine.ID, mine.auditValues(), "Mine created: "+mine.Code); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &mine, nil
}

func UpdateMine(ctx context.Context, id int, input *NewMine) (*Mine, error) {

	mine, err := utils.FetchModel[Mine](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	oldValues := mine.auditValues()

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(mine).Updates(input.fields()).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryUpdate(tx.WithContext(ctx), "mines", id, oldValues, input.fields(), ""); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Mine](ctx, id)
}

// DeleteMine is a soft delete; it fails while the mine owns active batches.
func DeleteMine(ctx context.Context, id int) (*Mine, error) {

	mine, err := utils.FetchModel[Mine](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Batch](ctx, "mine_id = ? AND is_active = ?", id, true)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("mine has active batches")
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(mine).UpdateColumn("is_active", false).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryDelete(tx.WithContext(ctx), "mines", id, mine.auditValues(), "Mine deleted: "+mine.Code); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Mine](ctx, id)
}

func GetMine(ctx context.Context, id int) (*Mine, error) {
	return utils.FetchModel[Mine](ctx, id)
}

func GetMineByCode(ctx context.Context, code string) (*Mine, error) {
	return utils.FetchModelWhere[Mine](ctx, "code = ?", code)
}

func ListMines(ctx context.Context, activeOnly bool) ([]*Mine, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	var results []*Mine
	if err := dbCtx.Order("name").Limit(config.SearchLimit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func ListMinesByClient(ctx context.Context, clientId int) ([]*Mine, error) {
	db := config.GetDB()
	var results []*Mine
	err := db.WithContext(ctx).Where("client_id = ?", clientId).Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func SearchMines(ctx context.Context, term string) ([]*Mine, error) {
	db := config.GetDB()
	pattern := "%" + term + "%"
	var results []*Mine
	err := db.WithContext(ctx).
		Where("code LIKE ? OR name LIKE ? OR location LIKE ?", pattern, pattern, pattern).
		Order("name").Limit(config.SearchLimit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ToggleActiveMine(ctx context.Context, id int, isActive bool) (*Mine, error) {
	return ToggleActiveModel[Mine](ctx, id, isActive)
}

type MineStatistics struct {
	MineId         int             `json:"mine_id"`
	MineCode       string          `json:"mine_code"`
	MineName       string          `json:"mine_name"`
	ActiveBatches  int64           `json:"active_batches"`
	TotalBatches   int64           `json:"total_batches"`
	TotalExtracted decimal.Decimal `json:"total_extracted"`
}

func GetMineStatistics(ctx context.Context, id int) (*MineStatistics, error) {
	mine, err := utils.FetchModel[Mine](ctx, id)
	if err != nil {
		return nil, err
	}

	stats := MineStatistics{MineId: mine.ID, MineCode: mine.Code, MineName: mine.Name}

	var err2 error
	if stats.ActiveBatches, err2 = utils.ResourceCountWhere[Batch](ctx, "mine_id = ? AND is_active = ?", id, true); err2 != nil {
		return nil, err2
	}
	if stats.TotalBatches, err2 = utils.ResourceCountWhere[Batch](ctx, "mine_id = ?", id); err2 != nil {
		return nil, err2
	}

	db := config.GetDB()
	var total decimal.NullDecimal
	if err := db.WithContext(ctx).Model(&Batch{}).
		Where("mine_id = ?", id).
		Select("SUM(total_quantity)").Scan(&total).Error; err != nil {
		return nil, err
	}
	if total.Valid {
		stats.TotalExtracted = total.Decimal
	}
	return &stats, nil
}
