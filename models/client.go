package models

import (
	"context"
	"time"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/utils"
)

// Client owns mines. Deletion is logical and blocked while active mines exist.
type Client struct {
	ID            int       `gorm:"primary_key" json:"id"`
	Code          string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"size:100;not null;index" json:"name"`
	ContactPerson string    `gorm:"size:100" json:"contact_person"`
	Email         string    `gorm:"size:100" json:"email"`
	Phone         string    `gorm:"size:20" json:"phone"`
	Address       string    `gorm:"type:text" json:"address"`
	IsActive      *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	Code          string `json:"code" binding:"required" validate:"required,min=3,max=20,refcode"`
	Name          string `json:"name" binding:"required" validate:"required,min=2,max=100"`
	ContactPerson string `json:"contact_person" validate:"max=100"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"max=20"`
	Address       string `json:"address"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewClient) validate(ctx context.Context, id int) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	// code unique among active and inactive rows alike
	if err := utils.ValidateUnique[Client](ctx, "code", input.Code, id); err != nil {
		return err
	}
	return nil
}

func (input *NewClient) fields() map[string]interface{} {
	return map[string]interface{}{
		"code":           input.Code,
		"name":           input.Name,
		"contact_person": input.ContactPerson,
		"email":          input.Email,
		"phone":          input.Phone,
		"address":        input.Address,
	}
}

func (c *Client) auditValues() map[string]interface{} {
	return map[string]interface{}{
		"code":           c.Code,
		"name":           c.Name,
		"contact_person": c.ContactPerson,
		"email":          c.Email,
		"phone":          c.Phone,
		"address":        c.Address,
	}
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	client := Client{
		Code:          input.Code,
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		IsActive:      utils.NewTrue(),
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&client).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryCreate(tx.WithContext(ctx), "clients", client.ID, client.auditValues(), "Client created: "+client.Code); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func UpdateClient(ctx context.Context, id int, input *NewClient) (*Client, error) {

	client, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	oldValues := client.auditValues()

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(client).Updates(input.fields()).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryUpdate(tx.WithContext(ctx), "clients", id, oldValues, input.fields(), ""); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Client](ctx, id)
}

// DeleteClient is a soft delete; it fails while the client owns active mines.
func DeleteClient(ctx context.Context, id int) (*Client, error) {

	client, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Mine](ctx, "client_id = ? AND is_active = ?", id, true)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("client has active mines")
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(client).UpdateColumn("is_active", false).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryDelete(tx.WithContext(ctx), "clients", id, client.auditValues(), "Client deleted: "+client.Code); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Client](ctx, id)
}

func GetClient(ctx context.Context, id int) (*Client, error) {
	return utils.FetchModel[Client](ctx, id)
}

func GetClientByCode(ctx context.Context, code string) (*Client, error) {
	return utils.FetchModelWhere[Client](ctx, "code = ?", code)
}

func ListClients(ctx context.Context, activeOnly bool) ([]*Client, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	var results []*Client
	if err := dbCtx.Order("name").Limit(config.SearchLimit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// SearchClients does a case-insensitive substring match over the text fields.
func SearchClients(ctx context.Context, term string) ([]*Client, error) {
	db := config.GetDB()
	pattern := "%" + term + "%"
	var results []*Client
	err := db.WithContext(ctx).
		Where("code LIKE ? OR name LIKE ? OR contact_person LIKE ? OR email LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("name").Limit(config.SearchLimit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ToggleActiveClient(ctx context.Context, id int, isActive bool) (*Client, error) {
	return ToggleActiveModel[Client](ctx, id, isActive)
}

type ClientStatistics struct {
	ClientId     int    `json:"client_id"`
	ClientCode   string `json:"client_code"`
	ClientName   string `json:"client_name"`
	ActiveMines  int64  `json:"active_mines"`
	TotalMines   int64  `json:"total_mines"`
	TotalBatches int64  `json:"total_batches"`
}

func GetClientStatistics(ctx context.Context, id int) (*ClientStatistics, error) {
	client, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}

	stats := ClientStatistics{ClientId: client.ID, ClientCode: client.Code, ClientName: client.Name}

	var err2 error
	if stats.ActiveMines, err2 = utils.ResourceCountWhere[Mine](ctx, "client_id = ? AND is_active = ?", id, true); err2 != nil {
		return nil, err2
	}
	if stats.TotalMines, err2 = utils.ResourceCountWhere[Mine](ctx, "client_id = ?", id); err2 != nil {
		return nil, err2
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Batch{}).
		Joins("JOIN mines ON mines.id = batches.mine_id").
		Where("mines.client_id = ?", id).
		Count(&stats.TotalBatches).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
