package models

import (
	"context"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/utils"
)

// ToggleActiveModel flips the is_active column of any soft-deletable entity
// and writes the matching audit row in the same transaction.
func ToggleActiveModel[T any](ctx context.Context, id int, isActive bool) (*T, error) {

	result, err := utils.FetchModel[T](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	Tx := tx.WithContext(ctx).Model(result).UpdateColumn("is_active", isActive)
	if Tx.Error != nil {
		tx.Rollback()
		return nil, Tx.Error
	}
	tableName := Tx.Statement.Table

	action := AuditActionDelete
	summary := "Deactivated " + utils.GetTypeName[T]()
	if isActive {
		action = AuditActionRestore
		summary = "Reactivated " + utils.GetTypeName[T]()
	}
	if err := createHistory(tx.WithContext(ctx), action, id, tableName, nil, map[string]interface{}{"is_active": isActive}, summary); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[T](ctx, id)
}
