package models

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/utils"
	"gorm.io/gorm"
)

// AuditLog is the append-only change trail. Rows are written inside the same
// transaction as the business mutation they describe and are never updated or
// deleted. Key names (old_values, new_values, changes_summary, user_name) are
// load-bearing for downstream consumers and must not change.
type AuditLog struct {
	ID             int         `gorm:"primary_key" json:"id"`
	Action         AuditAction `gorm:"size:20;not null;index" json:"action"`
	TableName      string      `gorm:"size:50;not null;index" json:"table_name"`
	RecordId       int         `gorm:"not null;index" json:"record_id"`
	OldValues      string      `gorm:"type:text" json:"old_values"`
	NewValues      string      `gorm:"type:text" json:"new_values"`
	ChangesSummary string      `gorm:"type:text" json:"changes_summary"`
	UserName       string      `gorm:"size:100;not null;default:SYSTEM" json:"user_name"`
	Timestamp      time.Time   `gorm:"autoCreateTime;index" json:"timestamp"`
}

func createHistory(tx *gorm.DB,
	action AuditAction,
	recordId int,
	tableName string,
	before interface{},
	after interface{},
	summary string) error {

	b, _ := utils.MarshalToJSON(before)
	a, _ := utils.MarshalToJSON(after)

	if summary == "" {
		summary = defaultSummary(action, tableName, []byte(b), []byte(a))
	}

	ctx := tx.Statement.Context
	userName, ok := utils.GetUserNameFromContext(ctx)
	if !ok || userName == "" {
		userName = "SYSTEM"
	}

	history := AuditLog{
		Action:         action,
		TableName:      tableName,
		RecordId:       recordId,
		OldValues:      b,
		NewValues:      a,
		ChangesSummary: summary,
		UserName:       userName,
	}

	return tx.Create(&history).Error
}

// defaultSummary synthesizes a human-readable summary when the caller gave
// none: fixed text for CREATE/DELETE, a changed-key diff for UPDATE.
func defaultSummary(action AuditAction, tableName string, before, after []byte) string {
	switch action {
	case AuditActionCreate:
		return "New record created in " + tableName
	case AuditActionDelete:
		return "Record deleted from " + tableName
	case AuditActionRestore:
		return "Record restored in " + tableName
	case AuditActionUpdate:
		var oldMap, newMap map[string]interface{}
		utils.UnmarshalFromJSON(before, &oldMap)
		utils.UnmarshalFromJSON(after, &newMap)
		var changes []string
		for key, newVal := range newMap {
			if fmt.Sprint(oldMap[key]) != fmt.Sprint(newVal) {
				changes = append(changes, fmt.Sprintf("%s: '%v' -> '%v'", key, oldMap[key], newVal))
			}
		}
		if len(changes) == 0 {
			return "Record updated"
		}
		sort.Strings(changes)
		return "Changed fields: " + strings.Join(changes, ", ")
	}
	return string(action) + " on " + tableName
}

func SaveHistoryCreate(tx *gorm.DB, tableName string, id int, obj interface{}, summary string) error {
	return createHistory(tx, AuditActionCreate, id, tableName, nil, obj, summary)
}

func SaveHistoryUpdate(tx *gorm.DB, tableName string, id int, before interface{}, after interface{}, summary string) error {
	return createHistory(tx, AuditActionUpdate, id, tableName, before, after, summary)
}

func SaveHistoryDelete(tx *gorm.DB, tableName string, id int, obj interface{}, summary string) error {
	return createHistory(tx, AuditActionDelete, id, tableName, obj, nil, summary)
}

func SaveHistoryRestore(tx *gorm.DB, tableName string, id int, obj interface{}, summary string) error {
	return createHistory(tx, AuditActionRestore, id, tableName, nil, obj, summary)
}

// ListAuditLogs returns the trail for one record, newest first. Blank
// tableName / zero recordId widen the query to the whole table / all tables.
func ListAuditLogs(ctx context.Context, tableName string, recordId int, limit int) ([]*AuditLog, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&AuditLog{})
	if tableName != "" {
		dbCtx = dbCtx.Where("table_name = ?", tableName)
	}
	if recordId > 0 {
		dbCtx = dbCtx.Where("record_id = ?", recordId)
	}
	if limit <= 0 || limit > config.SearchLimit {
		limit = config.SearchLimit
	}
	var results []*AuditLog
	if err := dbCtx.Order("timestamp DESC, id DESC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
