package models

import (
	"github.com/minelab/sampletrack_backend/config"
)

func MigrateTables() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Client{},
		&Mine{},
		&Warehouse{},
		&Batch{},
		&BatchWarehouse{},
		&Sample{},
		&AuditLog{},
	)
}
