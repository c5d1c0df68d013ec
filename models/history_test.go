package models_test

import (
	"context"
	"errors"
	"testing"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/models"
	"gorm.io/gorm"
)

func TestAuditLog_WrittenWithMutation(t *testing.T) {
	ctx := setupTestDB(t)

	client, err := models.CreateClient(ctx, &models.NewClient{
		Code: "CL-AUD", Name: "Audit Co",
	})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	logs, err := models.ListAuditLogs(ctx, "clients", client.ID, 10)
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(logs))
	}
	entry := logs[0]
	if entry.Action != models.AuditActionCreate {
		t.Fatalf("action = %s, want CREATE", entry.Action)
	}
	if entry.UserName != "Test" {
		t.Fatalf("user_name = %s, want Test", entry.UserName)
	}
	if entry.OldValues != "null" {
		t.Fatalf("old_values = %q, want null", entry.OldValues)
	}

	if _, err := models.UpdateClient(ctx, client.ID, &models.NewClient{
		Code: "CL-AUD", Name: "Audit Co Ltd",
	}); err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	logs, err = models.ListAuditLogs(ctx, "clients", client.ID, 10)
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit rows after update, got %d", len(logs))
	}
}

func TestAuditLog_DefaultUserIsSystem(t *testing.T) {
	setupTestDB(t)

	// a bare context carries no user
	ctx := context.Background()
	client, err := models.CreateClient(ctx, &models.NewClient{
		Code: "CL-SYS", Name: "System Co",
	})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	logs, err := models.ListAuditLogs(ctx, "clients", client.ID, 10)
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].UserName != "SYSTEM" {
		t.Fatalf("expected one SYSTEM audit row, got %+v", logs)
	}
}

// TestAuditLog_FailureRollsBackMutation proves the business write and its
// audit row commit or roll back together. A create callback is registered
// that fails any insert into audit_logs, then the mutation is attempted.
func TestAuditLog_FailureRollsBackMutation(t *testing.T) {
	ctx := setupTestDB(t)

	db := config.GetDB()
	failAudit := errors.New("audit insert disabled")
	if err := db.Callback().Create().Before("gorm:create").
		Register("fail_audit_insert", func(tx *gorm.DB) {
			if tx.Statement.Table == "audit_logs" {
				tx.AddError(failAudit)
			}
		}); err != nil {
		t.Fatalf("register callback: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Callback().Create().Remove("fail_audit_insert")
	})

	_, err := models.CreateClient(ctx, &models.NewClient{
		Code: "CL-ROLL", Name: "Rollback Co",
	})
	if err == nil {
		t.Fatal("expected create to fail when the audit insert fails")
	}

	// the client row must not exist
	if _, err := models.GetClientByCode(ctx, "CL-ROLL"); err == nil {
		t.Fatal("client row survived a failed audit insert")
	}
}
