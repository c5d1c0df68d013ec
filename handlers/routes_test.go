package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/handlers"
	"github.com/minelab/sampletrack_backend/middlewares"
	"github.com/minelab/sampletrack_backend/models"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "handlers_test.db"))
	if err := config.ConnectDatabase(); err != nil {
		t.Fatalf("ConnectDatabase: %v", err)
	}
	if err := models.MigrateTables(); err != nil {
		t.Fatalf("MigrateTables: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middlewares.RequestContextMiddleware())
	handlers.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, user string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestClientEndpoints(t *testing.T) {
	router := setupRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/clients", gin.H{
		"code": "HTTP01", "name": "HTTP Client",
	}, "alice")
	if resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.Code, resp.Body.String())
	}
	var created models.Client
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Code != "HTTP01" {
		t.Fatalf("code = %s, want HTTP01", created.Code)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("missing request id header")
	}

	// validation failure maps to 400
	resp = doJSON(t, router, http.MethodPost, "/api/v1/clients", gin.H{
		"code": "HTTP01", "name": "Duplicate",
	}, "alice")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", resp.Code)
	}

	// unknown id maps to 404
	resp = doJSON(t, router, http.MethodGet, "/api/v1/clients/9999", nil, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", resp.Code)
	}

	// the X-User header lands in the audit trail
	resp = doJSON(t, router, http.MethodGet, "/api/v1/audit-logs?table_name=clients", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("audit status = %d", resp.Code)
	}
	var logs []models.AuditLog
	if err := json.Unmarshal(resp.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(logs) != 1 || logs[0].UserName != "alice" {
		t.Fatalf("expected one audit row by alice, got %+v", logs)
	}
}

func TestSampleLifecycleEndpoints(t *testing.T) {
	router := setupRouter(t)

	if err := models.SeedWarehouses(context.Background()); err != nil {
		t.Fatalf("SeedWarehouses: %v", err)
	}

	mustCreate := func(path string, body gin.H) map[string]interface{} {
		t.Helper()
		resp := doJSON(t, router, http.MethodPost, path, body, "bob")
		if resp.Code != http.StatusCreated {
			t.Fatalf("POST %s = %d, body %s", path, resp.Code, resp.Body.String())
		}
		var out map[string]interface{}
		if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return out
	}

	client := mustCreate("/api/v1/clients", gin.H{"code": "LIFE01", "name": "Lifecycle Co"})
	mine := mustCreate("/api/v1/mines", gin.H{
		"code": "LIFE-M1", "name": "Lifecycle Pit", "client_id": client["id"],
	})
	batch := mustCreate("/api/v1/batches", gin.H{
		"batch_number": "LIFE-B1", "mine_id": mine["id"], "total_quantity": "100",
	})
	batchId := int(batch["id"].(float64))

	var w1 models.Warehouse
	if err := config.GetDB().Where("code = ?", "W01").First(&w1).Error; err != nil {
		t.Fatalf("fetch W01: %v", err)
	}
	resp := doJSON(t, router, http.MethodPost,
		"/api/v1/batches/"+itoa(batchId)+"/distribute",
		gin.H{"allocations": []gin.H{{"warehouse_id": w1.ID, "quantity": "100"}}}, "bob")
	if resp.Code != http.StatusOK {
		t.Fatalf("distribute = %d, body %s", resp.Code, resp.Body.String())
	}

	sample := mustCreate("/api/v1/samples", gin.H{"batch_id": batchId, "quantity": "10"})
	sampleId := int(sample["id"].(float64))

	putResp := doJSON(t, router, http.MethodPut,
		"/api/v1/samples/"+itoa(sampleId), gin.H{"purpose": "assay"}, "bob")
	if putResp.Code != http.StatusOK {
		t.Fatalf("PUT sample = %d, body %s", putResp.Code, putResp.Body.String())
	}

	putResp = doJSON(t, router, http.MethodPut,
		"/api/v1/samples/"+itoa(sampleId), gin.H{"quantity": "200"}, "bob")
	if putResp.Code != http.StatusBadRequest {
		t.Fatalf("PUT oversized quantity = %d, want 400", putResp.Code)
	}

	for _, step := range []struct {
		path string
		want string
	}{
		{"/api/v1/samples/" + itoa(sampleId) + "/to-lab", "IN_LAB"},
		{"/api/v1/samples/" + itoa(sampleId) + "/tested", "TESTED"},
		{"/api/v1/samples/" + itoa(sampleId) + "/store", "STORED"},
	} {
		resp := doJSON(t, router, http.MethodPost, step.path, nil, "bob")
		if resp.Code != http.StatusOK {
			t.Fatalf("POST %s = %d, body %s", step.path, resp.Code, resp.Body.String())
		}
		var out models.Sample
		if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(out.Status) != step.want {
			t.Fatalf("%s status = %s, want %s", step.path, out.Status, step.want)
		}
	}

	// balance endpoint reflects the extraction
	resp = doJSON(t, router, http.MethodGet, "/api/v1/batches/"+itoa(batchId)+"/balance", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("balance = %d", resp.Code)
	}
	var balance models.BatchBalance
	if err := json.Unmarshal(resp.Body.Bytes(), &balance); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if !balance.Available.Equal(balance.Stored.Sub(balance.Sampled)) {
		t.Fatalf("balance inconsistent: %+v", balance)
	}
	if balance.Available.String() != "90" {
		t.Fatalf("available = %s, want 90", balance.Available)
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
