package reports

import (
	"context"
	"time"

	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/models"
	"github.com/shopspring/decimal"
)

type SampleStatusRow struct {
	SampleCode    string              `json:"sample_code"`
	BatchNumber   string              `json:"batch_number"`
	MineName      string              `json:"mine_name"`
	ClientName    string              `json:"client_name"`
	Status        models.SampleStatus `json:"status"`
	Quantity      decimal.Decimal     `json:"quantity"`
	Unit          string              `json:"unit"`
	CollectedBy   string              `json:"collected_by"`
	CollectedDate time.Time           `json:"collected_date"`
	TestedDate    *time.Time          `json:"tested_date"`
}

// SampleStatusReport lists every sample with its custody position plus the
// per-status counts. An empty status filter returns all statuses.
type SampleStatusReport struct {
	Rows   []*SampleStatusRow          `json:"rows"`
	Counts []*models.SampleStatusCount `json:"counts"`
}

func GetSampleStatusReport(ctx context.Context, status models.SampleStatus) (*SampleStatusReport, error) {
	db := config.GetDB()

	query := db.WithContext(ctx).Table("samples").
		Select(`samples.sample_code AS sample_code,
			batches.batch_number AS batch_number,
			mines.name AS mine_name,
			clients.name AS client_name,
			samples.status AS status,
			samples.quantity AS quantity,
			samples.unit AS unit,
			samples.collected_by AS collected_by,
			samples.collected_date AS collected_date,
			samples.tested_date AS tested_date`).
		Joins("JOIN batches ON batches.id = samples.batch_id").
		Joins("JOIN mines ON mines.id = batches.mine_id").
		Joins("JOIN clients ON clients.id = mines.client_id")
	if status != "" {
		query = query.Where("samples.status = ?", status)
	}

	var rows []*SampleStatusRow
	if err := query.Order("samples.collected_date DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts, err := models.GetSampleStatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	return &SampleStatusReport{Rows: rows, Counts: counts}, nil
}
