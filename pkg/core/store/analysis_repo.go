package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ankur-dewani/financial-deep-dive/pkg/core/pipeline"
)

// AnalysisRepository is the storage contract the CLI works against, so tests
// can inject an in-memory implementation.
type AnalysisRepository interface {
	Save(ctx context.Context, result *pipeline.AnalysisResult) error
	Load(ctx context.Context, businessUnit string) (*pipeline.AnalysisResult, error)
}

// AnalysisRepo stores one AnalysisResult per business unit as a JSONB blob,
// upserting on re-analysis.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS benchmark_analysis (
//	  business_unit TEXT PRIMARY KEY,
//	  run_id UUID,
//	  result_json JSONB,
//	  updated_at TIMESTAMPTZ
//	);
type AnalysisRepo struct{}

// NewAnalysisRepo creates a new repository instance.
func NewAnalysisRepo() *AnalysisRepo {
	return &AnalysisRepo{}
}

// Save persists an analysis result, replacing any prior run for the same
// business unit.
func (r *AnalysisRepo) Save(ctx context.Context, result *pipeline.AnalysisResult) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	query := `
		INSERT INTO benchmark_analysis (business_unit, run_id, result_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (business_unit)
		DO UPDATE SET
			run_id = EXCLUDED.run_id,
			result_json = EXCLUDED.result_json,
			updated_at = EXCLUDED.updated_at;
	`

	_, err = pool.Exec(ctx, query, result.BusinessUnit, result.RunID, jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// Load retrieves the latest analysis result for a business unit.
func (r *AnalysisRepo) Load(ctx context.Context, businessUnit string) (*pipeline.AnalysisResult, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT result_json FROM benchmark_analysis WHERE business_unit = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, businessUnit).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no analysis found for business unit %s", businessUnit)
		}
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}

	var result pipeline.AnalysisResult
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis result: %w", err)
	}
	return &result, nil
}
