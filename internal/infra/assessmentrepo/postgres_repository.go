package assessmentrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/stroke-risk/internal/domain/assessment"
)

// PostgresRepository implements assessment.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a completed assessment.
func (r *PostgresRepository) Insert(ctx context.Context, record assessment.Assessment) error {
	request, err := json.Marshal(record.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	report, err := json.Marshal(record.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO assessments (id, request, prediction, risk_level, confidence, source, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, record.ID.String(), string(request), record.Result.Prediction, record.Result.RiskLevel,
		record.Result.Confidence, record.Source, string(report), record.CreatedAt)
	return err
}

// Get fetches a single assessment by id.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (assessment.Assessment, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, request, prediction, risk_level, confidence, source, report, created_at
		FROM assessments
		WHERE id = $1
		LIMIT 1
	`, id.String())
	if err != nil {
		return assessment.Assessment{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return assessment.Assessment{}, false, rows.Err()
	}
	record, err := scanAssessment(rows)
	if err != nil {
		return assessment.Assessment{}, false, err
	}
	return record, true, rows.Err()
}

// Recent lists the newest assessments.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]assessment.Assessment, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, request, prediction, risk_level, confidence, source, report, created_at
		FROM assessments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []assessment.Assessment
	for rows.Next() {
		record, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (assessment.Assessment, error) {
	var (
		record  assessment.Assessment
		rawID   string
		request []byte
		report  []byte
	)
	if err := row.Scan(
		&rawID,
		&request,
		&record.Result.Prediction,
		&record.Result.RiskLevel,
		&record.Result.Confidence,
		&record.Source,
		&report,
		&record.CreatedAt,
	); err != nil {
		return assessment.Assessment{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return assessment.Assessment{}, fmt.Errorf("parse id: %w", err)
	}
	record.ID = id
	if err := json.Unmarshal(request, &record.Request); err != nil {
		return assessment.Assessment{}, fmt.Errorf("decode request: %w", err)
	}
	if len(report) > 0 {
		if err := json.Unmarshal(report, &record.Report); err != nil {
			return assessment.Assessment{}, fmt.Errorf("decode report: %w", err)
		}
	}
	record.CreatedAt = record.CreatedAt.UTC()
	return record, nil
}

var _ assessment.Repository = (*PostgresRepository)(nil)
