package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Статусы job в журнале.
const (
	JobStatusRunning   = "RUNNING"
	JobStatusSucceeded = "SUCCEEDED"
	JobStatusEmpty     = "EMPTY" // завершился без продуктов
)

// JobRecord — запись журнала об одном запуске CSPP.
type JobRecord struct {
	ID            uuid.UUID
	Service       string
	Platform      string
	Sensor        string
	OrbitNumber   int64
	SDRCount      int
	ArtifactCount int
	Status        string
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// JobRepo — журнал запусков в Postgres.
//
// Журнал опциональный: runner работает и без БД (nil-репозиторий),
// записи нужны только для операционной видимости (wildfire-cli jobs).
type JobRepo struct {
	pool *pgxpool.Pool
}

// NewJobRepo создаёт новый JobRepo.
func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

// Create записывает начало job.
func (r *JobRepo) Create(ctx context.Context, rec *JobRecord) error {
	query := `
		INSERT INTO af_jobs (id, service, platform, sensor, orbit_number, sdr_count, artifact_count, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.Service,
		rec.Platform,
		rec.Sensor,
		rec.OrbitNumber,
		rec.SDRCount,
		rec.ArtifactCount,
		rec.Status,
		rec.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Finish записывает завершение job.
func (r *JobRepo) Finish(ctx context.Context, id uuid.UUID, artifactCount int, status string, finishedAt time.Time) error {
	query := `
		UPDATE af_jobs
		SET artifact_count = $2, status = $3, finished_at = $4
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, id, artifactCount, status, finishedAt)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListRecent возвращает последние jobs, новые первыми.
func (r *JobRepo) ListRecent(ctx context.Context, limit int) ([]JobRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, service, platform, sensor, orbit_number, sdr_count, artifact_count, status, started_at, finished_at
		FROM af_jobs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var records []JobRecord
	for rows.Next() {
		var rec JobRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Service,
			&rec.Platform,
			&rec.Sensor,
			&rec.OrbitNumber,
			&rec.SDRCount,
			&rec.ArtifactCount,
			&rec.Status,
			&rec.StartedAt,
			&rec.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID возвращает запись по ID.
func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*JobRecord, error) {
	query := `
		SELECT id, service, platform, sensor, orbit_number, sdr_count, artifact_count, status, started_at, finished_at
		FROM af_jobs
		WHERE id = $1
	`
	var rec JobRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.Service,
		&rec.Platform,
		&rec.Sensor,
		&rec.OrbitNumber,
		&rec.SDRCount,
		&rec.ArtifactCount,
		&rec.Status,
		&rec.StartedAt,
		&rec.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &rec, nil
}
