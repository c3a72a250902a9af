package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/voice2ticket/internal/domain"
)

// TranscriptionJobRepository is the job queue shared with the speech-to-text
// engine. The engine moves jobs to COMPLETED and fills transcript_uri.
type TranscriptionJobRepository interface {
	Start(ctx context.Context, job *domain.TranscriptionJob) error
	List(ctx context.Context, status domain.JobStatus) ([]domain.TranscriptionJobSummary, error)
	Get(ctx context.Context, name string) (*domain.TranscriptionJob, error)
	Delete(ctx context.Context, name string) error
}

type transcriptionJobRepository struct {
	pool *pgxpool.Pool
}

// NewTranscriptionJobRepository builds repository.
func NewTranscriptionJobRepository(pool *pgxpool.Pool) TranscriptionJobRepository {
	return &transcriptionJobRepository{pool: pool}
}

func (r *transcriptionJobRepository) Start(ctx context.Context, job *domain.TranscriptionJob) error {
	const query = `
        INSERT INTO transcription_jobs (job_name, status, media_uri, media_format, language_code,
            output_bucket, output_key, settings, requester_name, requester_contact)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at`
	if job.Status == "" {
		job.Status = domain.JobStatusQueued
	}
	return r.pool.QueryRow(ctx, query,
		job.Name,
		job.Status,
		job.MediaURI,
		job.MediaFormat,
		job.LanguageCode,
		job.OutputBucket,
		job.OutputKey,
		job.Settings,
		job.Requester.Name,
		job.Requester.Contact,
	).Scan(&job.CreatedAt)
}

func (r *transcriptionJobRepository) List(ctx context.Context, status domain.JobStatus) ([]domain.TranscriptionJobSummary, error) {
	const query = `
        SELECT job_name, status, created_at, completed_at
        FROM transcription_jobs WHERE status=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TranscriptionJobSummary
	for rows.Next() {
		var summary domain.TranscriptionJobSummary
		if err := rows.Scan(&summary.Name, &summary.Status, &summary.CreatedAt, &summary.CompletedAt); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

func (r *transcriptionJobRepository) Get(ctx context.Context, name string) (*domain.TranscriptionJob, error) {
	const query = `
        SELECT job_name, status, media_uri, media_format, language_code, output_bucket, output_key,
               transcript_uri, settings, requester_name, requester_contact, created_at, completed_at
        FROM transcription_jobs WHERE job_name=$1`
	var job domain.TranscriptionJob
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&job.Name,
		&job.Status,
		&job.MediaURI,
		&job.MediaFormat,
		&job.LanguageCode,
		&job.OutputBucket,
		&job.OutputKey,
		&job.TranscriptURI,
		&job.Settings,
		&job.Requester.Name,
		&job.Requester.Contact,
		&job.CreatedAt,
		&job.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *transcriptionJobRepository) Delete(ctx context.Context, name string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM transcription_jobs WHERE job_name=$1`, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
