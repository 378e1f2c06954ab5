package repository

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
)

// PostgresStorage implements Repository on a pgx connection pool
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage connects to Postgres and ensures the schema exists
func NewPostgresStorage(ctx context.Context, connStr string) (Repository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, oops.With("context", "unable to connect to database").Wrap(err)
	}

	s := &PostgresStorage{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStorage) initSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS image_analyses (
		id TEXT PRIMARY KEY,
		image_url TEXT NOT NULL,
		post_id TEXT,
		subreddit TEXT,
		flagged BOOLEAN NOT NULL,
		analysis JSONB NOT NULL,
		analyzed_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return oops.With("context", "failed to init schema").Wrap(err)
	}
	return nil
}

func (s *PostgresStorage) SaveImageAnalysis(ctx context.Context, record *domain.ImageAnalysisRecord) error {
	analysis, err := json.Marshal(record.Analysis)
	if err != nil {
		return oops.With("record_id", record.ID).Wrap(err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO image_analyses (id, image_url, post_id, subreddit, flagged, analysis, analyzed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		record.ID, record.ImageURL, record.PostID, record.Subreddit,
		record.Analysis.Flags.Any(), analysis, record.AnalyzedAt)
	if err != nil {
		return oops.With("record_id", record.ID, "context", "failed to save analysis record").Wrap(err)
	}
	return nil
}

func (s *PostgresStorage) ListImageAnalyses(ctx context.Context, filter Filter, limit int) ([]*domain.ImageAnalysisRecord, error) {
	query := `SELECT id, image_url, post_id, subreddit, analysis, analyzed_at FROM image_analyses WHERE 1=1`
	args := []any{}

	if filter.PostID != "" {
		args = append(args, filter.PostID)
		query += ` AND post_id = $` + strconv.Itoa(len(args))
	}
	if filter.Subreddit != "" {
		args = append(args, filter.Subreddit)
		query += ` AND subreddit = $` + strconv.Itoa(len(args))
	}
	if filter.FlaggedOnly {
		query += ` AND flagged`
	}

	query += ` ORDER BY analyzed_at DESC`
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.With("context", "failed to query analysis history").Wrap(err)
	}
	defer rows.Close()

	var records []*domain.ImageAnalysisRecord
	for rows.Next() {
		var record domain.ImageAnalysisRecord
		var analysis []byte
		if err := rows.Scan(&record.ID, &record.ImageURL, &record.PostID, &record.Subreddit, &analysis, &record.AnalyzedAt); err != nil {
			return nil, oops.Wrap(err)
		}
		if err := json.Unmarshal(analysis, &record.Analysis); err != nil {
			continue
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}
