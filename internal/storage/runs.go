package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hoanghai1803/cfeditorial/internal/models"
)

// RecordRun inserts a pipeline run and returns its row ID.
func (s *Store) RecordRun(ctx context.Context, run *models.RunRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pipeline_runs
			(run_id, problem, url, tutorial_url, cached, error, ai_model, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Problem, run.URL, run.TutorialURL, run.Cached,
		run.Error, run.AIModel, run.DurationMS,
	)
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting run id: %w", err)
	}
	return id, nil
}

// RecentRuns returns the most recent pipeline runs, newest first, limited
// to limit rows.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, problem, url, tutorial_url, cached, error,
				ai_model, duration_ms, created_at
		 FROM pipeline_runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunRecord
	for rows.Next() {
		var (
			run         models.RunRecord
			tutorialURL sql.NullString
			runErr      sql.NullString
			aiModel     sql.NullString
			createdAt   string
		)
		if err := rows.Scan(
			&run.ID, &run.RunID, &run.Problem, &run.URL, &tutorialURL,
			&run.Cached, &runErr, &aiModel, &run.DurationMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		run.TutorialURL = nullString(tutorialURL)
		run.Error = nullString(runErr)
		run.AIModel = nullString(aiModel)
		run.CreatedAt = parseTime(createdAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}
	return runs, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
