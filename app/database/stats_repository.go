package database

import (
	"database/sql"
	"fmt"
	"time"
)

// StatsRepository handles the append-only collection_runs table. Rows are
// never updated after insert.
type StatsRepository struct {
	db *DB
}

func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// InsertRun records the totals of one collection batch.
func (r *StatsRepository) InsertRun(fetched, stored, duplicates, fake int) error {
	_, err := r.db.Exec(`
		INSERT INTO collection_runs
		(run_at, articles_fetched, articles_stored, duplicates_skipped, fake_detected)
		VALUES (?, ?, ?, ?, ?)
	`, time.Now().UTC(), fetched, stored, duplicates, fake)
	if err != nil {
		return fmt.Errorf("failed to insert collection run: %w", err)
	}
	return nil
}

// Latest returns the most recent collection run, or nil when none exist.
func (r *StatsRepository) Latest() (*CollectionRun, error) {
	var run CollectionRun
	err := r.db.QueryRow(`
		SELECT id, run_at, articles_fetched, articles_stored, duplicates_skipped, fake_detected
		FROM collection_runs
		ORDER BY run_at DESC, id DESC LIMIT 1
	`).Scan(&run.ID, &run.RunAt, &run.ArticlesFetched, &run.ArticlesStored,
		&run.DuplicatesSkipped, &run.FakeDetected)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest collection run: %w", err)
	}
	return &run, nil
}

// Recent returns the latest collection runs, newest first.
func (r *StatsRepository) Recent(limit int) ([]CollectionRun, error) {
	rows, err := r.db.Query(`
		SELECT id, run_at, articles_fetched, articles_stored, duplicates_skipped, fake_detected
		FROM collection_runs
		ORDER BY run_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection runs: %w", err)
	}
	defer rows.Close()

	var runs []CollectionRun
	for rows.Next() {
		var run CollectionRun
		err := rows.Scan(&run.ID, &run.RunAt, &run.ArticlesFetched,
			&run.ArticlesStored, &run.DuplicatesSkipped, &run.FakeDetected)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection run rows: %w", err)
	}

	return runs, nil
}
