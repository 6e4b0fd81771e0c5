package database

import (
	"fmt"
	"time"
)

// ClaimRepository handles records for user-submitted claim checks.
type ClaimRepository struct {
	db *DB
}

func NewClaimRepository(db *DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Insert(c ClaimCheck) error {
	if c.CheckedAt.IsZero() {
		c.CheckedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO claim_checks
		(claim, verdict, confidence, explanation, claim_type, client_ip, is_fake, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.Claim, c.Verdict, c.Confidence, c.Explanation, c.ClaimType,
		c.ClientIP, c.IsFake, c.CheckedAt)
	if err != nil {
		return fmt.Errorf("failed to insert claim check: %w", err)
	}
	return nil
}

// Recent returns the latest claim checks, newest first.
func (r *ClaimRepository) Recent(limit int) ([]ClaimCheck, error) {
	rows, err := r.db.Query(`
		SELECT id, claim, verdict, confidence, COALESCE(explanation, ''),
		       COALESCE(claim_type, ''), COALESCE(client_ip, ''), is_fake, checked_at
		FROM claim_checks
		ORDER BY checked_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim checks: %w", err)
	}
	defer rows.Close()

	var checks []ClaimCheck
	for rows.Next() {
		var c ClaimCheck
		err := rows.Scan(&c.ID, &c.Claim, &c.Verdict, &c.Confidence,
			&c.Explanation, &c.ClaimType, &c.ClientIP, &c.IsFake, &c.CheckedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim check row: %w", err)
		}
		checks = append(checks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating claim check rows: %w", err)
	}

	return checks, nil
}
