package database

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// ArticleRepository handles database operations for collected articles
type ArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// HashURL returns the indexed URL fingerprint used for existence checks.
func HashURL(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Insert stores a collected article. Returns false when the URL already
// exists; any other failure is a real error and aborts the batch.
func (r *ArticleRepository) Insert(a CollectedArticle) (bool, error) {
	if a.CollectedAt.IsZero() {
		a.CollectedAt = time.Now().UTC()
	}
	if a.URLHash == "" {
		a.URLHash = HashURL(a.URL)
	}

	res, err := r.db.Exec(`
		INSERT INTO collected_articles (
			headline, description, source, url, published_at,
			verdict, confidence, explanation, impacts,
			url_hash, content_hash, collected_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`, a.Headline, a.Description, a.Source, a.URL, a.PublishedAt,
		a.Verdict, a.Confidence, a.Explanation, nullIfEmpty(a.Impacts),
		a.URLHash, a.ContentHash, a.CollectedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

// URLExists reports whether an article with this URL is already stored.
func (r *ArticleRepository) URLExists(url string) (bool, error) {
	var one int
	err := r.db.QueryRow(`
		SELECT 1 FROM collected_articles WHERE url_hash = ? OR url = ? LIMIT 1
	`, HashURL(url), url).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check url existence: %w", err)
	}
	return true, nil
}

// ContentHashExists reports whether the content fingerprint is already
// stored. Catches the same story republished under a different URL.
func (r *ArticleRepository) ContentHashExists(hash string) (bool, error) {
	var one int
	err := r.db.QueryRow(`
		SELECT 1 FROM collected_articles WHERE content_hash = ? LIMIT 1
	`, hash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check content hash existence: %w", err)
	}
	return true, nil
}

// GetRecent returns the most recently collected articles, newest first.
func (r *ArticleRepository) GetRecent(limit int) ([]CollectedArticle, error) {
	rows, err := r.db.Query(`
		SELECT id, headline, COALESCE(description, ''), COALESCE(source, ''),
		       url, COALESCE(published_at, ''), verdict, confidence,
		       COALESCE(explanation, ''), COALESCE(impacts, ''),
		       url_hash, content_hash, collected_at
		FROM collected_articles
		ORDER BY collected_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent articles: %w", err)
	}
	defer rows.Close()

	var articles []CollectedArticle
	for rows.Next() {
		var a CollectedArticle
		err := rows.Scan(
			&a.ID, &a.Headline, &a.Description, &a.Source,
			&a.URL, &a.PublishedAt, &a.Verdict, &a.Confidence,
			&a.Explanation, &a.Impacts, &a.URLHash, &a.ContentHash,
			&a.CollectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// NewestCollectedAt returns the collection timestamp of the newest article,
// or nil when the store is empty.
func (r *ArticleRepository) NewestCollectedAt() (*time.Time, error) {
	var ts time.Time
	err := r.db.QueryRow(`
		SELECT collected_at FROM collected_articles
		ORDER BY collected_at DESC LIMIT 1
	`).Scan(&ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get newest article timestamp: %w", err)
	}
	return &ts, nil
}

// Count returns the total number of collected articles.
func (r *ArticleRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM collected_articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes articles collected strictly more than the given
// number of days ago and returns the number of rows deleted.
func (r *ArticleRepository) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	res, err := r.db.Exec(`
		DELETE FROM collected_articles WHERE collected_at < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old articles: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return deleted, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
