package watchlist

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/s0up4200/cloudmovies/tmdb"
)

// Repository persists watchlist entries
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository on an opened database
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert adds e unless it already exists, in which case its metadata is
// refreshed and the original AddedAt kept. It reports whether e was new.
func (r *Repository) Insert(ctx context.Context, e Entry) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO entries(media_type, media_id, title, year, rating, overview, added_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(media_type, media_id) DO NOTHING;
	`, string(e.MediaType), e.MediaID, e.Title, e.Year, e.Rating, e.Overview, e.AddedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}

	_, err = r.db.ExecContext(ctx, `
	UPDATE entries SET title = ?, year = ?, rating = ?, overview = ?
	WHERE media_type = ? AND media_id = ?;
	`, e.Title, e.Year, e.Rating, e.Overview, string(e.MediaType), e.MediaID)
	return false, err
}

// Delete removes an entry and reports whether it existed
func (r *Repository) Delete(ctx context.Context, mediaType tmdb.MediaType, mediaID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE media_type = ? AND media_id = ?`, string(mediaType), mediaID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Exists reports whether an entry is stored
func (r *Repository) Exists(ctx context.Context, mediaType tmdb.MediaType, mediaID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM entries WHERE media_type = ? AND media_id = ?`, string(mediaType), mediaID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// List returns entries newest first; an empty media type lists everything
func (r *Repository) List(ctx context.Context, mediaType tmdb.MediaType) ([]Entry, error) {
	query := `SELECT media_type, media_id, title, year, rating, overview, added_at FROM entries`
	var args []any
	if mediaType != "" {
		query += ` WHERE media_type = ?`
		args = append(args, string(mediaType))
	}
	query += ` ORDER BY added_at DESC, title`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var mt string
		if err := rows.Scan(&mt, &e.MediaID, &e.Title, &e.Year, &e.Rating, &e.Overview, &e.AddedAt); err != nil {
			return nil, err
		}
		e.MediaType = tmdb.MediaType(mt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecentSearches stores the last queries per media type
type RecentSearches struct {
	db    *sql.DB
	limit int
}

// DefaultRecentLimit is the number of queries kept per media type
const DefaultRecentLimit = 10

// NewRecentSearches creates a recent search store keeping limit queries
func NewRecentSearches(db *sql.DB, limit int) *RecentSearches {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RecentSearches{db: db, limit: limit}
}

// Record stores query as the most recent search for mediaType
func (r *RecentSearches) Record(ctx context.Context, mediaType tmdb.MediaType, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO recent_searches(media_type, query, searched_at) VALUES (?, ?, ?)
	ON CONFLICT(media_type, query) DO UPDATE SET searched_at = excluded.searched_at;
	`, string(mediaType), query, time.Now().UTC()); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
	DELETE FROM recent_searches WHERE media_type = ? AND query NOT IN (
		SELECT query FROM recent_searches WHERE media_type = ? ORDER BY searched_at DESC LIMIT ?
	);
	`, string(mediaType), string(mediaType), r.limit); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns recent queries for mediaType, most recent first
func (r *RecentSearches) List(ctx context.Context, mediaType tmdb.MediaType) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT query FROM recent_searches WHERE media_type = ? ORDER BY searched_at DESC LIMIT ?
	`, string(mediaType), r.limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
