package inkpress

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/eringen/inkpress/content"
)

// Store wraps a SQLite database holding the index of validated posts.
type Store struct {
	db *sql.DB
}

var postColumns = []string{
	"slug", "path", "title", "description", "pub_date", "updated_date",
	"cover_image", "cover_image_credit", "category", "body", "modified",
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the site read while a reload rewrites the index; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// schemaVersion is bumped whenever the posts table changes shape. The index
// is derived from the content directory, so an older table is dropped.
const schemaVersion = 2

func (s *Store) ensureSchema() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	if version != schemaVersion {
		if _, err := s.db.Exec(`DROP TABLE IF EXISTS posts`); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    pub_date INTEGER NOT NULL,
    updated_date INTEGER,
    cover_image TEXT,
    cover_image_credit TEXT,
    category TEXT NOT NULL,
    body TEXT NOT NULL,
    modified INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_category_pub_date ON posts (category, pub_date);
`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion))
	return err
}

// ReplacePosts swaps the whole index for posts in one transaction.
func (s *Store) ReplacePosts(ctx context.Context, posts []content.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return fmt.Errorf("clear posts: %w", err)
	}
	for _, p := range posts {
		query, args, err := sq.Insert("posts").
			Columns(postColumns...).
			Values(
				p.Slug, p.Path, p.Meta.Title, p.Meta.Description,
				formatTime(p.Meta.PubDate), nullTime(p.Meta.UpdatedDate),
				nullString(p.Meta.CoverImage), nullString(p.Meta.CoverImageCredit),
				string(p.Meta.Category), p.Body, formatTime(p.ModifiedTime),
			).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns posts newest first. If category is non-empty, results
// are filtered to that category.
func (s *Store) ListPosts(ctx context.Context, category content.Category) ([]content.Post, error) {
	q := sq.Select(postColumns...).From("posts").OrderBy("pub_date DESC", "slug")
	if category != "" {
		q = q.Where(sq.Eq{"category": string(category)})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a single post by slug, or ErrNotFound.
func (s *Store) GetPost(ctx context.Context, slug string) (content.Post, error) {
	query, args, err := sq.Select(postColumns...).From("posts").Where(sq.Eq{"slug": slug}).ToSql()
	if err != nil {
		return content.Post{}, err
	}
	return scanPost(s.db.QueryRowContext(ctx, query, args...))
}

// ListCategories returns the categories that have at least one post, in
// declaration order.
func (s *Store) ListCategories(ctx context.Context) ([]content.Category, error) {
	query, args, err := sq.Select("DISTINCT category").From("posts").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	used := make(map[content.Category]bool)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		used[content.Category(c)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []content.Category
	for _, c := range content.Categories {
		if used[c] {
			result = append(result, c)
		}
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (content.Post, error) {
	var (
		p                      content.Post
		pubDate, modified int64
		category          string
		updated           sql.NullInt64
		cover, credit     sql.NullString
	)
	err := row.Scan(&p.Slug, &p.Path, &p.Meta.Title, &p.Meta.Description,
		&pubDate, &updated, &cover, &credit, &category, &p.Body, &modified)
	if err != nil {
		return content.Post{}, err
	}
	p.Meta.Category = content.Category(category)
	p.Meta.PubDate = parseTime(pubDate)
	p.ModifiedTime = parseTime(modified)
	if updated.Valid {
		t := parseTime(updated.Int64)
		p.Meta.UpdatedDate = &t
	}
	if cover.Valid {
		p.Meta.CoverImage = &cover.String
	}
	if credit.Valid {
		p.Meta.CoverImageCredit = &credit.String
	}
	return p, nil
}

// Times are stored as Unix milliseconds so any date the validator accepts
// round-trips and numeric order is chronological order.
func formatTime(t time.Time) int64 {
	return t.UnixMilli()
}

func parseTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: formatTime(*t), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
