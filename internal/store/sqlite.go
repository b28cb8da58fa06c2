package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ideabox/internal/board"
	"ideabox/internal/model"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLite stores ideas in a single database file.
type SQLite struct {
	db   *sql.DB
	path string
	id   string
	log  *zap.Logger
}

// OpenSQLite opens (creating if missing) the database at path and migrates
// it to the current schema.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	// modernc.org/sqlite driver name is "sqlite". Pragmas go in the DSN so
	// every pooled connection gets them.
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer; operations from concurrent drains queue up here.
	db.SetMaxOpenConns(1)

	id, err := migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	log.Debug("database opened", zap.String("path", path), zap.String("database_id", id))
	return &SQLite{db: db, path: path, id: id, log: log}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Path() string { return s.path }

// DatabaseID is a random id assigned when the database was created.
func (s *SQLite) DatabaseID() string { return s.id }

func unixMs(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().UnixMilli()
}

func fromUnixMs(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func (s *SQLite) Load(ctx context.Context) ([]board.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, author, solved, kind, created_at_unixms
		FROM ideas ORDER BY created_at_unixms ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []board.Record
	byID := map[int64]int{}
	for rows.Next() {
		var (
			it     model.Idea
			solved int
			kind   string
			ms     int64
		)
		if err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.Author, &solved, &kind, &ms); err != nil {
			return nil, err
		}
		it.Solved = solved != 0
		it.Kind = model.Kind(kind)
		it.CreatedAt = fromUnixMs(ms)
		byID[it.ID] = len(out)
		out = append(out, board.Record{Idea: it})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	comments, err := s.comments(ctx, `SELECT id, idea_id, author, content, created_at_unixms
		FROM comments ORDER BY created_at_unixms ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		i, ok := byID[c.IdeaID]
		if !ok {
			s.log.Warn("orphan comment", zap.Int64("comment", c.ID), zap.Int64("idea", c.IdeaID))
			continue
		}
		out[i].Comments = append(out[i].Comments, c)
	}
	return out, nil
}

// Comments lists the comments on one idea, oldest first.
func (s *SQLite) Comments(ctx context.Context, ideaID int64) ([]model.Comment, error) {
	return s.comments(ctx, `SELECT id, idea_id, author, content, created_at_unixms
		FROM comments WHERE idea_id = ? ORDER BY created_at_unixms ASC, id ASC`, ideaID)
}

func (s *SQLite) comments(ctx context.Context, q string, args ...any) ([]model.Comment, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var (
			c  model.Comment
			ms int64
		)
		if err := rows.Scan(&c.ID, &c.IdeaID, &c.Author, &c.Content, &ms); err != nil {
			return nil, err
		}
		c.CreatedAt = fromUnixMs(ms)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) InsertIdea(ctx context.Context, idea model.Idea) (int64, error) {
	if idea.Kind == "" {
		idea.Kind = model.KindIssue
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO ideas(title, description, author, solved, kind, created_at_unixms)
		VALUES(?, ?, ?, ?, ?, ?)`,
		idea.Title, idea.Description, idea.Author, boolInt(idea.Solved), string(idea.Kind), unixMs(idea.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert idea: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) UpdateIdea(ctx context.Context, idea model.Idea) error {
	res, err := s.db.ExecContext(ctx, `UPDATE ideas SET title = ?, description = ?, author = ?, solved = ?, kind = ?
		WHERE id = ?`,
		idea.Title, idea.Description, idea.Author, boolInt(idea.Solved), string(idea.Kind), idea.ID)
	if err != nil {
		return fmt.Errorf("update idea %d: %w", idea.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound("idea", idea.ID)
	}
	return nil
}

// DeleteIdea removes the comments first, then the idea. Deleting a missing
// idea is not an error.
func (s *SQLite) DeleteIdea(ctx context.Context, ideaID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE idea_id = ?`, ideaID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete comments of idea %d: %w", ideaID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ideas WHERE id = ?`, ideaID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete idea %d: %w", ideaID, err)
	}
	return tx.Commit()
}

func (s *SQLite) InsertComment(ctx context.Context, c model.Comment) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO comments(idea_id, author, content, created_at_unixms)
		VALUES(?, ?, ?, ?)`,
		c.IdeaID, c.Author, c.Content, unixMs(c.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert comment on idea %d: %w", c.IdeaID, err)
	}
	return res.LastInsertId()
}

// Backup writes a consistent copy of the database to dest.
func (s *SQLite) Backup(ctx context.Context, dest string) error {
	dest = filepath.Clean(strings.TrimSpace(dest))
	if dest == "" || dest == "." {
		return errors.New("backup: missing destination")
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup: %s already exists", dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	s.log.Info("database backed up", zap.String("to", dest))
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SchemaVersion reports the migration level recorded in the database.
func (s *SQLite) SchemaVersion(ctx context.Context) (int, error) {
	return currentVersion(ctx, s.db)
}

// LatestSchemaVersion is the version OpenSQLite migrates to.
func LatestSchemaVersion() int { return schemaVersion }
