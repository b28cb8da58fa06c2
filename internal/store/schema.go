package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

const schemaVersion = 2

// migrations[i] upgrades the schema from version i to i+1.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ideas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL,
			solved INTEGER NOT NULL DEFAULT 0,
			kind TEXT NOT NULL DEFAULT 'issue',
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ideas_created ON ideas(created_at_unixms);`,
	},
	{
		`CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			idea_id INTEGER NOT NULL REFERENCES ideas(id),
			author TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_idea ON comments(idea_id, created_at_unixms);`,
	},
}

// migrate brings db up to schemaVersion and returns the database id.
func migrate(ctx context.Context, db *sql.DB) (string, error) {
	if _, err := db.ExecContext(ctx, migrations[0][0]); err != nil {
		return "", err
	}
	cur, err := currentVersion(ctx, db)
	if err != nil {
		return "", err
	}
	if cur > schemaVersion {
		return "", fmt.Errorf("database schema v%d is newer than supported v%d", cur, schemaVersion)
	}
	for v := cur; v < schemaVersion; v++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return "", err
		}
		for _, st := range migrations[v] {
			if _, err := tx.ExecContext(ctx, st); err != nil {
				_ = tx.Rollback()
				return "", fmt.Errorf("migrate to v%d: %w", v+1, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES('schema_version', ?)`, strconv.Itoa(v+1)); err != nil {
			_ = tx.Rollback()
			return "", err
		}
		if err := tx.Commit(); err != nil {
			return "", err
		}
	}
	return ensureDatabaseID(ctx, db)
}

func currentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'schema_version'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("bad schema_version %q: %w", v, err)
	}
	return n, nil
}

func ensureDatabaseID(ctx context.Context, db *sql.DB) (string, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'database_id'`).Scan(&v)
	if err == nil && v != "" {
		return v, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES('database_id', ?)`, id); err != nil {
		return "", err
	}
	return id, nil
}
