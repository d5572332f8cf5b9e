package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite opens the local SQLite database and creates the game
// document schema.
func InitSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

func createSchema(db *sql.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS games (
		game_id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	_, err := db.Exec(schema)
	return err
}

// SQLiteGameRepository implements GameRepository for SQLite.
type SQLiteGameRepository struct {
	db *sql.DB
}

func NewSQLiteGameRepository(db *sql.DB) *SQLiteGameRepository {
	return &SQLiteGameRepository{db: db}
}

func (r *SQLiteGameRepository) Save(ctx context.Context, doc GameDocument) error {
	query := `
		INSERT INTO games (game_id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, doc.GameID, string(doc.State), doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save game %s: %w", doc.GameID, err)
	}
	return nil
}

func (r *SQLiteGameRepository) Get(ctx context.Context, gameID string) (*GameDocument, error) {
	row := r.db.QueryRowContext(ctx, `SELECT game_id, state, updated_at FROM games WHERE game_id = ?`, gameID)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", gameID, err)
	}
	return doc, nil
}

func (r *SQLiteGameRepository) List(ctx context.Context) ([]GameDocument, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT game_id, state, updated_at FROM games ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var docs []GameDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (r *SQLiteGameRepository) Delete(ctx context.Context, gameID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE game_id = ?`, gameID)
	if err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*GameDocument, error) {
	var doc GameDocument
	var state string
	var updated time.Time
	if err := s.Scan(&doc.GameID, &state, &updated); err != nil {
		return nil, err
	}
	doc.State = []byte(state)
	doc.UpdatedAt = updated
	return &doc, nil
}
