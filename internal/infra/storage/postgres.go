package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"
)

// InitPostgres opens a PostgreSQL connection pool and creates the game
// document schema. Used when several server replicas share one store.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS games (
		game_id TEXT PRIMARY KEY,
		state JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create postgres schema: %w", err)
	}

	return db, nil
}

// PostgresGameRepository implements GameRepository using PostgreSQL.
type PostgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) *PostgresGameRepository {
	return &PostgresGameRepository{db: db}
}

func (r *PostgresGameRepository) Save(ctx context.Context, doc GameDocument) error {
	query := `
		INSERT INTO games (game_id, state, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (game_id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, doc.GameID, string(doc.State), doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save game %s: %w", doc.GameID, err)
	}
	return nil
}

func (r *PostgresGameRepository) Get(ctx context.Context, gameID string) (*GameDocument, error) {
	row := r.db.QueryRowContext(ctx, `SELECT game_id, state, updated_at FROM games WHERE game_id = $1`, gameID)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", gameID, err)
	}
	return doc, nil
}

func (r *PostgresGameRepository) List(ctx context.Context) ([]GameDocument, error) {
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

func (r *PostgresGameRepository) Delete(ctx context.Context, gameID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE game_id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	return nil
}
