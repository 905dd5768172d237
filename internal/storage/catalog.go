package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Catalog — sqlite-каталог сыгранных сессий: что, когда, каким сидом и
// чем кончилось. Движку каталог не нужен, это сервисная книга учета
// для отладочных ручек и инструментов.
type Catalog struct {
	db *sql.DB
}

// SessionRecord — строка каталога.
type SessionRecord struct {
	ID         string
	Stage      string
	Seed       int64
	CreatedAt  int64
	Ticks      int64
	Outcome    string
	ReplayPath string
}

const catalogSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	stage       TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	ticks       INTEGER NOT NULL DEFAULT 0,
	outcome     TEXT NOT NULL DEFAULT '',
	replay_path TEXT NOT NULL DEFAULT ''
);
`

// OpenCatalog открывает (и при необходимости создает) каталог по пути.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog open: %w", err)
	}
	// Один цикл симуляции — один писатель; sqlite этого достаточно.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close закрывает базу.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// CreateSession регистрирует новую сессию.
func (c *Catalog) CreateSession(id, stage string, seed int64, replayPath string) error {
	_, err := c.db.Exec(
		`INSERT INTO sessions (id, stage, seed, created_at, replay_path) VALUES (?, ?, ?, ?, ?)`,
		id, stage, seed, time.Now().Unix(), replayPath,
	)
	if err != nil {
		return fmt.Errorf("catalog insert: %w", err)
	}
	return nil
}

// FinishSession записывает итог сессии.
func (c *Catalog) FinishSession(id string, ticks int64, outcome string) error {
	_, err := c.db.Exec(
		`UPDATE sessions SET ticks = ?, outcome = ? WHERE id = ?`,
		ticks, outcome, id,
	)
	if err != nil {
		return fmt.Errorf("catalog finish: %w", err)
	}
	return nil
}

// Session возвращает строку каталога по ID.
func (c *Catalog) Session(id string) (SessionRecord, error) {
	var r SessionRecord
	err := c.db.QueryRow(
		`SELECT id, stage, seed, created_at, ticks, outcome, replay_path FROM sessions WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.Stage, &r.Seed, &r.CreatedAt, &r.Ticks, &r.Outcome, &r.ReplayPath)
	if err != nil {
		return r, fmt.Errorf("catalog select: %w", err)
	}
	return r, nil
}

// RecentSessions возвращает последние limit сессий, новые первыми.
func (c *Catalog) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := c.db.Query(
		`SELECT id, stage, seed, created_at, ticks, outcome, replay_path
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.ID, &r.Stage, &r.Seed, &r.CreatedAt, &r.Ticks, &r.Outcome, &r.ReplayPath); err != nil {
			return nil, fmt.Errorf("catalog scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
