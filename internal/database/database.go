package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	conn *sql.DB
	path string
	fts  bool
}

func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Path() string {
	return db.path
}

// FTS reports whether the articles_fts full text index is available.
func (db *DB) FTS() bool {
	return db.fts
}

func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

func (db *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY,
		tag TEXT NOT NULL UNIQUE,
		feed_url TEXT NOT NULL,
		last_fetched DATETIME,
		active BOOLEAN DEFAULT TRUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY,
		arxiv_id TEXT NOT NULL UNIQUE,
		category_id INTEGER REFERENCES categories(id),
		url TEXT,
		title TEXT NOT NULL,
		abstract TEXT,
		authors TEXT NOT NULL DEFAULT '[]',
		categories TEXT NOT NULL DEFAULT '[]',
		published_at DATETIME,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS article_views (
		id INTEGER PRIMARY KEY,
		user_id TEXT NOT NULL,
		article_id INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS article_likes (
		id INTEGER PRIMARY KEY,
		user_id TEXT NOT NULL,
		article_id INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, article_id)
	);

	CREATE TABLE IF NOT EXISTS preferences (
		user_id TEXT PRIMARY KEY,
		categories TEXT NOT NULL DEFAULT '{}',
		authors TEXT NOT NULL DEFAULT '{}',
		keywords TEXT NOT NULL DEFAULT '[]',
		weight_category REAL NOT NULL,
		weight_author REAL NOT NULL,
		weight_keyword REAL NOT NULL,
		weight_content REAL NOT NULL,
		adapted_at DATETIME,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scores (
		user_id TEXT NOT NULL,
		article_id INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		score REAL NOT NULL CHECK (score >= 0 AND score <= 1),
		reasons TEXT NOT NULL DEFAULT '[]',
		scored_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, article_id)
	);

	CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category_id);
	CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);
	CREATE INDEX IF NOT EXISTS idx_views_user ON article_views(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_likes_user ON article_likes(user_id);
	CREATE INDEX IF NOT EXISTS idx_scores_user ON scores(user_id, score DESC);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}

	// FTS5 is only compiled into go-sqlite3 with the sqlite_fts5 build tag.
	_, err := db.conn.Exec(ftsSchema)
	switch {
	case err == nil:
		db.fts = true
	case strings.Contains(err.Error(), "no such module"):
		db.fts = false
	default:
		return err
	}
	return nil
}

const ftsSchema = `
	CREATE VIRTUAL TABLE IF NOT EXISTS articles_fts USING fts5(
		title,
		abstract
	);

	CREATE TRIGGER IF NOT EXISTS articles_ai AFTER INSERT ON articles BEGIN
		INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.id, new.title, COALESCE(new.abstract, ''));
	END;

	CREATE TRIGGER IF NOT EXISTS articles_ad AFTER DELETE ON articles BEGIN
		DELETE FROM articles_fts WHERE rowid = old.id;
	END;

	CREATE TRIGGER IF NOT EXISTS articles_au AFTER UPDATE ON articles BEGIN
		DELETE FROM articles_fts WHERE rowid = old.id;
		INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.id, new.title, COALESCE(new.abstract, ''));
	END;
`
