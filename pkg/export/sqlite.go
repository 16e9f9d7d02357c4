package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/trendscope/pkg/model"
	"github.com/vanderheijden86/trendscope/pkg/version"
)

// SchemaVersion is recorded in the meta table of every snapshot.
const SchemaVersion = 1

// SQLiteExporter writes a loaded payload to a standalone SQLite file.
type SQLiteExporter struct {
	Payload model.Payload
	Source  string // where the payload came from, recorded in meta
}

// NewSQLiteExporter creates an exporter for p.
func NewSQLiteExporter(p model.Payload, source string) *SQLiteExporter {
	return &SQLiteExporter{Payload: p, Source: source}
}

// Export replaces any existing database at path with a fresh snapshot.
func (e *SQLiteExporter) Export(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	dbClosed := false
	defer func() {
		if !dbClosed {
			db.Close()
		}
	}()

	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := e.insertTopics(db); err != nil {
		return fmt.Errorf("insert topics: %w", err)
	}
	if err := e.insertClusters(db); err != nil {
		return fmt.Errorf("insert clusters: %w", err)
	}
	if err := e.insertDocuments(db); err != nil {
		return fmt.Errorf("insert documents: %w", err)
	}
	if err := e.insertMeta(db); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	dbClosed = true
	return nil
}

// CreateSchema creates the snapshot tables.
func CreateSchema(db *sql.DB) error {
	stmts := []struct{ name, sql string }{
		{"topics", `
			CREATE TABLE IF NOT EXISTS topics (
				topic TEXT PRIMARY KEY,
				position INTEGER NOT NULL,
				growth_rate REAL NOT NULL,
				total_mentions INTEGER NOT NULL
			)`},
		{"points", `
			CREATE TABLE IF NOT EXISTS points (
				topic TEXT NOT NULL REFERENCES topics(topic),
				month TEXT NOT NULL,
				mentions INTEGER NOT NULL,
				forecast INTEGER NOT NULL,
				PRIMARY KEY (topic, month, forecast)
			)`},
		{"clusters", `
			CREATE TABLE IF NOT EXISTS clusters (
				cluster_id INTEGER PRIMARY KEY,
				label TEXT NOT NULL,
				size INTEGER NOT NULL,
				keywords TEXT NOT NULL
			)`},
		{"documents", `
			CREATE TABLE IF NOT EXISTS documents (
				id TEXT PRIMARY KEY,
				source TEXT,
				title TEXT,
				text TEXT,
				technology TEXT,
				date TEXT
			)`},
		{"meta", `
			CREATE TABLE IF NOT EXISTS meta (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`},
		{"documents_source_idx", `CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source)`},
	}
	for _, s := range stmts {
		if _, err := db.Exec(s.sql); err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}

func (e *SQLiteExporter) insertTopics(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	topicStmt, err := tx.Prepare(`INSERT INTO topics (topic, position, growth_rate, total_mentions) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer topicStmt.Close()
	pointStmt, err := tx.Prepare(`INSERT INTO points (topic, month, mentions, forecast) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer pointStmt.Close()

	for i, topic := range e.Payload.Trends.Topics() {
		t, _ := e.Payload.Trends.Get(topic)
		if _, err := topicStmt.Exec(topic, i, t.GrowthRate, t.TotalMentions()); err != nil {
			return fmt.Errorf("topic %q: %w", topic, err)
		}
		for _, p := range t.Historical {
			if _, err := pointStmt.Exec(topic, p.Month, p.Mentions, 0); err != nil {
				return fmt.Errorf("point %q %s: %w", topic, p.Month, err)
			}
		}
		for _, p := range t.Forecast {
			if _, err := pointStmt.Exec(topic, p.Month, p.Mentions, 1); err != nil {
				return fmt.Errorf("forecast %q %s: %w", topic, p.Month, err)
			}
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertClusters(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO clusters (cluster_id, label, size, keywords) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range e.Payload.Clusters {
		keywords := []string{}
		if len(c.Keywords) > 0 {
			keywords = c.Keywords
		}
		kw, err := json.Marshal(keywords)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(c.ClusterID, c.Label, c.Size, string(kw)); err != nil {
			return fmt.Errorf("cluster %d: %w", c.ClusterID, err)
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertDocuments(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Duplicate IDs keep the first occurrence.
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO documents (id, source, title, text, technology, date) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range e.Payload.Documents {
		if _, err := stmt.Exec(d.ID, d.Source, d.Title, d.Text, d.Technology, d.Date); err != nil {
			return fmt.Errorf("document %s: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertMeta(db *sql.DB) error {
	loadedAt := e.Payload.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now()
	}
	meta := map[string]string{
		"schema_version": fmt.Sprintf("%d", SchemaVersion),
		"generator":      "trendscope " + strings.TrimSpace(version.Version),
		"exported_at":    time.Now().UTC().Format(time.RFC3339),
		"loaded_at":      loadedAt.UTC().Format(time.RFC3339),
		"source":         e.Source,
		"total_topics":   fmt.Sprintf("%d", e.Payload.Summary.TotalTopics),
		"total_mentions": fmt.Sprintf("%d", e.Payload.Summary.TotalMentions),
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for k, v := range meta {
		if _, err := stmt.Exec(k, v); err != nil {
			return fmt.Errorf("meta %s: %w", k, err)
		}
	}
	return tx.Commit()
}
