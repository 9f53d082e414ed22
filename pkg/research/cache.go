// Package research implements the knowledge-base research pipeline: gather
// findings from the tracked repository and web sources, synthesize them
// through the connector chain, and append the result to the knowledge base.
package research

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	// SQLite driver for the response cache.
	_ "modernc.org/sqlite"

	"browseroskb/pkg/logx"
)

// Cache stores model responses keyed by prompt hash so repeated pipeline
// runs do not re-query for identical prompts. Every failure degrades to a
// cache miss; the cache never blocks a research run.
type Cache struct {
	db  *sql.DB
	log *logx.Logger
}

const cacheSchema = `
	CREATE TABLE IF NOT EXISTS responses (
		prompt_hash TEXT PRIMARY KEY,
		response    TEXT NOT NULL,
		model       TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL
	)`

// OpenCache opens or creates the response cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_busy_timeout=5000", path,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Cache{db: db, log: logx.NewLogger("cache")}, nil
}

// Get returns the cached response for a prompt. Any database error is
// logged and reported as a miss.
func (c *Cache) Get(prompt string) (string, bool) {
	if c == nil || c.db == nil {
		return "", false
	}

	var response string
	err := c.db.QueryRow(
		"SELECT response FROM responses WHERE prompt_hash = ?", hashPrompt(prompt),
	).Scan(&response)
	if err != nil {
		if err != sql.ErrNoRows {
			c.log.Warn("cache lookup failed, treating as miss: %v", err)
		}
		return "", false
	}
	return response, true
}

// Put stores a response for a prompt, replacing any earlier entry.
// Failures are logged and swallowed.
func (c *Cache) Put(prompt, response, model string) {
	if c == nil || c.db == nil {
		return
	}

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO responses (prompt_hash, response, model, created_at) VALUES (?, ?, ?, ?)",
		hashPrompt(prompt), response, model, time.Now().UTC(),
	)
	if err != nil {
		c.log.Warn("failed to store cache entry: %v", err)
	}
}

// Clear drops every cached response.
func (c *Cache) Clear() error {
	if c == nil || c.db == nil {
		return nil
	}
	if _, err := c.db.Exec("DELETE FROM responses"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func hashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
