package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/manimatic/manimatic/core"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		prompt TEXT NOT NULL,
		success INTEGER NOT NULL,
		class_name TEXT DEFAULT '',
		video_path TEXT DEFAULT '',
		error TEXT DEFAULT '',
		total_tokens INTEGER DEFAULT 0,
		total_cost_usd REAL DEFAULT 0,
		data TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(prompt string, result *core.Result) (*RunRecord, error) {
	record := &RunRecord{
		ID:           uuid.New().String(),
		Prompt:       prompt,
		Success:      result.Success,
		ClassName:    result.ClassName,
		VideoPath:    result.VideoPath,
		Error:        result.Error,
		TotalTokens:  result.TokenUsage.TotalInputTokens + result.TokenUsage.TotalOutputTokens,
		TotalCostUSD: result.TokenUsage.TotalCostUSD,
		CreatedAt:    time.Now().UTC(),
		Result:       result,
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (id, prompt, success, class_name, video_path, error, total_tokens, total_cost_usd, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Prompt, record.Success, record.ClassName, record.VideoPath,
		record.Error, record.TotalTokens, record.TotalCostUSD, string(data), record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return record, nil
}

func (s *SQLiteStore) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, prompt, success, class_name, video_path, error, total_tokens, total_cost_usd, data, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var data string
		if err := rows.Scan(&record.ID, &record.Prompt, &record.Success, &record.ClassName,
			&record.VideoPath, &record.Error, &record.TotalTokens, &record.TotalCostUSD,
			&data, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		var result core.Result
		if err := json.Unmarshal([]byte(data), &result); err == nil {
			record.Result = &result
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
