/*
Package storage
File: sqlite_db.go
Description:
    Named save slots in a local SQLite database. Each slot holds one encoded
    world document plus enough metadata to list saves without decoding them.
*/

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrSlotNotFound is returned by Get and Delete for an empty slot.
var ErrSlotNotFound = errors.New("save slot not found")

// SaveInfo describes a stored save.
type SaveInfo struct {
	Slot    string    `json:"slot"`
	WorldID string    `json:"world_id"`
	Day     uint32    `json:"day"`
	Hour    uint32    `json:"hour"`
	SavedAt time.Time `json:"saved_at"`
}

// SaveRecord is a stored save with its document.
type SaveRecord struct {
	SaveInfo
	Data []byte `json:"-"`
}

// SaveStore reads and writes save slots.
type SaveStore struct {
	db  *sql.DB
	sq  squirrel.StatementBuilderType
	now func() time.Time
}

// InitSQLite opens (creating if needed) the database at dbPath and makes
// sure the schema exists. ":memory:" gives a private in-memory database.
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection: an in-memory database is per-connection, and SQLite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			world_id TEXT NOT NULL,
			day INTEGER NOT NULL DEFAULT 0,
			hour INTEGER NOT NULL DEFAULT 0,
			data BLOB NOT NULL,
			saved_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_world_id ON saves(world_id);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// NewSaveStore wraps an initialised database.
func NewSaveStore(db *sql.DB) *SaveStore {
	return &SaveStore{
		db:  db,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		now: time.Now,
	}
}

// Open is InitSQLite followed by NewSaveStore.
func Open(dbPath string) (*SaveStore, error) {
	db, err := InitSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	return NewSaveStore(db), nil
}

// Close closes the database.
func (s *SaveStore) Close() error {
	return s.db.Close()
}

// Put writes data into slot, replacing what was there.
func (s *SaveStore) Put(ctx context.Context, info SaveInfo, data []byte) (SaveInfo, error) {
	if info.Slot == "" {
		return info, fmt.Errorf("put save: empty slot name")
	}
	info.SavedAt = s.now().UTC().Truncate(time.Second)

	query, args, err := s.sq.Insert("saves").
		Options("OR REPLACE").
		Columns("slot", "world_id", "day", "hour", "data", "saved_at").
		Values(info.Slot, info.WorldID, info.Day, info.Hour, data, info.SavedAt.Unix()).
		ToSql()
	if err != nil {
		return info, fmt.Errorf("build save insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return info, fmt.Errorf("write save %q: %w", info.Slot, err)
	}
	return info, nil
}

// Get reads a slot.
func (s *SaveStore) Get(ctx context.Context, slot string) (SaveRecord, error) {
	query, args, err := s.sq.Select("slot", "world_id", "day", "hour", "saved_at", "data").
		From("saves").
		Where(squirrel.Eq{"slot": slot}).
		ToSql()
	if err != nil {
		return SaveRecord{}, fmt.Errorf("build save select: %w", err)
	}

	var rec SaveRecord
	var savedAt int64
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&rec.Slot, &rec.WorldID, &rec.Day, &rec.Hour, &savedAt, &rec.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return SaveRecord{}, fmt.Errorf("slot %q: %w", slot, ErrSlotNotFound)
	}
	if err != nil {
		return SaveRecord{}, fmt.Errorf("read save %q: %w", slot, err)
	}
	rec.SavedAt = time.Unix(savedAt, 0).UTC()
	return rec, nil
}

// List returns every slot, most recently saved first.
func (s *SaveStore) List(ctx context.Context) ([]SaveInfo, error) {
	query, args, err := s.sq.Select("slot", "world_id", "day", "hour", "saved_at").
		From("saves").
		OrderBy("saved_at DESC", "slot").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build save list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	infos := []SaveInfo{}
	for rows.Next() {
		var info SaveInfo
		var savedAt int64
		if err := rows.Scan(&info.Slot, &info.WorldID, &info.Day, &info.Hour, &savedAt); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		info.SavedAt = time.Unix(savedAt, 0).UTC()
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a slot.
func (s *SaveStore) Delete(ctx context.Context, slot string) error {
	query, args, err := s.sq.Delete("saves").Where(squirrel.Eq{"slot": slot}).ToSql()
	if err != nil {
		return fmt.Errorf("build save delete: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete save %q: %w", slot, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("slot %q: %w", slot, ErrSlotNotFound)
	}
	return nil
}
