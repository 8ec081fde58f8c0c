package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/lognorm/lognorm/pkg/iterator"
	"github.com/lognorm/lognorm/pkg/record"
	_ "modernc.org/sqlite"
)

var storeSchema = []string{
	`CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tags TEXT NOT NULL DEFAULT '',
	data TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_records_tags ON records (tags)`,
}

// Store persists normalized records in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) a record store at the given path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, stmt := range storeSchema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &Store{db: db}, nil
}

// Sink inserts every record from the iterator.
// In case of an error, the iterator is drained to prevent upstream blocking.
func (s *Store) Sink(ctx context.Context, iter iterator.Iterator) error {
	stmt, err := s.db.PrepareContext(ctx, `INSERT INTO records (tags, data) VALUES (?, ?)`)
	if err != nil {
		iterator.Drain(iter)
		return err
	}
	defer func() {
		_ = stmt.Close()
	}()
	err = iter.Iterate(func(rec record.Record, _ int) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx, strings.Join(rec.Tags(), ","), string(data))
		return err
	})
	if err != nil {
		iterator.Drain(iter)
		return err
	}
	return nil
}

// Count returns the number of stored records, optionally filtered by exact tag set.
func (s *Store) Count(ctx context.Context, tags string) (int64, error) {
	var (
		row *sql.Row
	)
	if tags == "" {
		row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`)
	} else {
		row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE tags = ?`, tags)
	}
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
