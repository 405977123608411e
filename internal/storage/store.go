// Package storage archives flights to a single-file SQLite database:
// one session row per flight plus one row per telemetry sample, read
// back through an iterator in recorded order.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/flightdatalab/uav-flight-analysis/internal/telemetry"
)

// Store handles flight archive database operations. Connections are
// opened lazily: a writable one with WAL enabled and a read-only one.
type Store struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a store for the given database path. The schema is
// initialized on first write.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *Store) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateSession records a new flight session and returns its ID.
// Config may be a string, raw bytes or any JSON-marshalable value
// holding the analysis parameters used for the run.
func (s *Store) CreateSession(ctx context.Context, source string, config any) (sessionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch v := config.(type) {
		case string:
			configData.Valid = true
			configData.String = v

		case []byte:
			configData.Valid = true
			configData.String = string(v)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, source, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	return result.LastInsertId()
}

// Session returns a session by its ID.
func (s *Store) Session(ctx context.Context, id int64) (*Session, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var data sessionData
	if err = db.QueryRowContext(ctx, selectSessionSQL, id).
		Scan(&id, &data.StartTime, &data.Source, &data.Config); err != nil {
		return nil, fmt.Errorf("selecting session %d: %w", id, err)
	}

	session := Session{
		ID:        id,
		StartTime: data.StartTime,
		Source:    data.Source,
	}
	if data.Config.Valid {
		session.Config = &data.Config.String
	}
	return &session, nil
}

// WriteSamples archives a whole sequence under the given session in a
// single transaction, preserving sample order.
func (s *Store) WriteSamples(ctx context.Context, sessionID int64, seq telemetry.Sequence) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertSampleSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for i, sample := range seq {
		if _, err = stmt.ExecContext(ctx, sessionID, sample.Timestamp.UTC(),
			sample.Latitude, sample.Longitude, sample.Altitude,
			sample.Velocity, sample.Battery); err != nil {
			return fmt.Errorf("inserting sample %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ReadSamples returns an iterator over the session's samples in the
// order they were archived.
func (s *Store) ReadSamples(ctx context.Context, sessionID int64) (*SampleIterator, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectSamplesSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("selecting samples for session %d: %w", sessionID, err)
	}

	return &SampleIterator{rows: rows}, nil
}

// ReadSequence reads a whole archived flight back into memory.
func (s *Store) ReadSequence(ctx context.Context, sessionID int64) (telemetry.Sequence, error) {
	iter, err := s.ReadSamples(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var seq telemetry.Sequence
	for iter.Next() {
		seq = append(seq, iter.Current())
	}
	if err = iter.Error(); err != nil {
		return nil, fmt.Errorf("reading samples for session %d: %w", sessionID, err)
	}
	return seq, nil
}

// Close releases both database connections. Safe to call multiple
// times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.writeDB != nil {
			s.closeErr = s.writeDB.Close()
		}
		if s.readDB != nil {
			if err := s.readDB.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})
	return s.closeErr
}
