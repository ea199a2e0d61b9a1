// Package store keeps a SQLite history of rendered models.
//
// Every fitted model is saved with its exported weights, so a past fit can be
// rebuilt with Restore and evaluated again without refitting.
package store

import (
	"context"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/YuminosukeSato/curvefit/core/model"
	"github.com/YuminosukeSato/curvefit/curve"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/session"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("fit record not found")

// Record is one saved model.
type Record struct {
	ID        int64
	CreatedAt time.Time
	Equation  string
	Title     string
	Status    string
	Label     string
	// R2 is nil when it was undefined.
	R2 *float64
	// Weights is nil for failed models.
	Weights *model.ModelWeights
	Error   string
}

// Store is the fit history database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the database at path, creating its directory.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(err, "create database directory")
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// SQLite は書き込みを 1 接続に限る
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: path, now: time.Now}
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "enable WAL mode")
	}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create tables")
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		equation TEXT NOT NULL,
		title TEXT,
		status TEXT NOT NULL,
		label TEXT,
		r2 REAL,
		weights_json TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_fits_equation ON fits(equation);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Save stores every outcome in one transaction and returns their ids.
func (s *Store) Save(ctx context.Context, outs []session.Outcome) (ids []int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, o := range outs {
		id, err := s.insert(ctx, tx, o)
		if err != nil {
			return nil, errors.Wrapf(err, "save model %d", o.Index)
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return ids, nil
}

func (s *Store) insert(ctx context.Context, tx *sql.Tx, o session.Outcome) (int64, error) {
	var (
		weights sql.NullString
		r2      sql.NullFloat64
		label   sql.NullString
		errText sql.NullString
	)
	if o.Err != nil {
		errText = sql.NullString{String: o.Err.Error(), Valid: true}
	} else if o.Regressor != nil {
		mw, err := o.Regressor.ExportWeights()
		if err != nil {
			return 0, err
		}
		data, err := mw.ToJSON()
		if err != nil {
			return 0, err
		}
		weights = sql.NullString{String: string(data), Valid: true}
		label = sql.NullString{String: o.Label.Text, Valid: true}
		if !math.IsNaN(o.R2) && !math.IsInf(o.R2, 0) {
			r2 = sql.NullFloat64{Float64: o.R2, Valid: true}
		}
	}

	res, err := tx.ExecContext(ctx, `
	INSERT INTO fits (created_at, equation, title, status, label, r2, weights_json, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.now().UTC().Format(time.RFC3339Nano),
		o.Graph.Equation,
		o.Graph.Title,
		string(o.Status),
		label,
		r2,
		weights,
		errText,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const selectFits = `
	SELECT id, created_at, equation, title, status, label, r2, weights_json, error
	FROM fits
	`

// List returns the latest records, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := selectFits + " ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list fits")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectFits+" WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Restore rebuilds the fitted regressor of a record.
func Restore(rec *Record, opts ...curve.Option) (*curve.Regressor, error) {
	if rec.Weights == nil {
		return nil, errors.NewValueError("store.Restore", "record has no weights: "+rec.Status)
	}
	return curve.FromWeights(rec.Weights, opts...)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec       Record
		createdAt string
		title     sql.NullString
		label     sql.NullString
		r2        sql.NullFloat64
		weights   sql.NullString
		errText   sql.NullString
	)
	if err := sc.Scan(&rec.ID, &createdAt, &rec.Equation, &title, &rec.Status, &label, &r2, &weights, &errText); err != nil {
		return rec, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return rec, errors.Wrapf(err, "record %d: created_at", rec.ID)
	}
	rec.CreatedAt = t
	rec.Title = title.String
	rec.Label = label.String
	rec.Error = errText.String
	if r2.Valid {
		v := r2.Float64
		rec.R2 = &v
	}
	if weights.Valid {
		mw := &model.ModelWeights{}
		if err := mw.FromJSON([]byte(weights.String)); err != nil {
			return rec, errors.Wrapf(err, "record %d: weights", rec.ID)
		}
		rec.Weights = mw
	}
	return rec, nil
}
