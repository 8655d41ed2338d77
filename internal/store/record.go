package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Record represents a completed analysis stored in the database. The
// full result document is kept as JSON; a few fields are denormalized
// for listing and querying.
type Record struct {
	ID              string
	BestIdx         int
	BestTone        string
	RuleID          string
	DarkCircleScore float64
	DarkCircleType  string
	ResultJSON      string
	CreatedAt       time.Time
}

// RecordRepository provides CRUD operations for analysis records.
type RecordRepository struct {
	db *sql.DB
}

// Records returns the record repository for this store.
func (s *Store) Records() *RecordRepository {
	return &RecordRepository{db: s.db}
}

// Create inserts a new analysis record. A fresh ID is assigned when the
// record has none.
func (r *RecordRepository) Create(rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO analysis_records
		 (id, best_idx, best_tone, rule_id, dark_circle_score, dark_circle_type, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.BestIdx, rec.BestTone, rec.RuleID,
		rec.DarkCircleScore, rec.DarkCircleType, rec.ResultJSON, rec.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves an analysis record by its ID.
func (r *RecordRepository) GetByID(id string) (*Record, error) {
	rec := &Record{}

	err := r.db.QueryRow(
		`SELECT id, best_idx, best_tone, rule_id, dark_circle_score, dark_circle_type, result_json, created_at
		 FROM analysis_records WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.BestIdx, &rec.BestTone, &rec.RuleID,
		&rec.DarkCircleScore, &rec.DarkCircleType, &rec.ResultJSON, &rec.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

// List returns analysis records newest first, up to limit. A limit of
// zero or less returns everything.
func (r *RecordRepository) List(limit int) ([]*Record, error) {
	query := `SELECT id, best_idx, best_tone, rule_id, dark_circle_score, dark_circle_type, result_json, created_at
	          FROM analysis_records ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec := &Record{}
		if err := rows.Scan(&rec.ID, &rec.BestIdx, &rec.BestTone, &rec.RuleID,
			&rec.DarkCircleScore, &rec.DarkCircleType, &rec.ResultJSON, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Delete removes an analysis record by its ID.
func (r *RecordRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM analysis_records WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
