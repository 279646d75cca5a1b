package db

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/regbench/landmark.report/internal/landmark"
)

// StatsRecord is one persisted statistics row comparing a sensed
// landmark set against its reference for a given image, annotator and
// scale.
type StatsRecord struct {
	RecordID  string `json:"record_id"`
	RunID     string `json:"run_id"`
	SetName   string `json:"set_name"`
	ImageName string `json:"image_name"`
	User      string `json:"user_name"`
	Scale     int    `json:"scale"`
	UseAffine bool   `json:"use_affine"`

	Count         int     `json:"count"`
	Mean          float64 `json:"mean"`
	Std           float64 `json:"std"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Median        float64 `json:"median"`
	ImageWidth    float64 `json:"image_width"`
	ImageHeight   float64 `json:"image_height"`
	ImageDiagonal float64 `json:"image_diagonal"`

	CreatedAt int64 `json:"created_at"`
}

// FillStats copies a computed statistics value into the record.
func (r *StatsRecord) FillStats(st landmark.Stats) {
	r.Count = st.Count
	r.Mean = st.Mean
	r.Std = st.Std
	r.Min = st.Min
	r.Max = st.Max
	r.Median = st.Median
	r.ImageWidth = st.ImageSize[0]
	r.ImageHeight = st.ImageSize[1]
	r.ImageDiagonal = st.ImageDiagonal
}

// StatsStore provides persistence for landmark statistics records.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore creates a StatsStore over an open database.
func NewStatsStore(db *DB) *StatsStore {
	return &StatsStore{db: db.DB}
}

// Insert persists a record. An empty RecordID gets a generated UUID and
// a zero CreatedAt the current time. A NaN Std (single-point residual
// vector) is stored as NULL.
func (s *StatsStore) Insert(rec *StatsRecord) error {
	if rec.RecordID == "" {
		rec.RecordID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().UnixNano()
	}

	var std interface{}
	if !math.IsNaN(rec.Std) {
		std = rec.Std
	}

	_, err := s.db.Exec(`
		INSERT INTO landmark_stats (
			record_id, run_id, set_name, image_name, user_name, scale,
			use_affine, point_count, mean_error, std_error, min_error,
			max_error, median_error, image_width, image_height,
			image_diagonal, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RecordID, rec.RunID, rec.SetName, rec.ImageName, rec.User, rec.Scale,
		rec.UseAffine, rec.Count, rec.Mean, std, rec.Min,
		rec.Max, rec.Median, rec.ImageWidth, rec.ImageHeight,
		rec.ImageDiagonal, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stats record: %w", err)
	}
	return nil
}

// ListByRun returns all records of one run, most recent first.
func (s *StatsStore) ListByRun(runID string) ([]*StatsRecord, error) {
	return s.list(`
		SELECT record_id, run_id, set_name, image_name, user_name, scale,
		       use_affine, point_count, mean_error, std_error, min_error,
		       max_error, median_error, image_width, image_height,
		       image_diagonal, created_at
		FROM landmark_stats
		WHERE run_id = ?
		ORDER BY created_at DESC`, runID)
}

// ListByImage returns all records for one image of a set across runs,
// most recent first.
func (s *StatsStore) ListByImage(setName, imageName string) ([]*StatsRecord, error) {
	return s.list(`
		SELECT record_id, run_id, set_name, image_name, user_name, scale,
		       use_affine, point_count, mean_error, std_error, min_error,
		       max_error, median_error, image_width, image_height,
		       image_diagonal, created_at
		FROM landmark_stats
		WHERE set_name = ? AND image_name = ?
		ORDER BY created_at DESC`, setName, imageName)
}

func (s *StatsStore) list(query string, args ...interface{}) ([]*StatsRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stats records: %w", err)
	}
	defer rows.Close()

	var recs []*StatsRecord
	for rows.Next() {
		rec := &StatsRecord{}
		var std sql.NullFloat64
		if err := rows.Scan(
			&rec.RecordID, &rec.RunID, &rec.SetName, &rec.ImageName, &rec.User, &rec.Scale,
			&rec.UseAffine, &rec.Count, &rec.Mean, &std, &rec.Min,
			&rec.Max, &rec.Median, &rec.ImageWidth, &rec.ImageHeight,
			&rec.ImageDiagonal, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stats record: %w", err)
		}
		if std.Valid {
			rec.Std = std.Float64
		} else {
			rec.Std = math.NaN()
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
