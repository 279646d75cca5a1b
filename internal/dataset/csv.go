package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/regbench/landmark.report/internal/landmark"
)

// DefaultColumns are the canonical coordinate column labels of landmark
// CSV files.
var DefaultColumns = [2]string{"X", "Y"}

// LoadLandmarks reads a landmark CSV in the annotation layout: a header
// with an unnamed index column followed by exactly two coordinate
// columns, one row per landmark. Files with a different number of
// coordinate columns fail with ErrDimensionMismatch.
func LoadLandmarks(path string) (landmark.PointSet, error) {
	ps, _, err := loadLandmarks(path)
	return ps, err
}

// LoadLandmarksScaled reads a landmark CSV annotated at the given scale
// percentage and divides every coordinate by scale/100, so sets placed
// on different pyramid levels line up in full-resolution coordinates.
func LoadLandmarksScaled(path string, scale int) (landmark.PointSet, error) {
	ps, _, err := loadLandmarks(path)
	if err != nil {
		return nil, err
	}
	factor := float64(scale) / 100
	for i := range ps {
		ps[i].X /= factor
		ps[i].Y /= factor
	}
	return ps, nil
}

// Columns reports the coordinate column labels of a landmark CSV.
func Columns(path string) ([2]string, error) {
	_, cols, err := loadLandmarks(path)
	return cols, err
}

func loadLandmarks(path string) (landmark.PointSet, [2]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, [2]string{}, fmt.Errorf("open landmarks: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, [2]string{}, fmt.Errorf("read landmarks %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, [2]string{}, fmt.Errorf("read landmarks %s: %w", path, landmark.ErrInvalidInput)
	}

	header := records[0]
	if len(header) != 3 {
		return nil, [2]string{}, fmt.Errorf("read landmarks %s: got %d coordinate columns: %w",
			path, len(header)-1, landmark.ErrDimensionMismatch)
	}
	cols := [2]string{header[1], header[2]}

	ps := make(landmark.PointSet, 0, len(records)-1)
	for i, rec := range records[1:] {
		x, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, cols, fmt.Errorf("read landmarks %s row %d: %w", path, i, err)
		}
		y, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, cols, fmt.Errorf("read landmarks %s row %d: %w", path, i, err)
		}
		ps = append(ps, landmark.Point{X: x, Y: y})
	}
	return ps, cols, nil
}

// SaveLandmarks writes a point set in the annotation CSV layout with the
// given coordinate column labels.
func SaveLandmarks(path string, ps landmark.PointSet, cols [2]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create landmarks: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"", cols[0], cols[1]}); err != nil {
		return err
	}
	for i, p := range ps {
		rec := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write landmarks %s: %w", path, err)
	}
	return nil
}
