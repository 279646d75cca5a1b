package dataset

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/regbench/landmark.report/internal/landmark"
)

// ConsensusByImage groups same-named landmark CSVs across the given
// annotator directories, rescales each to 100% coordinates, and fuses
// them with the consensus aggregator. The counts map records how many
// annotators contributed per image. With equalSize set, every consensus
// set is cut to the shortest one so downstream pairing sees a uniform
// cardinality across images.
//
// Directories whose names do not encode an annotator and scale are
// skipped rather than treated as errors; annotation trees routinely
// contain stray folders.
func ConsensusByImage(annotDirs []string, equalSize bool) (map[string]landmark.PointSet, map[string]int, error) {
	groups := make(map[string][]landmark.PointSet)
	for _, dir := range annotDirs {
		_, scale, ok := ParseUserScale(dir)
		if !ok {
			continue
		}
		files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
		if err != nil {
			return nil, nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		sort.Strings(files)
		for _, f := range files {
			ps, err := LoadLandmarksScaled(f, scale)
			if err != nil {
				return nil, nil, err
			}
			name := filepath.Base(f)
			groups[name] = append(groups[name], ps)
		}
	}

	sets := make(map[string]landmark.PointSet, len(groups))
	counts := make(map[string]int, len(groups))
	for name, g := range groups {
		fused, err := landmark.Consensus(g)
		if err != nil {
			return nil, nil, fmt.Errorf("consensus for %s: %w", name, err)
		}
		sets[name] = fused
		counts[name] = len(g)
	}

	if equalSize && len(sets) > 0 {
		minLen := -1
		for _, ps := range sets {
			if minLen < 0 || len(ps) < minLen {
				minLen = len(ps)
			}
		}
		for name, ps := range sets {
			sets[name] = ps[:minLen]
		}
	}

	return sets, counts, nil
}
