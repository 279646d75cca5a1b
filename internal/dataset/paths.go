// Package dataset implements the on-disk conventions of annotation
// trees: per-annotator folders named user-<name>_scale-<N>pc holding one
// landmark CSV per image, grouped under per-scale dataset folders. It
// turns those trees into the point sets consumed by the landmark engine.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// ScaleDirTemplate names the per-scale image folder for a given scale
// percentage.
const ScaleDirTemplate = "scale-%dpc"

// Scales are the image pyramid scales the annotation campaigns use.
var Scales = []int{5, 10, 25, 50, 100}

var (
	reUserScale = regexp.MustCompile(`^user-(.\S+)_scale-(\d+)pc`)
	reScale     = regexp.MustCompile(`^\S*scale-(\d+)pc`)
)

// ParseUserScale extracts the annotator name and scale percentage from a
// folder named like "user-JB_scale-50pc". ok is false when the base name
// does not follow the convention.
func ParseUserScale(path string) (user string, scale int, ok bool) {
	m := reUserScale.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", 0, false
	}
	scale, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], scale, true
}

// ParseScale extracts the scale percentage from a folder named like
// "scale-10pc" or "user-JB_scale-50pc".
func ParseScale(path string) (int, bool) {
	m := reScale.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	scale, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return scale, true
}

// ScaleDirs ties one landmarks directory to the matching dataset image
// directory and the output directory results should land in.
type ScaleDirs struct {
	Landmarks string
	Images    string
	Output    string
}

// CollectScaleDirs descends from the given landmark roots down to the
// level of per-scale folders, pairing each with its image and output
// directories. A directory whose name does not encode a scale is
// searched one level deeper instead.
func CollectScaleDirs(roots []string, datasetDir, outDir string) ([]ScaleDirs, error) {
	var dirs []ScaleDirs
	for _, root := range roots {
		scaleName := filepath.Base(root)
		setName := filepath.Base(filepath.Dir(root))

		scale, ok := ParseScale(scaleName)
		if !ok {
			subs, err := Subdirs(root)
			if err != nil {
				return nil, err
			}
			nested, err := CollectScaleDirs(subs, datasetDir, outDir)
			if err != nil {
				return nil, err
			}
			dirs = append(dirs, nested...)
			continue
		}

		dirs = append(dirs, ScaleDirs{
			Landmarks: root,
			Images:    filepath.Join(datasetDir, setName, fmt.Sprintf(ScaleDirTemplate, scale)),
			Output:    filepath.Join(outDir, setName, scaleName),
		})
	}
	return dirs, nil
}

// Subdirs lists the immediate subdirectories of dir in sorted order.
func Subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var subs []string
	for _, e := range entries {
		if e.IsDir() {
			subs = append(subs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(subs)
	return subs, nil
}
