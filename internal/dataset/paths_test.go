package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path  string
		user  string
		scale int
		ok    bool
	}{
		{"user-JB_scale-50pc", "JB", 50, true},
		{"sample/path/user-ck6_scale-25pc", "ck6", 25, true},
		{"user-KO_scale-.5pc", "", 0, false},
		{"scale-50pc", "", 0, false},
		{"user-_scale-50pc", "", 0, false},
	}
	for _, tt := range tests {
		user, scale, ok := ParseUserScale(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.user, user, tt.path)
		assert.Equal(t, tt.scale, scale, tt.path)
	}
}

func TestParseScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path  string
		scale int
		ok    bool
	}{
		{"scale-10pc", 10, true},
		{"user-JB_scale-50pc", 50, true},
		{"some/tree/scale-100pc", 100, true},
		{"scale-.1pc", 0, false},
		{"landmarks", 0, false},
	}
	for _, tt := range tests {
		scale, ok := ParseScale(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.scale, scale, tt.path)
	}
}

func TestCollectScaleDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	annot := filepath.Join(root, "annotations")
	for _, dir := range []string{
		filepath.Join(annot, "lung-lesion_1", "scale-10pc"),
		filepath.Join(annot, "lung-lesion_1", "scale-50pc"),
		filepath.Join(annot, "mammary_2", "scale-25pc"),
	} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}

	dirs, err := CollectScaleDirs([]string{annot}, filepath.Join(root, "dataset"), filepath.Join(root, "output"))
	require.NoError(t, err)
	require.Len(t, dirs, 3)

	first := dirs[0]
	assert.Equal(t, filepath.Join(annot, "lung-lesion_1", "scale-10pc"), first.Landmarks)
	assert.Equal(t, filepath.Join(root, "dataset", "lung-lesion_1", "scale-10pc"), first.Images)
	assert.Equal(t, filepath.Join(root, "output", "lung-lesion_1", "scale-10pc"), first.Output)

	assert.Equal(t, filepath.Join(annot, "mammary_2", "scale-25pc"), dirs[2].Landmarks)
}

func TestCollectScaleDirsAcceptsScaleLevelRoots(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	lnds := filepath.Join(root, "annotations", "lung-lesion_1", "scale-100pc")
	require.NoError(t, os.MkdirAll(lnds, 0755))

	dirs, err := CollectScaleDirs([]string{lnds}, "dataset", "output")
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	assert.Equal(t, lnds, dirs[0].Landmarks)
	assert.Equal(t, filepath.Join("dataset", "lung-lesion_1", "scale-100pc"), dirs[0].Images)
}
