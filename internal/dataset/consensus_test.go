package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regbench/landmark.report/internal/landmark"
)

func TestConsensusByImage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	userA := filepath.Join(root, "user-JB_scale-100pc")
	userB := filepath.Join(root, "user-ck6_scale-50pc")
	stray := filepath.Join(root, "notes")
	for _, dir := range []string{userA, userB, stray} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}

	// Annotator A at full resolution, annotator B at half resolution:
	// after rescaling both describe the same coordinates, so the
	// consensus must average point-for-point in 100% space.
	writeCSV(t, userA, "img_1.csv", ",X,Y\n0,10,20\n1,30,40\n2,50,60\n")
	writeCSV(t, userB, "img_1.csv", ",X,Y\n0,10,10\n1,20,25\n")
	writeCSV(t, userA, "img_2.csv", ",X,Y\n0,8,8\n")
	writeCSV(t, stray, "img_1.csv", "not,a,landmark\nfile,0,0\n")

	sets, counts, err := ConsensusByImage([]string{userA, userB, stray}, false)
	require.NoError(t, err)

	require.Len(t, sets, 2)
	assert.Equal(t, 2, counts["img_1.csv"])
	assert.Equal(t, 1, counts["img_2.csv"])

	// user B's (10,10) rescales to (20,20); mean with (10,20) is (15,20).
	img1 := sets["img_1.csv"]
	require.Len(t, img1, 3)
	assert.InDelta(t, 15, img1[0].X, 1e-9)
	assert.InDelta(t, 20, img1[0].Y, 1e-9)
	assert.InDelta(t, 35, img1[1].X, 1e-9)
	assert.InDelta(t, 45, img1[1].Y, 1e-9)
	// Only user A covers the trailing point.
	assert.Equal(t, landmark.Point{X: 50, Y: 60}, img1[2])
}

func TestConsensusByImageEqualSize(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	user := filepath.Join(root, "user-JB_scale-100pc")
	require.NoError(t, os.MkdirAll(user, 0755))

	writeCSV(t, user, "long.csv", ",X,Y\n0,1,1\n1,2,2\n2,3,3\n")
	writeCSV(t, user, "short.csv", ",X,Y\n0,5,5\n1,6,6\n")

	sets, _, err := ConsensusByImage([]string{user}, true)
	require.NoError(t, err)
	assert.Len(t, sets["long.csv"], 2)
	assert.Len(t, sets["short.csv"], 2)
}

func TestConsensusByImageNoAnnotations(t *testing.T) {
	t.Parallel()

	sets, counts, err := ConsensusByImage([]string{t.TempDir()}, true)
	require.NoError(t, err)
	assert.Empty(t, sets)
	assert.Empty(t, counts)
}
