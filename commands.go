package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/regbench/landmark.report/internal/config"
	"github.com/regbench/landmark.report/internal/dataset"
	"github.com/regbench/landmark.report/internal/db"
	"github.com/regbench/landmark.report/internal/figures"
	"github.com/regbench/landmark.report/internal/landmark"
)

// loadRunConfig reads the optional run-settings file named by the
// -config flag and reports which flags the user set explicitly, so file
// values only fill the gaps.
func loadRunConfig(fs *flag.FlagSet, path string) (*config.RunConfig, map[string]bool, error) {
	cfg := &config.RunConfig{}
	if path != "" {
		var err error
		cfg, err = config.LoadRunConfig(path)
		if err != nil {
			return nil, nil, err
		}
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return cfg, set, nil
}

// runConsensus builds consensus landmark sets for every dataset under
// the annotation root and writes them as 100%-scale CSV files.
func runConsensus(args []string) error {
	fs := flag.NewFlagSet("consensus", flag.ExitOnError)
	annotations := fs.String("annotations", "", "Annotation tree root (required)")
	out := fs.String("out", "output", "Output directory")
	equalSize := fs.Bool("equal-size", true, "Trim every consensus set to the shortest one")
	configPath := fs.String("config", "", "Optional JSON run-settings file")
	fs.Parse(args)

	if *annotations == "" {
		return fmt.Errorf("-annotations is required")
	}
	cfg, set, err := loadRunConfig(fs, *configPath)
	if err != nil {
		return err
	}
	if !set["out"] {
		*out = cfg.GetOut()
	}
	if !set["equal-size"] {
		*equalSize = cfg.GetEqualSize()
	}

	setDirs, err := dataset.Subdirs(*annotations)
	if err != nil {
		return err
	}

	for _, setDir := range setDirs {
		userDirs, err := dataset.Subdirs(setDir)
		if err != nil {
			return err
		}
		sets, counts, err := dataset.ConsensusByImage(userDirs, *equalSize)
		if err != nil {
			return err
		}
		if len(sets) == 0 {
			continue
		}

		setName := filepath.Base(setDir)
		outDir := filepath.Join(*out, setName, fmt.Sprintf(dataset.ScaleDirTemplate, 100))
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		names := make([]string, 0, len(sets))
		for name := range sets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cols := columnsForImage(userDirs, name)
			if err := dataset.SaveLandmarks(filepath.Join(outDir, name), sets[name], cols); err != nil {
				return err
			}
		}
		log.Printf("set %s: wrote %d consensus files (max %d annotators)", setName, len(names), maxCount(counts))
	}
	return nil
}

// columnsForImage reads the coordinate labels from the first annotator
// file carrying the image, so consensus output preserves them.
func columnsForImage(userDirs []string, image string) [2]string {
	for _, dir := range userDirs {
		if cols, err := dataset.Columns(filepath.Join(dir, image)); err == nil {
			return cols
		}
	}
	return dataset.DefaultColumns
}

func maxCount(counts map[string]int) int {
	m := 0
	for _, c := range counts {
		if c > m {
			m = c
		}
	}
	return m
}

// runStats compares every annotator's landmark files against the
// per-set consensus and reports residual-error statistics.
func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	annotations := fs.String("annotations", "", "Annotation tree root (required)")
	out := fs.String("out", "output", "Output directory")
	useAffine := fs.Bool("affine", false, "Compute statistics on affine-corrected residuals")
	dbPath := fs.String("db", "", "Optional SQLite database to record results in")
	renderFigures := fs.Bool("figures", false, "Render pair overlay figures")
	jobs := fs.Int("jobs", config.DefaultJobs(), "Number of parallel workers")
	configPath := fs.String("config", "", "Optional JSON run-settings file")
	fs.Parse(args)

	if *annotations == "" {
		return fmt.Errorf("-annotations is required")
	}
	cfg, set, err := loadRunConfig(fs, *configPath)
	if err != nil {
		return err
	}
	if !set["out"] {
		*out = cfg.GetOut()
	}
	if !set["affine"] {
		*useAffine = cfg.GetUseAffine()
	}
	if !set["db"] {
		*dbPath = cfg.GetDB()
	}
	if !set["figures"] {
		*renderFigures = cfg.GetFigures()
	}
	if !set["jobs"] {
		*jobs = cfg.GetJobs()
	}
	if *jobs < 1 {
		*jobs = 1
	}

	tasks, err := discoverStatsTasks(*annotations)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		log.Printf("no annotation pairs found under %s", *annotations)
		return nil
	}

	// Fan the comparisons out over a bounded worker pool. Every task is
	// a pure computation over its own inputs, so workers need no
	// coordination beyond the channels.
	taskc := make(chan statsTask)
	resultc := make(chan statsResult)

	var wg sync.WaitGroup
	for i := 0; i < *jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskc {
				resultc <- processStatsTask(task, *useAffine, *out, *renderFigures)
			}
		}()
	}
	go func() {
		for _, t := range tasks {
			taskc <- t
		}
		close(taskc)
	}()
	go func() {
		wg.Wait()
		close(resultc)
	}()

	var results []statsResult
	failed := 0
	for res := range resultc {
		if res.Err != nil {
			log.Printf("skip %s/%s by %s: %v", res.Task.SetName, res.Task.Image, res.Task.User, res.Err)
			failed++
			continue
		}
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i].Task, results[j].Task
		if a.SetName != b.SetName {
			return a.SetName < b.SetName
		}
		if a.Image != b.Image {
			return a.Image < b.Image
		}
		if a.User != b.User {
			return a.User < b.User
		}
		return a.Scale < b.Scale
	})

	if err := os.MkdirAll(*out, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	summaryPath := filepath.Join(*out, "stats.csv")
	if err := writeStatsCSV(summaryPath, results, *useAffine); err != nil {
		return err
	}

	if *dbPath != "" {
		runID := uuid.New().String()
		if err := storeStats(*dbPath, runID, results, *useAffine); err != nil {
			return err
		}
		log.Printf("recorded run %s in %s", runID, *dbPath)
	}

	log.Printf("computed %d comparisons (%d skipped), summary in %s", len(results), failed, summaryPath)
	return nil
}

// discoverStatsTasks walks the annotation tree and pairs every
// annotator file with the consensus of its dataset.
func discoverStatsTasks(annotRoot string) ([]statsTask, error) {
	setDirs, err := dataset.Subdirs(annotRoot)
	if err != nil {
		return nil, err
	}

	var tasks []statsTask
	for _, setDir := range setDirs {
		userDirs, err := dataset.Subdirs(setDir)
		if err != nil {
			return nil, err
		}
		refs, _, err := dataset.ConsensusByImage(userDirs, false)
		if err != nil {
			return nil, err
		}

		for _, userDir := range userDirs {
			user, scale, ok := dataset.ParseUserScale(userDir)
			if !ok {
				continue
			}
			files, err := filepath.Glob(filepath.Join(userDir, "*.csv"))
			if err != nil {
				return nil, err
			}
			sort.Strings(files)
			for _, f := range files {
				image := filepath.Base(f)
				ref, ok := refs[image]
				if !ok {
					continue
				}
				tasks = append(tasks, statsTask{
					SetName: filepath.Base(setDir),
					User:    user,
					Scale:   scale,
					Image:   image,
					Path:    f,
					Ref:     ref,
				})
			}
		}
	}
	return tasks, nil
}

func processStatsTask(task statsTask, useAffine bool, outDir string, renderFigures bool) statsResult {
	pts, err := dataset.LoadLandmarksScaled(task.Path, task.Scale)
	if err != nil {
		return statsResult{Task: task, Err: err}
	}

	st, err := landmark.Summarize(task.Ref, pts, useAffine)
	if err != nil {
		return statsResult{Task: task, Err: err}
	}

	if renderFigures {
		figDir := filepath.Join(outDir, task.SetName, "figures")
		if err := os.MkdirAll(figDir, 0755); err != nil {
			return statsResult{Task: task, Err: err}
		}
		name := fmt.Sprintf("%s_user-%s_scale-%dpc.png",
			strings.TrimSuffix(task.Image, ".csv"), task.User, task.Scale)
		if err := figures.SavePairFigure(filepath.Join(figDir, name), task.Ref, pts,
			[2]string{"consensus", "user-" + task.User}); err != nil {
			return statsResult{Task: task, Err: err}
		}
	}

	return statsResult{Task: task, Stats: st}
}

var statsHeader = []string{
	"set", "image", "user", "scale", "use_affine", "count",
	"mean", "std", "min", "max", "median",
	"image_width", "image_height", "image_diagonal",
}

func writeStatsCSV(path string, results []statsResult, useAffine bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create stats summary: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(statsHeader); err != nil {
		return err
	}
	for _, res := range results {
		st := res.Stats
		rec := []string{
			res.Task.SetName,
			res.Task.Image,
			res.Task.User,
			strconv.Itoa(res.Task.Scale),
			strconv.FormatBool(useAffine),
			strconv.Itoa(st.Count),
			formatFloat(st.Mean),
			formatFloat(st.Std),
			formatFloat(st.Min),
			formatFloat(st.Max),
			formatFloat(st.Median),
			formatFloat(st.ImageSize[0]),
			formatFloat(st.ImageSize[1]),
			formatFloat(st.ImageDiagonal),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write stats summary: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func storeStats(dbPath, runID string, results []statsResult, useAffine bool) error {
	database, err := db.NewDB(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	store := db.NewStatsStore(database)
	for _, res := range results {
		rec := &db.StatsRecord{
			RunID:     runID,
			SetName:   res.Task.SetName,
			ImageName: res.Task.Image,
			User:      res.Task.User,
			Scale:     res.Task.Scale,
			UseAffine: useAffine,
		}
		rec.FillStats(res.Stats)
		if err := store.Insert(rec); err != nil {
			return err
		}
	}
	return nil
}

// runMigrate manages the statistics database schema.
func runMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", "landmark_stats.db", "Statistics database path")
	fs.Parse(args)

	action := "up"
	if fs.NArg() > 0 {
		action = fs.Arg(0)
	}

	database, err := db.OpenDB(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	switch action {
	case "up":
		if err := database.MigrateUp(); err != nil {
			return err
		}
		log.Printf("migrations applied")
	case "down":
		if err := database.MigrateDown(); err != nil {
			return err
		}
		log.Printf("rolled back one migration")
	case "version":
		v, dirty, err := database.MigrateVersion()
		if err != nil {
			return err
		}
		log.Printf("schema version %d (dirty=%v)", v, dirty)
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}
	return nil
}
