package main

import (
	"github.com/regbench/landmark.report/internal/landmark"
)

// statsTask is one (annotator file, consensus reference) comparison to
// run. Tasks are independent; the engine holds no shared state, so any
// number of workers may process them concurrently.
type statsTask struct {
	SetName string
	User    string
	Scale   int
	Image   string

	// Path is the annotator's landmark CSV for this image.
	Path string
	// Ref is the consensus reference set, already in 100% coordinates.
	Ref landmark.PointSet
}

// statsResult carries one computed comparison back from a worker.
type statsResult struct {
	Task  statsTask
	Stats landmark.Stats
	Err   error
}
