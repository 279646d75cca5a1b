// Command landmark-report evaluates the quality and agreement of
// manually placed image landmarks collected from multiple annotators at
// multiple image scales. It fuses per-annotator point sets into a
// consensus, aligns pairs with a least-squares affine transform, flags
// outlier correspondences and summarizes residual errors.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/regbench/landmark.report/internal/version"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: landmark-report <command> [flags]

Commands:
  consensus   build consensus landmark sets over an annotation tree
  stats       compare each annotator against the consensus and report
              residual-error statistics
  migrate     manage the statistics database schema (up, down, version)
  version     print build information

Run "landmark-report <command> -h" for command flags.
`)
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "consensus":
		err = runConsensus(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "migrate":
		err = runMigrate(os.Args[2:])
	case "version":
		fmt.Printf("landmark-report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}
