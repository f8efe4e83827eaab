package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/ttpr0/go-cycleflow/output"
	"github.com/ttpr0/go-cycleflow/summary"
	"golang.org/x/exp/slog"
)

func main() {
	opts, err := ParseOptions(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := NewLogger(os.Stderr, opts.LogLevel, opts.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	if err := run(opts); err != nil {
		var staged *StageError
		if errors.As(err, &staged) {
			slog.Error("run failed", "stage", staged.Stage, "error", staged.Err.Error())
		} else {
			slog.Error("run failed", "error", err.Error())
		}
		os.Exit(1)
	}
}

// run executes the whole pipeline for the area directory of the config.
func run(opts Options) error {
	timer := summary.NewTimer()
	dir := opts.Directory()
	out_dir := filepath.Join(dir, "output")

	timer.Start("Read config")
	config, err := ReadConfig(opts.ConfigPath)
	if err != nil {
		return stageError(timer, err)
	}
	timer.Stop()

	manager, err := NewFlowManager(dir, config, timer)
	if err != nil {
		return err
	}

	timer.Start("Generate requests")
	demands, err := config.Requests.Value.Generate(dir, opts.RngSeed)
	if err != nil {
		return stageError(timer, err)
	}
	slog.Info(fmt.Sprintf("Got %v requests", len(demands)))
	timer.Stop()

	if opts.DetailedRoutes > 0 {
		timer.Start("Detailed routes")
		routes, err := manager.RouteDetailed(demands, opts.DetailedRoutes, opts.Workers)
		if err != nil {
			return stageError(timer, err)
		}
		written, err := output.WriteDetailedRoutes(out_dir, manager.Network(), routes)
		if err != nil {
			return stageError(timer, err)
		}
		slog.Info(fmt.Sprintf("Wrote %v of %v detailed routes", written, len(routes)))
		timer.Stop()
		return nil
	}

	timer.Start("Routing")
	counts, routing_time, err := manager.Route(demands, opts.Workers)
	if err != nil {
		return stageError(timer, err)
	}
	timer.Stop()

	if !opts.NoOutputCSV {
		timer.Start("Writing output CSV")
		if err := output.WriteCSV(filepath.Join(out_dir, "counts.csv"), manager.Network(), counts); err != nil {
			return stageError(timer, err)
		}
		timer.Stop()
	}

	meta := summary.NewOutputMetadata(config, counts, len(demands), routing_time)
	timer.Start("Writing output GeoJSON")
	err = output.WriteGeoJSONFile(filepath.Join(out_dir, "output.geojson"), manager.Network(), counts, output.GeoJSONOptions{
		ODPoints: !opts.NoOutputODPoints,
		OSMTags:  !opts.NoOutputOSMTags,
		Metadata: meta,
	})
	if err != nil {
		return stageError(timer, err)
	}
	timer.Stop()

	meta.Finish(timer)
	if err := meta.Describe(os.Stdout); err != nil {
		return err
	}
	if opts.OutputMetadata {
		timer.Start("Writing metadata")
		if err := meta.WriteJSON(filepath.Join(out_dir, "metadata.json")); err != nil {
			return stageError(timer, err)
		}
		metrics := summary.NewMetrics()
		metrics.Observe(meta)
		if err := metrics.WriteTextfile(filepath.Join(out_dir, "metrics.prom")); err != nil {
			return stageError(timer, err)
		}
		timer.Stop()
	}
	return nil
}
