package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ttpr0/go-cycleflow/network"
	"github.com/ttpr0/go-cycleflow/od"
	"github.com/ttpr0/go-cycleflow/parser"
	"github.com/ttpr0/go-cycleflow/preproc"
	"github.com/ttpr0/go-cycleflow/router"
	"github.com/ttpr0/go-cycleflow/routing"
	"github.com/ttpr0/go-cycleflow/summary"
	. "github.com/ttpr0/go-cycleflow/util"
	"golang.org/x/exp/slog"
)

// StageError tags a fatal error with the pipeline stage it happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(timer *summary.Timer, err error) error {
	var staged *StageError
	if err == nil || errors.As(err, &staged) {
		return err
	}
	return &StageError{Stage: timer.Current(), Err: err}
}

//**********************************************************
// flow manager
//**********************************************************

// FlowManager owns the network and routing index of one area. Both are
// read-only once loaded, so routing workers share them without locks.
type FlowManager struct {
	dir     string
	config  Config
	network *network.Network
	index   *network.NodeIndex
	finder  routing.IShortestPath
}

func (m *FlowManager) networkPath() string {
	return filepath.Join(m.dir, "intermediate", "network.bin")
}

func (m *FlowManager) chPath() string {
	return filepath.Join(m.dir, "intermediate", "ch.bin")
}

func (m *FlowManager) osmPath() string {
	return filepath.Join(m.dir, "input", "input.osm.pbf")
}

// NewFlowManager loads the cached network and routing index of dir, building
// and caching whichever is missing.
func NewFlowManager(dir string, config Config, timer *summary.Timer) (*FlowManager, error) {
	manager := &FlowManager{
		dir:    dir,
		config: config,
	}
	for _, sub := range []string{"intermediate", "output"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, err
		}
	}

	timer.Start("Load network")
	net, err := manager.loadOrBuildNetwork(timer)
	if err != nil {
		return nil, stageError(timer, err)
	}
	manager.network = net
	manager.index = network.NewNodeIndex(net, config.Routing.MaxSnapMeters)
	timer.Stop()

	timer.Start("Load routing index")
	ch, err := preproc.LoadOrBuildCH(manager.chPath(), net, config.Routing.CheckIndexFingerprint)
	if err != nil {
		return nil, stageError(timer, err)
	}
	manager.finder = routing.NewCHRouting(ch)
	timer.Stop()
	return manager, nil
}

func (m *FlowManager) loadOrBuildNetwork(timer *summary.Timer) (*network.Network, error) {
	net, err := network.Load(m.networkPath())
	if err == nil {
		slog.Info("loaded network", "path", m.networkPath(), "edges", net.EdgeCount())
		return net, nil
	}
	if !errors.Is(err, network.ErrCacheUnavailable) {
		return nil, err
	}
	slog.Info("building network", "reason", err)

	timer.Start("Parse OSM")
	raw, err := parser.ParseOSM(m.osmPath(), &parser.CyclingDecoder{})
	if err != nil {
		return nil, stageError(timer, err)
	}
	timer.Stop()

	var elevation network.IElevation
	if m.config.Elevation.Path != "" {
		table, err := network.ReadElevationCSV(filepath.Join(m.dir, m.config.Elevation.Path))
		if err != nil {
			return nil, err
		}
		elevation = table
	}

	timer.Start("Build network")
	net, err = network.Build(raw, m.config.LTS.Value, m.config.Cost.Value, elevation)
	if err != nil {
		return nil, stageError(timer, err)
	}
	timer.Stop()

	timer.Start("Save network")
	if err := net.Save(m.networkPath()); err != nil {
		return nil, stageError(timer, err)
	}
	timer.Stop()
	return net, nil
}

func (m *FlowManager) Network() *network.Network {
	return m.network
}

// Route aggregates every demand into counts.
func (m *FlowManager) Route(demands []od.Demand, workers int) (*network.Counts, time.Duration, error) {
	start := time.Now()
	counts, err := router.Run(m.network, m.index, m.finder, demands, m.config.Uptake.Value, workers)
	return counts, time.Since(start), err
}

// RouteDetailed keeps the full route of the first n demands.
func (m *FlowManager) RouteDetailed(demands []od.Demand, n, workers int) ([]Optional[router.Route], error) {
	return router.RunDetailed(m.network, m.index, m.finder, demands, m.config.Uptake.Value, n, workers)
}
