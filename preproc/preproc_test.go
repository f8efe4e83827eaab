package preproc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ttpr0/go-cycleflow/comps"
	"github.com/ttpr0/go-cycleflow/geo"
	"github.com/ttpr0/go-cycleflow/network"
	. "github.com/ttpr0/go-cycleflow/util"
)

// gridNetwork builds a size x size grid with two-way edges of cost 10.
func gridNetwork(size int) *network.Network {
	net := &network.Network{
		Edges:         make(map[network.EdgeKey]*network.Edge),
		Intersections: make(map[network.NodeID]geo.Position),
	}
	id := func(x, y int) network.NodeID {
		return network.NodeID(y*size + x + 1)
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			net.Intersections[id(x, y)] = geo.Position{Lon: int32(x), Lat: int32(y)}
			if x+1 < size {
				net.Edges[network.EdgeKey{From: id(x, y), To: id(x+1, y)}] = &network.Edge{ForwardCost: Some(int32(10)), BackwardCost: Some(int32(10))}
			}
			if y+1 < size {
				net.Edges[network.EdgeKey{From: id(x, y), To: id(x, y+1)}] = &network.Edge{ForwardCost: Some(int32(10)), BackwardCost: Some(int32(10))}
			}
		}
	}
	return net
}

func TestCalcContraction(t *testing.T) {
	net := gridNetwork(6)
	base, weight := comps.BuildGraph(net)
	ch := CalcContraction(base, weight)

	if ch.NodeCount() != 36 {
		t.Fatalf("got %d nodes, want 36", ch.NodeCount())
	}
	seen := make(map[int32]bool)
	for i := 0; i < ch.NodeCount(); i++ {
		level := ch.GetNodeLevel(int32(i))
		if level < 0 || level >= 36 || seen[level] {
			t.Fatalf("levels must be a permutation, got duplicate or out of range %d", level)
		}
		seen[level] = true
	}
	for i := 0; i < ch.EdgeCount(); i++ {
		e := ch.GetEdge(int32(i))
		if !e.IsShortcut() {
			continue
		}
		a, b := ch.GetEdge(e.ChildA), ch.GetEdge(e.ChildB)
		if a.From != e.From || a.To != b.From || b.To != e.To || a.Weight+b.Weight != e.Weight {
			t.Fatalf("shortcut %d does not match its children", i)
		}
	}
}

func TestLoadOrBuildCH(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ch.bin")
	net := gridNetwork(4)

	built, err := LoadOrBuildCH(path, net, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("index was not stored: %v", err)
	}
	loaded, err := LoadOrBuildCH(path, net, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.EdgeCount() != built.EdgeCount() {
		t.Errorf("loaded %d edges, built %d", loaded.EdgeCount(), built.EdgeCount())
	}
}

func TestLoadOrBuildCHStaleIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ch.bin")
	net := gridNetwork(4)
	if _, err := LoadOrBuildCH(path, net, false); err != nil {
		t.Fatalf("build: %v", err)
	}
	old := net.Fingerprint()

	net.Edges[network.EdgeKey{From: 1, To: 2}].ForwardCost = Some(int32(99))

	// without the check the stale index is reused as is
	if _, err := LoadOrBuildCH(path, net, false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, stored, _ := comps.LoadCH(path); stored != old {
		t.Errorf("stale index should not have been rebuilt")
	}

	// with the check it is rebuilt for the new network
	if _, err := LoadOrBuildCH(path, net, true); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if _, stored, _ := comps.LoadCH(path); stored != net.Fingerprint() {
		t.Errorf("index should have been rebuilt, stored fingerprint %x", stored)
	}
}

func TestLoadOrBuildCHCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ch.bin")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	net := gridNetwork(3)
	ch, err := LoadOrBuildCH(path, net, false)
	if err != nil {
		t.Fatalf("corrupt cache should be rebuilt, got %v", err)
	}
	if ch.NodeCount() != 9 {
		t.Errorf("got %d nodes, want 9", ch.NodeCount())
	}
}

func TestLoadOrBuildCHUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "ch.bin")
	if _, err := LoadOrBuildCH(path, gridNetwork(2), false); err == nil {
		t.Errorf("expected error for unwritable index path")
	}
}
