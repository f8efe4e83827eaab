package preproc

import (
	"errors"
	"fmt"

	"github.com/ttpr0/go-cycleflow/comps"
	"github.com/ttpr0/go-cycleflow/network"
	"golang.org/x/exp/slog"
)

//*******************************************
// routing index cache
//*******************************************

// LoadOrBuildCH loads the hierarchy cached at path or builds it from the
// network and stores it there.
//
// The cache records the fingerprint of the network it was built from. A
// mismatch is always logged; it only causes a rebuild when checkFingerprint
// is set, otherwise the stale index is used.
func LoadOrBuildCH(path string, net *network.Network, checkFingerprint bool) (*comps.CH, error) {
	fingerprint := net.Fingerprint()

	ch, stored, err := comps.LoadCH(path)
	switch {
	case err == nil && stored == fingerprint:
		slog.Info("loaded routing index", "path", path, "nodes", ch.NodeCount(), "shortcuts", ch.ShortcutCount())
		return ch, nil
	case err == nil && !checkFingerprint:
		slog.Warn("routing index was built from a different network, delete it to rebuild",
			"path", path, "stored", fmt.Sprintf("%016x", stored), "network", fmt.Sprintf("%016x", fingerprint))
		return ch, nil
	case err == nil:
		slog.Warn("routing index was built from a different network, rebuilding", "path", path)
	case errors.Is(err, comps.ErrCacheUnavailable):
		slog.Info("building routing index", "reason", err)
	default:
		return nil, err
	}

	base, weight := comps.BuildGraph(net)
	ch = CalcContraction(base, weight)
	if err := comps.StoreCH(ch, fingerprint, path); err != nil {
		return nil, err
	}
	return ch, nil
}
