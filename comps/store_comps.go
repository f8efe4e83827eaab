package comps

import (
	"errors"
	"fmt"

	"github.com/ttpr0/go-cycleflow/network"
	. "github.com/ttpr0/go-cycleflow/util"
)

//*******************************************
// ch io
//*******************************************

// ErrCacheUnavailable is returned by LoadCH when the index file is missing,
// of another format version or corrupt.
var ErrCacheUnavailable = errors.New("routing index cache unavailable")

var chMagic = [4]byte{'C', 'F', 'C', 'H'}

const chVersion uint32 = 1

// StoreCH writes the hierarchy together with the fingerprint of the network
// it was built from.
func StoreCH(ch *CH, fingerprint uint64, path string) error {
	writer := NewBufferWriter()
	Write(writer, chMagic)
	Write(writer, chVersion)
	Write(writer, fingerprint)
	WriteArray(writer, ch.nodes)
	WriteArray(writer, ch.node_levels)
	WriteArray(writer, ch.edges)
	if err := WriteCompressedFile(writer.Bytes(), path); err != nil {
		return fmt.Errorf("write routing index %s: %w", path, err)
	}
	return nil
}

// LoadCH reads a hierarchy written by StoreCH and returns it with the stored
// network fingerprint. Every failure wraps ErrCacheUnavailable.
func LoadCH(path string) (*CH, uint64, error) {
	data, err := ReadCompressedFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	reader := NewBufferReader(data)
	magic := Read[[4]byte](reader)
	version := Read[uint32](reader)
	if reader.Err() == nil && (magic != chMagic || version != chVersion) {
		return nil, 0, fmt.Errorf("%w: %s has format %q version %d", ErrCacheUnavailable, path, magic[:], version)
	}
	fingerprint := Read[uint64](reader)
	nodes := ReadArray[network.NodeID](reader)
	node_levels := ReadArray[int32](reader)
	edges := ReadArray[CHEdge](reader)
	if err := reader.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: read %s: %v", ErrCacheUnavailable, path, err)
	}
	if reader.Remaining() != 0 {
		return nil, 0, fmt.Errorf("%w: %s has %d trailing bytes", ErrCacheUnavailable, path, reader.Remaining())
	}
	if err := validateCH(nodes, node_levels, edges); err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrCacheUnavailable, path, err)
	}
	return NewCH(nodes, node_levels, edges), fingerprint, nil
}

func validateCH(nodes []network.NodeID, node_levels []int32, edges []CHEdge) error {
	if len(nodes) != len(node_levels) {
		return fmt.Errorf("%d nodes but %d levels", len(nodes), len(node_levels))
	}
	n := int32(len(nodes))
	for i, e := range edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return fmt.Errorf("edge %d references a missing node", i)
		}
		if node_levels[e.From] == node_levels[e.To] {
			return fmt.Errorf("edge %d connects nodes of equal level", i)
		}
		if !e.IsShortcut() {
			continue
		}
		// children always precede their shortcut, which keeps unpacking finite
		if e.ChildA >= int32(i) || e.ChildB < 0 || e.ChildB >= int32(i) {
			return fmt.Errorf("shortcut %d has invalid children", i)
		}
	}
	return nil
}
