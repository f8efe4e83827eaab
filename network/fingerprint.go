package network

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
	. "github.com/ttpr0/go-cycleflow/util"
)

// SortedKeys returns all edge keys ordered by From, then To.
func (n *Network) SortedKeys() []EdgeKey {
	keys := make([]EdgeKey, 0, len(n.Edges))
	for key := range n.Edges {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b EdgeKey) int {
	switch {
	case a.From < b.From:
		return -1
	case a.From > b.From:
		return 1
	case a.To < b.To:
		return -1
	case a.To > b.To:
		return 1
	}
	return 0
}

// Fingerprint hashes the edge keys and directional costs, which is all a
// routing index is derived from.
func (n *Network) Fingerprint() uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 32)
	for _, key := range n.SortedKeys() {
		edge := n.Edges[key]
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, uint64(key.From))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(key.To))
		buf = appendCost(buf, edge.ForwardCost)
		buf = appendCost(buf, edge.BackwardCost)
		h.Write(buf)
	}
	return h.Sum64()
}

func appendCost(buf []byte, c Optional[int32]) []byte {
	if !c.Valid {
		return append(buf, 0, 0, 0, 0, 0)
	}
	buf = append(buf, 1)
	return binary.LittleEndian.AppendUint32(buf, uint32(c.Value))
}
