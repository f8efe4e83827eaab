package network

import (
	"bufio"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ttpr0/go-cycleflow/geo"
	. "github.com/ttpr0/go-cycleflow/util"
)

//*******************************************
// network cache
//*******************************************

// ErrCacheUnavailable is returned by Load when the cache file is missing,
// written by another format version or corrupt. Callers rebuild the network.
var ErrCacheUnavailable = errors.New("network cache unavailable")

var networkMagic = [4]byte{'C', 'F', 'N', 'W'}

const networkVersion uint32 = 1

// Save writes the network as a zstd-compressed gob stream behind a small
// header. The file is replaced atomically.
func (n *Network) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create network cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := n.encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write network cache %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write network cache %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write network cache %s: %w", path, err)
	}
	return nil
}

func (n *Network) encode(w io.Writer) error {
	buf := bufio.NewWriter(w)
	if _, err := buf.Write(networkMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, networkVersion); err != nil {
		return err
	}
	zw, err := NewCompressedWriter(buf)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(zw).Encode(n); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return buf.Flush()
}

// Load reads a network written by Save. Every failure wraps
// ErrCacheUnavailable.
func Load(path string) (*Network, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	defer file.Close()

	buf := bufio.NewReader(file)
	var magic [4]byte
	var version uint32
	if _, err := io.ReadFull(buf, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: read header of %s: %v", ErrCacheUnavailable, path, err)
	}
	if err := binary.Read(buf, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: read header of %s: %v", ErrCacheUnavailable, path, err)
	}
	if magic != networkMagic || version != networkVersion {
		return nil, fmt.Errorf("%w: %s has format %q version %d", ErrCacheUnavailable, path, magic[:], version)
	}

	zr, err := NewCompressedReader(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	defer zr.Close()
	net := &Network{}
	if err := gob.NewDecoder(zr).Decode(net); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCacheUnavailable, path, err)
	}
	if net.Edges == nil {
		net.Edges = map[EdgeKey]*Edge{}
	}
	if net.Intersections == nil {
		net.Intersections = map[NodeID]geo.Position{}
	}
	return net, nil
}
