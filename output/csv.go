package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ttpr0/go-cycleflow/network"
)

// WriteCSV writes one way,node1,node2,count row per edge with flow, ordered
// by edge key.
func WriteCSV(path string, net *network.Network, counts *network.Counts) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(file)
	writer := csv.NewWriter(buf)
	writer.Write([]string{"way", "node1", "node2", "count"})
	for _, key := range net.SortedKeys() {
		count := counts.CountPerEdge[key]
		if count == 0 {
			continue
		}
		writer.Write([]string{
			strconv.FormatInt(net.Edges[key].WayID, 10),
			strconv.FormatInt(int64(key.From), 10),
			strconv.FormatInt(int64(key.To), 10),
			strconv.FormatFloat(count, 'f', -1, 64),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}
