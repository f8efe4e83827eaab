package summary

import (
	"fmt"
	"io"
	"time"

	"github.com/ttpr0/go-cycleflow/attr"
	"github.com/ttpr0/go-cycleflow/network"
	. "github.com/ttpr0/go-cycleflow/util"
)

//*******************************************
// run summary
//*******************************************

// OutputMetadata describes a finished run. It only reads the counts it is
// built from.
type OutputMetadata struct {
	Config                any     `json:"config"`
	NumRequests           int     `json:"num_requests"`
	NumSucceededRequests  int     `json:"num_succeeded_requests"`
	NumFailedRequests     int     `json:"num_failed_requests"`
	NumEdgesWithCount     int     `json:"num_edges_with_count"`
	RoutingTimeSeconds    float64 `json:"routing_time_seconds"`
	TotalTimeSeconds      float64 `json:"total_time_seconds"`
	TotalMetersNotAllowed float64 `json:"total_meters_not_allowed"`
	TotalMetersLTS1       float64 `json:"total_meters_lts1"`
	TotalMetersLTS2       float64 `json:"total_meters_lts2"`
	TotalMetersLTS3       float64 `json:"total_meters_lts3"`
	TotalMetersLTS4       float64 `json:"total_meters_lts4"`
	Stages                []Stage `json:"stages,omitempty"`
}

func NewOutputMetadata(config any, counts *network.Counts, numRequests int, routingTime time.Duration) OutputMetadata {
	failed := int(counts.Errors)
	if failed > numRequests {
		failed = numRequests
	}
	return OutputMetadata{
		Config:                config,
		NumRequests:           numRequests,
		NumSucceededRequests:  numRequests - failed,
		NumFailedRequests:     failed,
		NumEdgesWithCount:     len(counts.CountPerEdge),
		RoutingTimeSeconds:    routingTime.Seconds(),
		TotalMetersNotAllowed: counts.TotalDistanceByLTS[attr.NOT_ALLOWED],
		TotalMetersLTS1:       counts.TotalDistanceByLTS[attr.LTS1],
		TotalMetersLTS2:       counts.TotalDistanceByLTS[attr.LTS2],
		TotalMetersLTS3:       counts.TotalDistanceByLTS[attr.LTS3],
		TotalMetersLTS4:       counts.TotalDistanceByLTS[attr.LTS4],
	}
}

// Finish records the stage timings and total run time.
func (m *OutputMetadata) Finish(timer *Timer) {
	m.Stages = timer.Stages()
	m.TotalTimeSeconds = timer.Total().Seconds()
}

// FailureRatio is the share of requests that could not be routed.
func (m OutputMetadata) FailureRatio() float64 {
	if m.NumRequests == 0 {
		return 0
	}
	return float64(m.NumFailedRequests) / float64(m.NumRequests)
}

// Describe writes a human readable report.
func (m OutputMetadata) Describe(w io.Writer) error {
	lines := []string{
		fmt.Sprintf("%d requests, %d succeeded and %d failed (%.2f%%)", m.NumRequests, m.NumSucceededRequests, m.NumFailedRequests, 100*m.FailureRatio()),
		fmt.Sprintf("Got counts for %d edges", m.NumEdgesWithCount),
		fmt.Sprintf("Routing took %.1fs, the whole run %.1fs", m.RoutingTimeSeconds, m.TotalTimeSeconds),
	}
	meters := []float64{m.TotalMetersLTS1, m.TotalMetersLTS2, m.TotalMetersLTS3, m.TotalMetersLTS4}
	for i, value := range meters {
		lines = append(lines, fmt.Sprintf("%v: %.1f km", attr.LTS(i+1), value/1000))
	}
	for _, stage := range m.Stages {
		lines = append(lines, fmt.Sprintf("%*s%s: %.3fs", 2*stage.Depth, "", stage.Name, stage.Seconds))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (m OutputMetadata) WriteJSON(path string) error {
	return WriteJSONToFile(m, path)
}
