package comps

//*******************************************
// weighting interface
//*******************************************

type IWeighting interface {
	GetEdgeWeight(edge int32) int32
}

//*******************************************
// default weighting
//*******************************************

// DefaultWeighting holds one cost per graph edge.
type DefaultWeighting struct {
	edge_weights []int32
}

func NewDefaultWeighting(weights []int32) *DefaultWeighting {
	return &DefaultWeighting{
		edge_weights: weights,
	}
}

func (w *DefaultWeighting) GetEdgeWeight(edge int32) int32 {
	return w.edge_weights[edge]
}
