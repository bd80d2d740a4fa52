package survey

import (
	"fmt"

	"github.com/Mattkaye3/sjstats/domain/core"
	"github.com/Mattkaye3/sjstats/domain/dataset"
)

// Names of the columns appended by RescaleWeights
const (
	ColumnWeightsA = "pweights_a"
	ColumnWeightsB = "pweights_b"
)

// RescaleWeights computes the two Carle rescaling factors for design
// weights in multilevel models and returns the frame extended with
// them. Method A scales each weight so the weights within a cluster
// sum to the cluster size; method B scales by the cluster's effective
// sample size. Design weights must be strictly positive.
func RescaleWeights(frame *dataset.Frame, groupColumn, weightColumn string) (*dataset.Frame, error) {
	group, err := frame.Column(groupColumn)
	if err != nil {
		return nil, err
	}
	weightCol, err := frame.Column(weightColumn)
	if err != nil {
		return nil, err
	}
	weights, err := weightCol.Numeric()
	if err != nil {
		return nil, err
	}
	for i, w := range weights {
		if w <= 0 {
			return nil, core.NewValidationError("design weights",
				fmt.Sprintf("weight at row %d is %v, weights must be strictly positive", i, w))
		}
	}

	type clusterStat struct {
		sum   float64
		sumSq float64
		n     float64
	}
	byCluster := make(map[string]*clusterStat)
	for i, g := range group.Values {
		cs, ok := byCluster[g]
		if !ok {
			cs = &clusterStat{}
			byCluster[g] = cs
		}
		cs.sum += weights[i]
		cs.sumSq += weights[i] * weights[i]
		cs.n++
	}

	methodA := make([]float64, len(weights))
	methodB := make([]float64, len(weights))
	for i, g := range group.Values {
		cs := byCluster[g]
		methodA[i] = weights[i] * cs.n / cs.sum
		methodB[i] = weights[i] * cs.sum / cs.sumSq
	}

	return frame.WithColumns(
		dataset.NewNumericColumn(ColumnWeightsA, methodA),
		dataset.NewNumericColumn(ColumnWeightsB, methodB),
	)
}
