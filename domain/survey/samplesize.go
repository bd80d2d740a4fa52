package survey

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Mattkaye3/sjstats/domain/core"
)

// Default planning parameters for two-group power computations
const (
	DefaultPower    = 0.8
	DefaultSigLevel = 0.05
)

// SampleSizeRequest parameterizes the sample size computation for a
// two-group comparison under cluster sampling. Zero-valued Power,
// SigLevel and ICC fall back to the package defaults. DF greater than
// zero switches the quantiles from the standard normal to a Student-t
// distribution with that many degrees of freedom.
type SampleSizeRequest struct {
	EffectSize     float64 `json:"effect_size"`
	Power          float64 `json:"power"`
	SigLevel       float64 `json:"sig_level"`
	Clusters       int     `json:"clusters"`
	AvgClusterSize float64 `json:"avg_cluster_size"`
	ICC            float64 `json:"icc"`
	DF             int     `json:"df"`
}

// SampleSizeEstimate is the rounded-up recommendation for a study design.
type SampleSizeEstimate struct {
	TotalN             int     `json:"total_n"`
	SubjectsPerCluster int     `json:"subjects_per_cluster"`
	DesignEffect       float64 `json:"design_effect"`
}

// SampleSize computes the total number of subjects needed to detect the
// requested standardized effect at the given power and significance
// level, inflated by the design effect of the clustered design, plus
// the resulting number of subjects per cluster.
func SampleSize(req SampleSizeRequest) (SampleSizeEstimate, error) {
	if req.Power == 0 {
		req.Power = DefaultPower
	}
	if req.SigLevel == 0 {
		req.SigLevel = DefaultSigLevel
	}
	if req.ICC == 0 {
		req.ICC = DefaultICC
	}

	if req.EffectSize <= 0 {
		return SampleSizeEstimate{}, core.NewValidationError("effect size",
			fmt.Sprintf("effect size must be positive, got %v", req.EffectSize))
	}
	if req.Power <= 0 || req.Power >= 1 {
		return SampleSizeEstimate{}, core.NewValidationError("power",
			fmt.Sprintf("power must lie in (0, 1), got %v", req.Power))
	}
	if req.SigLevel <= 0 || req.SigLevel >= 1 {
		return SampleSizeEstimate{}, core.NewValidationError("significance level",
			fmt.Sprintf("significance level must lie in (0, 1), got %v", req.SigLevel))
	}
	if req.Clusters < 1 {
		return SampleSizeEstimate{}, core.NewValidationError("clusters",
			fmt.Sprintf("number of clusters must be at least 1, got %d", req.Clusters))
	}

	deff, err := DesignEffect(req.AvgClusterSize, req.ICC)
	if err != nil {
		return SampleSizeEstimate{}, err
	}

	var qAlpha, qPower float64
	if req.DF > 0 {
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(req.DF)}
		qAlpha = tDist.Quantile(1 - req.SigLevel/2)
		qPower = tDist.Quantile(req.Power)
	} else {
		norm := distuv.Normal{Mu: 0, Sigma: 1}
		qAlpha = norm.Quantile(1 - req.SigLevel/2)
		qPower = norm.Quantile(req.Power)
	}

	ratio := (qAlpha + qPower) / req.EffectSize
	total := 2 * ratio * ratio * deff

	return SampleSizeEstimate{
		TotalN:             int(math.Ceil(total)),
		SubjectsPerCluster: int(math.Ceil(total / float64(req.Clusters))),
		DesignEffect:       deff,
	}, nil
}
