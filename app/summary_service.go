package app

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Mattkaye3/sjstats/domain/estimate"
	"github.com/Mattkaye3/sjstats/domain/mediation"
	"github.com/Mattkaye3/sjstats/domain/model"
	"github.com/Mattkaye3/sjstats/ports"
)

// SummaryService computes posterior summaries for model coefficients
type SummaryService struct{}

// NewSummaryService creates a summary service
func NewSummaryService() *SummaryService {
	return &SummaryService{}
}

// SummaryRequest defines the inputs for a coefficient summary. Zero-valued
// fields fall back to the mediation defaults.
type SummaryRequest struct {
	IntervalMass float64 `json:"interval_mass"`
	Typical      string  `json:"typical"`
}

// CoefficientSummary is one row of a posterior summary table
type CoefficientSummary struct {
	Key      model.CoefficientKey `json:"key"`
	Estimate float64              `json:"estimate"`
	Low      float64              `json:"hdi_low"`
	High     float64              `json:"hdi_high"`
	PD       float64              `json:"pd"`
}

// RunSummary summarizes every coefficient's posterior with a typical value,
// a highest-density interval and the probability of direction. Coefficients
// are processed concurrently, bounded by the CPU count.
func (s *SummaryService) RunSummary(ctx context.Context, fitted ports.FittedModel, req SummaryRequest) ([]CoefficientSummary, error) {
	typical, err := estimate.ParseTypicalFunction(req.Typical)
	if err != nil {
		return nil, err
	}
	mass := req.IntervalMass
	if mass == 0 {
		mass = mediation.DefaultIntervalMass
	}

	keys := fitted.Coefficients()
	summaries := make([]CoefficientSummary, len(keys))

	sem := semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
	g, ctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			draws, err := fitted.PosteriorSamples(key)
			if err != nil {
				return err
			}
			est, err := estimate.Typical(draws, typical)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			interval, err := estimate.HDI(draws, mass)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			pd, err := estimate.ProbabilityOfDirection(draws)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}

			summaries[i] = CoefficientSummary{
				Key:      key,
				Estimate: est,
				Low:      interval.Low,
				High:     interval.High,
				PD:       pd,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
