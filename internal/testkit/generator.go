package testkit

import (
	"math/rand"

	"github.com/Mattkaye3/sjstats/domain/dataset"
	"github.com/Mattkaye3/sjstats/domain/model"
)

// MediationModelConfig configures the synthetic mediation model generator
type MediationModelConfig struct {
	Draws               int     `json:"draws"`
	TreatmentEffect     float64 `json:"treatment_effect"`
	TreatmentOnMediator float64 `json:"treatment_on_mediator"`
	MediatorEffect      float64 `json:"mediator_effect"`
	Noise               float64 `json:"noise"`
	DataRows            int     `json:"data_rows"`
	Seed                int64   `json:"seed"`
}

// DefaultMediationModelConfig returns defaults that resemble the posterior
// of the classic job-search mediation study
func DefaultMediationModelConfig() MediationModelConfig {
	return MediationModelConfig{
		Draws:               4000,
		TreatmentEffect:     -0.04,
		TreatmentOnMediator: 0.07,
		MediatorEffect:      -0.27,
		Noise:               0.04,
		DataRows:            50,
		Seed:                42,
	}
}

// MediationModelGenerator generates synthetic fitted mediation models
type MediationModelGenerator struct {
	config MediationModelConfig
	rng    *rand.Rand
}

// NewMediationModelGenerator creates a generator with the given config
func NewMediationModelGenerator(config MediationModelConfig) *MediationModelGenerator {
	return &MediationModelGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds a two-equation fitted model whose posterior draws are
// centered on the configured effects
func (g *MediationModelGenerator) Generate() *FakeFittedModel {
	gaussian := model.Family{Name: "gaussian", Link: "identity"}
	mediatorEq := model.Equation{
		Response:   "job_seek",
		Predictors: []string{"treat", "econ_hard", "sex", "age"},
		Family:     gaussian,
	}
	outcomeEq := model.Equation{
		Response:   "depress2",
		Predictors: []string{"treat", "job_seek", "econ_hard", "sex", "age"},
		Family:     gaussian,
	}

	fake := NewFakeFittedModel(mediatorEq, outcomeEq).
		WithDraws("depress2", "treat", g.draws(g.config.TreatmentEffect)).
		WithDraws("depress2", "job_seek", g.draws(g.config.MediatorEffect)).
		WithDraws("job_seek", "treat", g.draws(g.config.TreatmentOnMediator))

	// nuisance coefficients, so coefficient summaries cover more than the
	// mediation triple
	for _, nuisance := range []struct {
		response  string
		predictor string
		center    float64
	}{
		{"job_seek", "econ_hard", 0.05},
		{"job_seek", "sex", -0.01},
		{"job_seek", "age", 0.0},
		{"depress2", "econ_hard", 0.15},
		{"depress2", "sex", 0.11},
		{"depress2", "age", 0.0},
	} {
		fake.WithDraws(nuisance.response, nuisance.predictor, g.draws(nuisance.center))
	}

	return fake.WithRawData(g.rawData())
}

func (g *MediationModelGenerator) draws(center float64) []float64 {
	out := make([]float64, g.config.Draws)
	for i := range out {
		out[i] = center + g.rng.NormFloat64()*g.config.Noise
	}
	return out
}

func (g *MediationModelGenerator) rawData() *dataset.Frame {
	n := g.config.DataRows
	treat := make([]float64, n)
	econHard := make([]float64, n)
	sex := make([]float64, n)
	age := make([]float64, n)
	jobSeek := make([]float64, n)
	depress := make([]float64, n)

	for i := 0; i < n; i++ {
		treat[i] = float64(g.rng.Intn(2))
		econHard[i] = 1 + g.rng.Float64()*4
		sex[i] = float64(g.rng.Intn(2))
		age[i] = 18 + g.rng.Float64()*50
		jobSeek[i] = 1 + g.rng.Float64()*4
		depress[i] = 1 + g.rng.Float64()*3
	}

	frame, err := dataset.NewFrame(
		dataset.NewNumericColumn("treat", treat),
		dataset.NewNumericColumn("econ_hard", econHard),
		dataset.NewNumericColumn("sex", sex),
		dataset.NewNumericColumn("age", age),
		dataset.NewNumericColumn("job_seek", jobSeek),
		dataset.NewNumericColumn("depress2", depress),
	)
	if err != nil {
		// column construction above is static, an error here is a bug
		panic(err)
	}
	return frame
}
