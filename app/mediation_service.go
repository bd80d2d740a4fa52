package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mattkaye3/sjstats/domain/estimate"
	"github.com/Mattkaye3/sjstats/domain/mediation"
	"github.com/Mattkaye3/sjstats/domain/model"
	"github.com/Mattkaye3/sjstats/models"
	"github.com/Mattkaye3/sjstats/ports"

	"github.com/google/uuid"
)

// MediationService estimates mediation effects from fitted multivariate models
type MediationService struct {
	repo ports.AnalysisRepository
}

// NewMediationService creates a mediation service. The repository may be nil
// when analyses are not persisted.
func NewMediationService(repo ports.AnalysisRepository) *MediationService {
	return &MediationService{repo: repo}
}

// MediationRequest defines the inputs for a mediation analysis. Treatment
// and Mediator are optional, empty values are auto-detected from the model.
type MediationRequest struct {
	ModelName      string    `json:"model_name"`
	Treatment      string    `json:"treatment"`
	Mediator       string    `json:"mediator"`
	IntervalMasses []float64 `json:"interval_masses"`
	Typical        string    `json:"typical"`
	SourceHash     string    `json:"source_hash"`
	Persist        bool      `json:"persist"`
}

// MediationResponse contains the effect table with provenance
type MediationResponse struct {
	AnalysisID *uuid.UUID       `json:"analysis_id,omitempty"`
	Result     mediation.Result `json:"result"`
	RuntimeMs  int64            `json:"runtime_ms"`
}

// RunMediation executes the full mediation pipeline: resolve the treatment
// and mediator roles, extract the posterior effect draws, combine them, and
// assemble the effect table
func (s *MediationService) RunMediation(ctx context.Context, fitted ports.FittedModel, req MediationRequest) (*MediationResponse, error) {
	startTime := time.Now()

	typical, err := estimate.ParseTypicalFunction(req.Typical)
	if err != nil {
		return nil, err
	}

	equations := fitted.Equations()
	roles, err := mediation.ResolveRoles(equations, fitted.RawData(), req.Treatment, req.Mediator)
	if err != nil {
		return nil, err
	}

	draws, diagnostics, err := s.extractEffects(fitted, roles, equations)
	if err != nil {
		return nil, err
	}

	summary, err := mediation.Summarize(draws, req.IntervalMasses, typical)
	if err != nil {
		return nil, err
	}

	result, err := mediation.Assemble(summary, roles, equations, typical, diagnostics)
	if err != nil {
		return nil, err
	}

	response := &MediationResponse{
		Result:    *result,
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}

	if req.Persist && s.repo != nil {
		record, err := s.persist(ctx, req, result)
		if err != nil {
			return nil, err
		}
		response.AnalysisID = &record.ID
	}

	return response, nil
}

// extractEffects pulls the three coefficient draws the decomposition needs:
// treatment and mediator on the outcome, treatment on the mediator
func (s *MediationService) extractEffects(fitted ports.FittedModel, roles mediation.Roles, equations []model.Equation) (mediation.EffectDraws, []mediation.Diagnostic, error) {
	outcome := equations[roles.OutcomeEq]
	mediatorEq := equations[roles.MediatorEq]

	direct, err := fitted.PosteriorSamples(model.NewCoefficientKey(outcome.Response, roles.Treatment))
	if err != nil {
		return mediation.EffectDraws{}, nil, fmt.Errorf("direct effect draws: %w", err)
	}
	mediatorEff, err := fitted.PosteriorSamples(model.NewCoefficientKey(outcome.Response, roles.Mediator))
	if err != nil {
		return mediation.EffectDraws{}, nil, fmt.Errorf("mediator effect draws: %w", err)
	}
	tOnM, err := fitted.PosteriorSamples(model.NewCoefficientKey(mediatorEq.Response, roles.Treatment))
	if err != nil {
		return mediation.EffectDraws{}, nil, fmt.Errorf("treatment-on-mediator draws: %w", err)
	}

	draws, err := mediation.Combine(direct, mediatorEff, tOnM)
	if err != nil {
		return mediation.EffectDraws{}, nil, err
	}

	var diagnostics []mediation.Diagnostic
	for _, eq := range equations {
		if fitted.IsBinary(eq.Response) {
			diagnostics = append(diagnostics, mediation.NewBinaryResponseAdvisory(eq.Response))
			break
		}
	}

	return draws, diagnostics, nil
}

func (s *MediationService) persist(ctx context.Context, req MediationRequest, result *mediation.Result) (*models.AnalysisRecord, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	record := models.NewAnalysisRecord(req.ModelName, req.SourceHash, payload)
	record.Treatment = result.Metadata.Treatment
	record.Mediator = result.Metadata.Mediator
	record.Response = result.Metadata.Response
	record.IntervalMass = result.Metadata.IntervalMass
	record.Typical = string(result.Metadata.Typical)

	if err := s.repo.SaveAnalysis(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}
	return record, nil
}
