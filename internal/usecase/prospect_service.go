package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/agent"
	"github.com/xavierca1/prospectplus-agent/internal/entity"
	"github.com/xavierca1/prospectplus-agent/internal/metrics"
)

type ProspectService struct {
	Repo         entity.ProspectRepositoryInterface
	Interactions entity.InteractionRepositoryInterface
	Analyzer     agent.Analyzer
	// AnalyzeOnCreate runs Analyzer right after insert; failures never fail the create.
	AnalyzeOnCreate bool
	Log             *zap.Logger
}

func NewProspectService(
	repo entity.ProspectRepositoryInterface,
	interactions entity.InteractionRepositoryInterface,
	analyzer agent.Analyzer,
	analyzeOnCreate bool,
	log *zap.Logger,
) *ProspectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProspectService{
		Repo:            repo,
		Interactions:    interactions,
		Analyzer:        analyzer,
		AnalyzeOnCreate: analyzeOnCreate && analyzer != nil,
		Log:             log,
	}
}

func (s *ProspectService) Create(ctx context.Context, in CreateProspectInput) (*entity.Prospect, error) {
	if errs := ValidateCreateProspectInput(in); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	p := entity.NewProspect(in.CompanyName, in.ContactName, in.Email)
	p.Phone = in.Phone
	p.Industry = in.Industry
	p.CompanySize = in.CompanySize
	p.Website = in.Website
	p.Notes = in.Notes
	p.LastContact = in.LastContact
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if in.Status != "" {
		p.Status = entity.Status(in.Status)
	}
	if in.Priority != "" {
		p.Priority = entity.Priority(in.Priority)
	}

	if err := s.Repo.Insert(ctx, p); err != nil {
		return nil, repoError(err, "create prospect")
	}
	metrics.RecordProspectCreated()
	s.Log.Info("prospect created", zap.String("prospect_id", p.ID))

	if !s.AnalyzeOnCreate {
		return p, nil
	}

	analysis, err := s.Analyzer.Analyze(ctx, p)
	if err != nil {
		s.Log.Warn("creation analysis failed, score left unset", zap.String("prospect_id", p.ID), zap.Error(err))
		metrics.RecordAnalysis(s.Analyzer.Name(), "error")
		return p, nil
	}
	scored, err := s.storeAnalysis(ctx, p, analysis, s.Analyzer.Name())
	if err != nil {
		s.Log.Warn("could not persist creation score", zap.String("prospect_id", p.ID), zap.Error(err))
		return p, nil
	}
	return scored, nil
}

func (s *ProspectService) Get(ctx context.Context, id string) (*entity.Prospect, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, repoError(err, "get prospect")
	}
	return p, nil
}

func (s *ProspectService) List(ctx context.Context, in ListProspectsInput) ([]*entity.Prospect, error) {
	if in.Limit == 0 {
		in.Limit = defaultListLimit
	}
	if errs := ValidateListProspectsInput(in); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}
	out, err := s.Repo.List(ctx, entity.ProspectFilter{
		Status:   entity.Status(in.Status),
		Priority: entity.Priority(in.Priority),
		Industry: in.Industry,
		Offset:   in.Skip,
		Limit:    in.Limit,
	})
	if err != nil {
		return nil, repoError(err, "list prospects")
	}
	return out, nil
}

func (s *ProspectService) Update(ctx context.Context, id string, in UpdateProspectInput) (*entity.Prospect, error) {
	if errs := ValidateUpdateProspectInput(in); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	patch := entity.ProspectPatch{
		CompanyName: in.CompanyName,
		ContactName: in.ContactName,
		Email:       in.Email,
		Phone:       in.Phone,
		Industry:    in.Industry,
		CompanySize: in.CompanySize,
		Website:     in.Website,
		Notes:       in.Notes,
		Tags:        in.Tags,
		LastContact: in.LastContact,
	}
	if in.Status != nil {
		st := entity.Status(*in.Status)
		patch.Status = &st
	}
	if in.Priority != nil {
		pr := entity.Priority(*in.Priority)
		patch.Priority = &pr
	}

	p, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		return nil, repoError(err, "update prospect")
	}
	return p, nil
}

func (s *ProspectService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return repoError(err, "delete prospect")
	}
	s.Log.Info("prospect deleted", zap.String("prospect_id", id))
	return nil
}

// Reanalyze always yields an analysis: analyzer errors fall back to the heuristic.
func (s *ProspectService) Reanalyze(ctx context.Context, id string) (*AnalysisOutput, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, repoError(err, "get prospect")
	}

	analyzer := s.Analyzer
	if analyzer == nil {
		analyzer = agent.Heuristic{}
	}
	strategy := analyzer.Name()
	analysis, err := analyzer.Analyze(ctx, p)
	if err != nil {
		s.Log.Warn("analysis failed, using heuristic", zap.String("prospect_id", id), zap.Error(err))
		analysis = agent.HeuristicAnalysis(p)
		strategy = agent.Heuristic{}.Name()
	}

	if _, err := s.storeAnalysis(ctx, p, analysis, strategy); err != nil {
		return nil, repoError(err, "store analysis")
	}
	return &AnalysisOutput{ProspectID: p.ID, Analysis: analysis}, nil
}

// storeAnalysis writes the score and records an analysis interaction. Only the score write can fail.
func (s *ProspectService) storeAnalysis(ctx context.Context, p *entity.Prospect, a agent.Analysis, strategy string) (*entity.Prospect, error) {
	score := a.Score
	updated, err := s.Repo.Update(ctx, p.ID, entity.ProspectPatch{Score: &score})
	if err != nil {
		return nil, err
	}

	if s.Interactions != nil {
		i := entity.NewInteraction(p.ID, entity.InteractionAnalysis,
			fmt.Sprintf("Scored %.2f by %s", a.Score, strategy),
			map[string]any{
				"strategy":        strategy,
				"score":           a.Score,
				"confidence":      a.Confidence,
				"insights":        a.Insights,
				"recommendations": a.Recommendations,
				"next_steps":      a.NextSteps,
			})
		if err := s.Interactions.Insert(ctx, i); err != nil {
			s.Log.Warn("could not record analysis interaction", zap.String("prospect_id", p.ID), zap.Error(err))
		}
	}
	return updated, nil
}

func repoError(err error, op string) error {
	switch {
	case errors.Is(err, entity.ErrProspectNotFound):
		return &DomainError{Code: CodeNotFound, Message: "Prospect not found"}
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		return &DomainError{Code: CodeDuplicateEmail, Message: "Email already registered", Fields: map[string]string{"email": "already registered"}}
	}
	return &TechnicalError{Code: CodeDatabase, Message: op, Err: err}
}
