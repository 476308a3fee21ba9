package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
	"github.com/xavierca1/prospectplus-agent/internal/metrics"
)

// OutreachService emails a prospect and records the contact.
type OutreachService struct {
	Prospects    entity.ProspectRepositoryInterface
	Interactions entity.InteractionRepositoryInterface
	Mailer       Mailer
	Log          *zap.Logger
	Now          func() time.Time
}

func NewOutreachService(
	prospects entity.ProspectRepositoryInterface,
	interactions entity.InteractionRepositoryInterface,
	mailer Mailer,
	log *zap.Logger,
) *OutreachService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OutreachService{
		Prospects:    prospects,
		Interactions: interactions,
		Mailer:       mailer,
		Log:          log,
		Now:          time.Now,
	}
}

func (s *OutreachService) Enabled() bool {
	return s.Mailer != nil
}

// Send records the interaction, stamps last_contact and delivers the email. A failed step undoes the earlier ones.
func (s *OutreachService) Send(ctx context.Context, prospectID string, in OutreachInput) (*entity.Interaction, error) {
	if !s.Enabled() {
		return nil, &DomainError{Code: CodeOutreachUnavailable, Message: "Outreach email is not configured"}
	}
	if errs := ValidateOutreachInput(in); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	p, err := s.Prospects.Get(ctx, prospectID)
	if err != nil {
		return nil, repoError(err, "get prospect")
	}

	interaction := entity.NewInteraction(p.ID, entity.InteractionEmail, in.Body, map[string]any{
		"subject": in.Subject,
		"to":      p.Email,
	})
	previousContact := p.LastContact

	tx := NewTransaction(s.Log)
	tx.AddOperation("record_interaction",
		func(ctx context.Context) error {
			return s.Interactions.Insert(ctx, interaction)
		},
		func(ctx context.Context) error {
			return s.Interactions.Delete(ctx, interaction.ID)
		},
	)
	tx.AddOperation("set_last_contact",
		func(ctx context.Context) error {
			contacted := s.Now().UTC().Truncate(time.Microsecond)
			_, err := s.Prospects.Update(ctx, p.ID, entity.ProspectPatch{LastContact: &contacted})
			return err
		},
		func(ctx context.Context) error {
			patch := entity.ProspectPatch{LastContact: previousContact, ClearLastContact: previousContact == nil}
			_, err := s.Prospects.Update(ctx, p.ID, patch)
			return err
		},
	)
	tx.AddOperation("send_email",
		func(ctx context.Context) error {
			return s.Mailer.Send(ctx, OutreachEmail{
				To:      p.Email,
				Name:    p.ContactName,
				Subject: in.Subject,
				Body:    in.Body,
			})
		},
		nil,
	)

	if err := tx.Execute(ctx); err != nil {
		metrics.RecordOutreach("failed")
		s.Log.Error("outreach failed", zap.String("prospect_id", p.ID), zap.Error(err))
		return nil, &TechnicalError{Code: CodeOutreachFailed, Message: "send outreach email", Err: err}
	}

	metrics.RecordOutreach("sent")
	s.Log.Info("outreach email sent", zap.String("prospect_id", p.ID), zap.String("interaction_id", interaction.ID))
	return interaction, nil
}
