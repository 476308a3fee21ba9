package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

func newOutreachFixture(previous *time.Time) (*MockProspectRepository, *MockInteractionRepository, *MockMailer, *OutreachService) {
	repo := new(MockProspectRepository)
	interactions := new(MockInteractionRepository)
	mailer := new(MockMailer)

	repo.On("Get", mock.Anything, "p-1").Return(&entity.Prospect{
		ID:          "p-1",
		ContactName: "Jane",
		Email:       "jane@acme.io",
		LastContact: previous,
	}, nil)

	svc := NewOutreachService(repo, interactions, mailer, nil)
	svc.Now = func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) }
	return repo, interactions, mailer, svc
}

func TestOutreachSendSuccess(t *testing.T) {
	repo, interactions, mailer, svc := newOutreachFixture(nil)
	sentAt := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	interactions.On("Insert", mock.Anything, mock.MatchedBy(func(i *entity.Interaction) bool {
		return i.ProspectID == "p-1" && i.Type == entity.InteractionEmail && i.Metadata["subject"] == "Hello"
	})).Return(nil)
	repo.On("Update", mock.Anything, "p-1", entity.ProspectPatch{LastContact: &sentAt}).Return(&entity.Prospect{ID: "p-1"}, nil)
	mailer.On("Send", mock.Anything, OutreachEmail{To: "jane@acme.io", Name: "Jane", Subject: "Hello", Body: "Hi Jane"}).Return(nil)

	i, err := svc.Send(context.Background(), "p-1", OutreachInput{Subject: "Hello", Body: "Hi Jane"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Jane", i.Content)

	repo.AssertExpectations(t)
	interactions.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestOutreachSendCompensatesOnMailFailure(t *testing.T) {
	previous := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo, interactions, mailer, svc := newOutreachFixture(&previous)

	var recorded *entity.Interaction
	interactions.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(1).(*entity.Interaction)
	}).Return(nil)
	interactions.On("Delete", mock.Anything, mock.Anything).Return(nil)
	repo.On("Update", mock.Anything, "p-1", mock.Anything).Return(&entity.Prospect{ID: "p-1"}, nil)
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp: 550"))

	_, err := svc.Send(context.Background(), "p-1", OutreachInput{Subject: "Hello", Body: "Hi"})
	require.Error(t, err)
	assert.Equal(t, CodeOutreachFailed, ErrorCode(err))

	require.NotNil(t, recorded)
	interactions.AssertCalled(t, "Delete", mock.Anything, recorded.ID)
	repo.AssertCalled(t, "Update", mock.Anything, "p-1", entity.ProspectPatch{LastContact: &previous})
}

func TestOutreachSendClearsLastContactOnRollback(t *testing.T) {
	repo, interactions, mailer, svc := newOutreachFixture(nil)
	interactions.On("Insert", mock.Anything, mock.Anything).Return(nil)
	interactions.On("Delete", mock.Anything, mock.Anything).Return(nil)
	repo.On("Update", mock.Anything, "p-1", mock.Anything).Return(&entity.Prospect{ID: "p-1"}, nil)
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("timeout"))

	_, err := svc.Send(context.Background(), "p-1", OutreachInput{Subject: "s", Body: "b"})
	require.Error(t, err)
	repo.AssertCalled(t, "Update", mock.Anything, "p-1", entity.ProspectPatch{ClearLastContact: true})
}

func TestOutreachSendUnavailableAndInvalid(t *testing.T) {
	svc := NewOutreachService(new(MockProspectRepository), new(MockInteractionRepository), nil, nil)
	_, err := svc.Send(context.Background(), "p-1", OutreachInput{Subject: "s", Body: "b"})
	assert.Equal(t, CodeOutreachUnavailable, ErrorCode(err))

	_, _, _, svc = newOutreachFixture(nil)
	_, err = svc.Send(context.Background(), "p-1", OutreachInput{Subject: "", Body: "b"})
	assert.Equal(t, CodeValidation, ErrorCode(err))
}

func TestOutreachSendUnknownProspect(t *testing.T) {
	repo := new(MockProspectRepository)
	repo.On("Get", mock.Anything, "nope").Return(nil, entity.ErrProspectNotFound)
	svc := NewOutreachService(repo, new(MockInteractionRepository), new(MockMailer), nil)

	_, err := svc.Send(context.Background(), "nope", OutreachInput{Subject: "s", Body: "b"})
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}
