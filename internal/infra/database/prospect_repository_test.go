package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

func newProspect(company, email string) *entity.Prospect {
	p := entity.NewProspect(company, "Jane Doe", email)
	return p
}

func TestProspectRepositoryInsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewProspectRepository(newTestDB(t))
	now, _ := fixedClock(time.Date(2024, 5, 1, 9, 30, 0, 123456789, time.UTC))
	repo.Now = now

	p := newProspect("Acme", "jane@acme.io")
	p.Industry = "Software"
	p.Website = "https://acme.io"
	p.Tags = []string{"b2b", "inbound"}
	require.NoError(t, repo.Insert(ctx, p))

	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 123456000, time.UTC), p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("stored prospect mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.Score)
	assert.Nil(t, got.LastContact)
}

func TestProspectRepositoryInsertKeepsStoredLastContact(t *testing.T) {
	ctx := context.Background()
	repo := NewProspectRepository(newTestDB(t))

	local := time.FixedZone("BRT", -3*60*60)
	contacted := time.Date(2024, 5, 1, 6, 30, 0, 123456789, local)
	p := newProspect("Acme", "lc@acme.io")
	p.LastContact = &contacted
	require.NoError(t, repo.Insert(ctx, p))

	want := time.Date(2024, 5, 1, 9, 30, 0, 123456000, time.UTC)
	require.NotNil(t, p.LastContact)
	assert.Equal(t, want, *p.LastContact)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("stored prospect mismatch (-want +got):\n%s", diff)
	}

	later := time.Date(2024, 6, 2, 8, 0, 0, 999999999, time.UTC)
	updated, err := repo.Update(ctx, p.ID, entity.ProspectPatch{LastContact: &later})
	require.NoError(t, err)
	require.NotNil(t, updated.LastContact)
	assert.Equal(t, later.Truncate(time.Microsecond), *updated.LastContact)
}

func TestProspectRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewProspectRepository(newTestDB(t))

	require.NoError(t, repo.Insert(ctx, newProspect("Acme", "dup@acme.io")))
	err := repo.Insert(ctx, newProspect("Other", "dup@acme.io"))
	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)

	all, err := repo.List(ctx, entity.ProspectFilter{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "Acme", all[0].CompanyName)

	exists, err := repo.ExistsByEmail(ctx, "dup@acme.io")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProspectRepositoryPartialUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewProspectRepository(newTestDB(t))
	now, _ := fixedClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	repo.Now = now

	p := newProspect("Acme", "jane@acme.io")
	p.Industry = "Software"
	p.Notes = "met at expo"
	require.NoError(t, repo.Insert(ctx, p))

	status := entity.StatusQualified
	score := 0.9
	updated, err := repo.Update(ctx, p.ID, entity.ProspectPatch{Status: &status, Score: &score})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusQualified, updated.Status)
	require.NotNil(t, updated.Score)
	assert.InDelta(t, 0.9, *updated.Score, 1e-9)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt), "updated_at must move forward with a frozen clock")
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	want := *p
	want.Status = entity.StatusQualified
	want.Score = &score
	want.UpdatedAt = updated.UpdatedAt
	if diff := cmp.Diff(&want, updated); diff != "" {
		t.Errorf("untouched fields changed (-want +got):\n%s", diff)
	}

	again, err := repo.Update(ctx, p.ID, entity.ProspectPatch{})
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))
}

func TestProspectRepositoryUpdateClearsOptionalFields(t *testing.T) {
	ctx := context.Background()
	repo := NewProspectRepository(newTestDB(t))

	p := newProspect("Acme", "jane@acme.io")
	p.Phone = "+1 555 0100"
	contacted := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	p.LastContact = &contacted
	require.NoError(t, repo.Insert(ctx, p))

	empty := ""
	tags := []string{"vip"}
	got, err := repo.Update(ctx, p.ID, entity.ProspectPatch{Phone: &empty, Tags: &tags, ClearLastContact: true})
	require.NoError(t, err)
	assert.Empty(t, got.Phone)
	assert.Equal(t, []string{"vip"}, got.Tags)
	assert.Nil(t, got.LastContact)
}

func TestProspectRepositoryUpdateEmailConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewProspectRepository(newTestDB(t))

	a := newProspect("A", "a@x.io")
	b := newProspect("B", "b@x.io")
	require.NoError(t, repo.Insert(ctx, a))
	require.NoError(t, repo.Insert(ctx, b))

	taken := "a@x.io"
	_, err := repo.Update(ctx, b.ID, entity.ProspectPatch{Email: &taken})
	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)

	same := "b@x.io"
	_, err = repo.Update(ctx, b.ID, entity.ProspectPatch{Email: &same})
	assert.NoError(t, err)

	got, err := repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@x.io", got.Email)
}

func TestProspectRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewProspectRepository(newTestDB(t))

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrProspectNotFound)

	name := "x"
	_, err = repo.Update(ctx, "missing", entity.ProspectPatch{CompanyName: &name})
	assert.ErrorIs(t, err, entity.ErrProspectNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), entity.ErrProspectNotFound)
}

func TestProspectRepositoryDeleteRemovesInteractions(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProspectRepository(db)
	interactions := NewInteractionRepository(db)

	p := newProspect("Acme", "jane@acme.io")
	require.NoError(t, repo.Insert(ctx, p))
	require.NoError(t, interactions.Insert(ctx, entity.NewInteraction(p.ID, entity.InteractionEmail, "hello", map[string]any{"subject": "hi"})))

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.Get(ctx, p.ID)
	assert.ErrorIs(t, err, entity.ErrProspectNotFound)

	left, err := interactions.ListByProspect(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), entity.ErrProspectNotFound)
}

func TestProspectRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewProspectRepository(newTestDB(t))
	now, advance := fixedClock(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	repo.Now = now

	seed := []struct {
		company  string
		industry string
		status   entity.Status
		priority entity.Priority
	}{
		{"A", "Software", entity.StatusNew, entity.PriorityHigh},
		{"B", "Retail", entity.StatusContacted, entity.PriorityLow},
		{"C", "Software", entity.StatusContacted, entity.PriorityHigh},
		{"D", "", entity.StatusNew, entity.PriorityMedium},
	}
	for _, s := range seed {
		p := newProspect(s.company, s.company+"@x.io")
		p.Industry = s.industry
		p.Status = s.status
		p.Priority = s.priority
		require.NoError(t, repo.Insert(ctx, p))
		advance(time.Second)
	}

	names := func(ps []*entity.Prospect) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.CompanyName)
		}
		return out
	}

	all, err := repo.List(ctx, entity.ProspectFilter{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(all))

	page, err := repo.List(ctx, entity.ProspectFilter{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, names(page))

	software, err := repo.List(ctx, entity.ProspectFilter{Industry: "Software", Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, names(software))

	contactedHigh, err := repo.List(ctx, entity.ProspectFilter{Status: entity.StatusContacted, Priority: entity.PriorityHigh, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, names(contactedHigh))

	none, err := repo.List(ctx, entity.ProspectFilter{Status: entity.StatusClosedWon, Limit: 100})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
