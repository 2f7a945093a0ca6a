package program

import (
	"context"
	"errors"
	"testing"
	"time"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/domain/role"
	"community-sport/backend/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	createFunc func(ctx context.Context, p Program) (*Program, error)
	created    []Program
}

func (m *mockStore) Create(ctx context.Context, p Program) (*Program, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	p.ID = "prog-1"
	m.created = append(m.created, p)
	return &p, nil
}

type countingInvalidator struct{ clears int }

func (c *countingInvalidator) Clear() { c.clears++ }

type recordingPublisher struct {
	subjects []string
	err      error
}

func (r *recordingPublisher) Publish(ctx context.Context, subject string, payload any) error {
	r.subjects = append(r.subjects, subject)
	return r.err
}

var organizer = role.Caller{UID: "org-1", Email: "coach@club.org", Role: role.Organizer}

func cost(v float64) *float64 { return &v }

func validInput() CreateProgramInput {
	return CreateProgramInput{
		Title:          "  Netball Night ",
		Sport:          "Netball",
		OrganizerEmail: "coach@club.org",
		Description:    "Social netball for adults",
		AgeGroups:      []string{"adult"},
		Cost:           cost(0),
		CostUnit:       "session",
	}
}

func newTestService(store Store, inv Invalidator, pub *recordingPublisher) *Service {
	s := NewService(store, inv, pub, logger.Discard())
	s.now = func() time.Time { return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC) }
	return s
}

func TestCreate_AppliesDefaultsAndClearsCache(t *testing.T) {
	store := &mockStore{}
	inv := &countingInvalidator{}
	pub := &recordingPublisher{}
	s := newTestService(store, inv, pub)

	out, err := s.Create(context.Background(), organizer, validInput())
	require.NoError(t, err)
	assert.Equal(t, &CreateProgramResult{Success: true, ProgramID: "prog-1", Message: "Program created successfully"}, out)
	assert.Equal(t, 1, inv.clears)
	assert.Equal(t, []string{"program.created"}, pub.subjects)

	require.Len(t, store.created, 1)
	p := store.created[0]
	assert.Equal(t, "Netball Night", p.Title)
	assert.Equal(t, 0.0, p.Cost)
	assert.True(t, p.IsFree())
	assert.Equal(t, StatusActive, p.Status)
	assert.Equal(t, []string{}, p.Accessibility)
	assert.Equal(t, []string{}, p.InclusivityTags)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, []any{}, p.Schedule)
	assert.Equal(t, map[string]any{}, p.Contact)
	assert.Equal(t, Equipment{Provided: false, Required: []string{}}, p.Equipment)
	assert.Equal(t, s.now(), p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestCreate_Validation(t *testing.T) {
	cases := map[string]struct {
		mutate func(in *CreateProgramInput)
		msg    string
	}{
		"missing title":     {func(in *CreateProgramInput) { in.Title = "   " }, "Missing required field: title"},
		"missing cost":      {func(in *CreateProgramInput) { in.Cost = nil }, "Missing required field: cost"},
		"negative cost":     {func(in *CreateProgramInput) { in.Cost = cost(-1) }, "cost must be greater than or equal to 0"},
		"empty age groups":  {func(in *CreateProgramInput) { in.AgeGroups = []string{} }, "Missing required field: ageGroups"},
		"missing cost unit": {func(in *CreateProgramInput) { in.CostUnit = "" }, "Missing required field: costUnit"},
		"bad organizer":     {func(in *CreateProgramInput) { in.OrganizerEmail = "coach" }, "organizer_email must be a valid email address"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := &mockStore{}
			inv := &countingInvalidator{}
			s := newTestService(store, inv, &recordingPublisher{})

			in := validInput()
			tc.mutate(&in)
			_, err := s.Create(context.Background(), organizer, in)
			require.Error(t, err)
			assert.True(t, IsErrBadRequest(err))
			assert.Equal(t, tc.msg, apperr.MessageOf(err))
			assert.Empty(t, store.created)
			assert.Zero(t, inv.clears)
		})
	}
}

func TestCreate_RoleGate(t *testing.T) {
	store := &mockStore{}
	s := newTestService(store, &countingInvalidator{}, &recordingPublisher{})

	_, err := s.Create(context.Background(), role.Caller{UID: "m1", Role: role.Member}, validInput())
	assert.True(t, IsErrPermission(err))

	_, err = s.Create(context.Background(), role.Caller{UID: "n1"}, validInput())
	assert.True(t, IsErrPermission(err))

	_, err = s.Create(context.Background(), role.Caller{}, validInput())
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	assert.Empty(t, store.created)
}

func TestCreate_StoreFailureKeepsCache(t *testing.T) {
	cause := errors.New("firestore: unavailable")
	store := &mockStore{createFunc: func(ctx context.Context, p Program) (*Program, error) { return nil, cause }}
	inv := &countingInvalidator{}
	pub := &recordingPublisher{}
	s := newTestService(store, inv, pub)

	_, err := s.Create(context.Background(), organizer, validInput())
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, inv.clears)
	assert.Empty(t, pub.subjects)
}

func TestCreate_PublishFailureIsNotFatal(t *testing.T) {
	inv := &countingInvalidator{}
	s := newTestService(&mockStore{}, inv, &recordingPublisher{err: errors.New("nats down")})

	out, err := s.Create(context.Background(), organizer, validInput())
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 1, inv.clears)
}
