package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/domain/faq"
	"community-sport/backend/internal/domain/program"
	"community-sport/backend/internal/logger"
	"community-sport/backend/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPrograms struct {
	mu        sync.Mutex
	listFunc  func(ctx context.Context) ([]program.Program, error)
	getFunc   func(ctx context.Context, id string) (*program.Program, error)
	listCalls int
	getCalls  int
}

func (m *mockPrograms) List(ctx context.Context) ([]program.Program, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	return m.listFunc(ctx)
}

func (m *mockPrograms) Get(ctx context.Context, id string) (*program.Program, error) {
	m.mu.Lock()
	m.getCalls++
	m.mu.Unlock()
	if m.getFunc == nil {
		return nil, apperr.NotFound("Program not found")
	}
	return m.getFunc(ctx, id)
}

type mockFaqs struct {
	calls int
	err   error
}

func (m *mockFaqs) List(ctx context.Context) ([]faq.Faq, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []faq.Faq{{ID: "f1", Question: "Is parking available?"}}, nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func staticPrograms(ps ...program.Program) *mockPrograms {
	return &mockPrograms{listFunc: func(ctx context.Context) ([]program.Program, error) { return ps, nil }}
}

func newTestCache(ps ProgramSource, fs FaqSource) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	c := NewCache(ps, fs, DefaultTTL, logger.Discard())
	c.now = clock.Now
	return c, clock
}

func TestCache_ProgramsWithinTTL(t *testing.T) {
	src := staticPrograms(program.Program{ID: "p1"})
	c, clock := newTestCache(src, &mockFaqs{})
	ctx := context.Background()

	first, err := c.Programs(ctx)
	require.NoError(t, err)
	clock.Advance(DefaultTTL - time.Second)
	second, err := c.Programs(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.listCalls)

	clock.Advance(time.Second)
	_, err = c.Programs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.listCalls)
}

func TestCache_ClearForcesRefetch(t *testing.T) {
	src := staticPrograms(program.Program{ID: "p1"})
	faqs := &mockFaqs{}
	c, _ := newTestCache(src, faqs)
	ctx := context.Background()

	_, _ = c.Programs(ctx)
	_, _ = c.Faqs(ctx)
	c.Clear()
	_, _ = c.Programs(ctx)
	_, _ = c.Faqs(ctx)

	assert.Equal(t, 2, src.listCalls)
	assert.Equal(t, 2, faqs.calls)
}

func TestCache_CollectionsAreIndependent(t *testing.T) {
	src := staticPrograms()
	faqs := &mockFaqs{}
	c, _ := newTestCache(src, faqs)
	ctx := context.Background()

	_, _ = c.Faqs(ctx)
	_, _ = c.Faqs(ctx)
	assert.Equal(t, 1, faqs.calls)
	assert.Equal(t, 0, src.listCalls)
}

func TestCache_FailuresAreNotCached(t *testing.T) {
	fail := true
	src := &mockPrograms{listFunc: func(ctx context.Context) ([]program.Program, error) {
		if fail {
			return nil, errors.New("deadline exceeded")
		}
		return []program.Program{{ID: "p1"}}, nil
	}}
	c, _ := newTestCache(src, &mockFaqs{})
	ctx := context.Background()

	_, err := c.Programs(ctx)
	require.Error(t, err)

	fail = false
	ps, err := c.Programs(ctx)
	require.NoError(t, err)
	assert.Len(t, ps, 1)
	assert.Equal(t, 2, src.listCalls)
}

func TestCache_ProgramLookup(t *testing.T) {
	src := staticPrograms(program.Program{ID: "p1", Title: "Cached"})
	src.getFunc = func(ctx context.Context, id string) (*program.Program, error) {
		return &program.Program{ID: id, Title: "Point read"}, nil
	}
	c, clock := newTestCache(src, &mockFaqs{})
	ctx := context.Background()

	p, err := c.Program(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Point read", p.Title)
	assert.Equal(t, 0, src.listCalls, "point reads must not populate the cache")

	_, _ = c.Programs(ctx)
	p, err = c.Program(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cached", p.Title)
	assert.Equal(t, 1, src.getCalls)

	p, err = c.Program(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Point read", p.Title)
	assert.Equal(t, 2, src.getCalls)

	clock.Advance(DefaultTTL)
	_, _ = c.Program(ctx, "p1")
	assert.Equal(t, 3, src.getCalls)
}

func TestCache_ClearDuringFetchDropsResult(t *testing.T) {
	var c *Cache
	src := &mockPrograms{}
	src.listFunc = func(ctx context.Context) ([]program.Program, error) {
		if src.listCalls == 1 {
			c.Clear()
		}
		return []program.Program{{ID: "p1"}}, nil
	}
	c, _ = newTestCache(src, &mockFaqs{})
	ctx := context.Background()

	_, _ = c.Programs(ctx)
	_, _ = c.Programs(ctx)
	assert.Equal(t, 2, src.listCalls)
}

func TestService_FailureSemantics(t *testing.T) {
	src := &mockPrograms{listFunc: func(ctx context.Context) ([]program.Program, error) {
		return nil, errors.New("unavailable")
	}}
	c, _ := newTestCache(src, &mockFaqs{err: errors.New("unavailable")})
	s := NewService(c, logger.Discard())
	ctx := context.Background()

	_, err := s.Search(ctx, search.Filters{Query: "netball"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, "Failed to search programs. Please try again later.", apperr.MessageOf(err))

	_, err = s.Programs(ctx)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))

	_, err = s.Faqs(ctx)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))

	assert.Empty(t, s.Featured(ctx, 3))
	assert.Empty(t, s.SportOptions(ctx))
	assert.Empty(t, s.AgeGroupOptions(ctx))
	assert.Empty(t, s.AccessibilityOptions(ctx))
}

func TestService_Program(t *testing.T) {
	src := staticPrograms()
	c, _ := newTestCache(src, &mockFaqs{})
	s := NewService(c, logger.Discard())
	ctx := context.Background()

	_, err := s.Program(ctx, "missing")
	assert.True(t, program.IsErrNotFound(err))

	_, err = s.Program(ctx, "")
	assert.True(t, program.IsErrBadRequest(err))

	src.getFunc = func(ctx context.Context, id string) (*program.Program, error) {
		return nil, errors.New("transport closing")
	}
	_, err = s.Program(ctx, "p9")
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestService_SearchAndFeatured(t *testing.T) {
	src := staticPrograms(
		program.Program{ID: "paid", Title: "Tennis Clinic", Sport: "Tennis", Cost: 20},
		program.Program{ID: "nn", Title: "Netball Night", Sport: "Netball", AgeGroups: []string{"adult"}},
	)
	c, _ := newTestCache(src, &mockFaqs{})
	s := NewService(c, logger.Discard())
	ctx := context.Background()

	found, err := s.Search(ctx, search.Filters{Query: "netball"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "nn", found[0].ID)

	featured := s.Featured(ctx, 1)
	require.Len(t, featured, 1)
	assert.Equal(t, "nn", featured[0].ID)

	assert.Equal(t, []string{"Netball", "Tennis"}, s.SportOptions(ctx))
	assert.Equal(t, 1, src.listCalls)
}
