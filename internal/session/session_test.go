package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartmap-backend/internal/admin"
	"smartmap-backend/internal/nav"
	"smartmap-backend/internal/ranking"
	"smartmap-backend/internal/store"
)

// blockingLooker answers only when released, or returns the context error.
type blockingLooker struct {
	release chan ranking.Result
}

func (b *blockingLooker) Lookup(ctx context.Context, name string) (ranking.Result, error) {
	select {
	case res := <-b.release:
		res.Name = name
		return res, nil
	case <-ctx.Done():
		return ranking.Result{}, ctx.Err()
	}
}

func newManager(t *testing.T, ttl time.Duration) (*Manager, *blockingLooker) {
	t.Helper()
	looker := &blockingLooker{release: make(chan ranking.Result, 1)}
	s := store.New(store.NewMemorySlot(), "k", zap.NewNop())
	return NewManager(context.Background(), ttl, looker, admin.StaticCode("1217"), s, zap.NewNop()), looker
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lookup did not resolve")
	}
}

func TestManager_CreateAndGet(t *testing.T) {
	m, _ := newManager(t, time.Minute)
	s := m.Create()
	assert.NotEmpty(t, s.ID)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Count())

	_, ok = m.Get("missing")
	assert.False(t, ok)

	m.Delete(s.ID)
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
}

func TestSession_LookupOnlyOnWaitingStep(t *testing.T) {
	m, _ := newManager(t, time.Minute)
	s := m.Create()

	err := s.Do(func(v *View) error {
		_, err := v.SubmitLookup("홍길동")
		return err
	})
	assert.ErrorIs(t, err, ErrLookupUnavailable)
}

func TestSession_NavigatingAwayIgnoresLateAnswer(t *testing.T) {
	m, looker := newManager(t, time.Minute)
	s := m.Create()

	var done <-chan struct{}
	require.NoError(t, s.Do(func(v *View) error {
		require.NoError(t, v.Nav().Start())
		require.NoError(t, v.Nav().ChooseLiveQueue())
		var err error
		done, err = v.SubmitLookup("홍길동")
		return err
	}))

	// Switching tabs must not fail while the request is pending.
	require.NoError(t, s.Do(func(v *View) error {
		assert.Equal(t, ranking.PhaseLoading, v.Lookup().View().Phase)
		return v.Nav().GoTab(nav.TabAdmin)
	}))

	looker.release <- ranking.Result{Status: ranking.StatusFound, Rank: 3, ItemName: "휠체어"}
	waitDone(t, done)

	require.NoError(t, s.Do(func(v *View) error {
		assert.Equal(t, ranking.PhaseIdle, v.Lookup().View().Phase)
		return nil
	}))
}

func TestSession_LookupResolvesWhileOnWaitingStep(t *testing.T) {
	m, looker := newManager(t, time.Minute)
	s := m.Create()

	var done <-chan struct{}
	require.NoError(t, s.Do(func(v *View) error {
		require.NoError(t, v.Nav().Start())
		require.NoError(t, v.Nav().ChooseLiveQueue())
		var err error
		done, err = v.SubmitLookup("홍길동")
		return err
	}))
	looker.release <- ranking.Result{Status: ranking.StatusFound, Rank: 7, ItemName: "휠체어"}
	waitDone(t, done)

	require.NoError(t, s.Do(func(v *View) error {
		view := v.Lookup().View()
		assert.Equal(t, ranking.PhaseFound, view.Phase)
		assert.Equal(t, 7, view.Rank)
		return nil
	}))
}

func TestSession_ResolvedResultSurvivesTabSwitch(t *testing.T) {
	m, looker := newManager(t, time.Minute)
	s := m.Create()

	var done <-chan struct{}
	require.NoError(t, s.Do(func(v *View) error {
		require.NoError(t, v.Nav().Start())
		require.NoError(t, v.Nav().ChooseLiveQueue())
		var err error
		done, err = v.SubmitLookup("홍길동")
		return err
	}))
	looker.release <- ranking.Result{Status: ranking.StatusFound, Rank: 0, ItemName: "휠체어"}
	waitDone(t, done)

	require.NoError(t, s.Do(func(v *View) error {
		require.NoError(t, v.Nav().GoTab(nav.TabAdmin))
		require.NoError(t, v.Nav().GoTab(nav.TabExplorer))
		assert.Equal(t, nav.StateWaiting, v.Nav().State())

		view := v.Lookup().View()
		assert.Equal(t, ranking.PhaseFound, view.Phase)
		assert.Equal(t, "홍길동님의 휠체어 대기 순번은 0번입니다.", view.Message)
		return nil
	}))
}

func TestSession_AdminPanelPerSession(t *testing.T) {
	m, _ := newManager(t, time.Minute)
	a, b := m.Create(), m.Create()

	require.NoError(t, a.Do(func(v *View) error {
		v.Admin().SetInput("1217")
		return v.Admin().Submit()
	}))
	require.NoError(t, b.Do(func(v *View) error {
		assert.False(t, v.Admin().Authenticated())
		return nil
	}))
}

func TestManager_ExpiryAbandonsLookup(t *testing.T) {
	m, _ := newManager(t, 50*time.Millisecond)
	s := m.Create()

	var done <-chan struct{}
	require.NoError(t, s.Do(func(v *View) error {
		require.NoError(t, v.Nav().Start())
		require.NoError(t, v.Nav().ChooseLiveQueue())
		var err error
		done, err = v.SubmitLookup("홍길동")
		return err
	}))

	time.Sleep(100 * time.Millisecond)
	m.items.DeleteExpired()

	waitDone(t, done)
	_, ok := m.Get(s.ID)
	assert.False(t, ok)
}
