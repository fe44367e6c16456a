// Package session keeps per-browser state: navigation, the lookup widget and the admin gate.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"smartmap-backend/internal/admin"
	"smartmap-backend/internal/metrics"
	"smartmap-backend/internal/nav"
	"smartmap-backend/internal/ranking"
)

// ErrLookupUnavailable is returned when a lookup is submitted outside the waiting step.
var ErrLookupUnavailable = errors.New("waiting lookup is not the active view")

// Session is one browser's state. All access goes through Do, which gives the
// session a single logical thread of execution.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	nav    *nav.Machine
	lookup *ranking.Tracker
	admin  *admin.Panel
}

// Do runs fn with exclusive access to the session.
func (s *Session) Do(fn func(v *View) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&View{s: s})
}

// View exposes the session's parts inside Do.
type View struct {
	s *Session
}

func (v *View) Nav() *nav.Machine        { return v.s.nav }
func (v *View) Lookup() *ranking.Tracker { return v.s.lookup }
func (v *View) Admin() *admin.Panel      { return v.s.admin }

// SubmitLookup starts a rank lookup, which is only possible on the waiting step.
func (v *View) SubmitLookup(name string) (<-chan struct{}, error) {
	if v.s.nav.State() != nav.StateWaiting {
		return nil, ErrLookupUnavailable
	}
	return v.s.lookup.Submit(name)
}

// Manager creates sessions and expires idle ones.
type Manager struct {
	ctx    context.Context
	items  *cache.Cache
	looker ranking.Looker
	auth   admin.Authenticator
	store  admin.Committer
	now    func() time.Time
	log    *zap.Logger
}

// NewManager creates a manager whose sessions expire after ttl without use.
// Lookups started by sessions run under ctx.
func NewManager(ctx context.Context, ttl time.Duration, looker ranking.Looker, auth admin.Authenticator, store admin.Committer, log *zap.Logger) *Manager {
	m := &Manager{
		ctx:    ctx,
		items:  cache.New(ttl, ttl/2+time.Second),
		looker: looker,
		auth:   auth,
		store:  store,
		now:    time.Now,
		log:    log,
	}
	m.items.OnEvicted(func(id string, v interface{}) {
		s := v.(*Session)
		s.mu.Lock()
		s.lookup.Abandon()
		s.mu.Unlock()
		metrics.SetActiveSessions(m.items.ItemCount())
		m.log.Debug("session expired", zap.String("session_id", id))
	})
	return m
}

// Create starts a new session on the landing view.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: m.now(),
		nav:       nav.New(),
		lookup:    ranking.NewTracker(m.ctx, m.looker, m.log),
		admin:     admin.NewPanel(m.auth, m.store, m.now),
	}
	s.nav.OnChange(func(from, to nav.Snapshot) {
		if from.State == nav.StateWaiting && to.State != nav.StateWaiting {
			s.lookup.Abandon()
		}
	})

	m.items.SetDefault(s.ID, s)
	metrics.SetActiveSessions(m.items.ItemCount())
	m.log.Debug("session created", zap.String("session_id", s.ID))
	return s
}

// Get returns a live session and extends its lifetime.
func (m *Manager) Get(id string) (*Session, bool) {
	v, ok := m.items.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	m.items.SetDefault(id, s)
	return s, true
}

// Delete ends a session.
func (m *Manager) Delete(id string) {
	m.items.Delete(id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.items.ItemCount()
}
