package ranking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"smartmap-backend/internal/metrics"
)

// ErrLookupInFlight is returned when a search is submitted while another is pending.
var ErrLookupInFlight = errors.New("a lookup is already in progress")

// Looker performs a single rank lookup.
type Looker interface {
	Lookup(ctx context.Context, name string) (Result, error)
}

// Phase is the display state of the lookup widget.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseFound    Phase = "found"
	PhaseNotFound Phase = "not_found"
	PhaseError    Phase = "error"
)

// View is what the widget shows. While loading it carries only the query.
type View struct {
	Phase    Phase  `json:"phase"`
	Query    string `json:"query,omitempty"`
	Rank     int    `json:"rank"`
	ItemName string `json:"itemName,omitempty"`
	Message  string `json:"message,omitempty"`
}

const transportErrorMessage = "통신 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."

// Tracker is one session's lookup widget. Every submission takes a new token and
// only the answer carrying the current token is shown.
type Tracker struct {
	looker Looker
	parent context.Context
	log    *zap.Logger

	mu       sync.Mutex
	token    uint64
	inFlight bool
	cancel   context.CancelFunc
	view     View
}

// NewTracker creates an idle tracker. Requests run under parent, not under the
// context of whatever submitted them.
func NewTracker(parent context.Context, looker Looker, log *zap.Logger) *Tracker {
	return &Tracker{
		looker: looker,
		parent: parent,
		log:    log,
		view:   View{Phase: PhaseIdle},
	}
}

// View returns the current display state.
func (t *Tracker) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Submit starts a lookup for name. A blank name is ignored and returns a nil channel.
// The returned channel is closed once the request has resolved, whether its answer
// was shown or discarded.
func (t *Tracker) Submit(name string) (<-chan struct{}, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	t.mu.Lock()
	if t.inFlight {
		t.mu.Unlock()
		return nil, ErrLookupInFlight
	}
	t.token++
	token := t.token
	ctx, cancel := context.WithCancel(t.parent)
	t.cancel = cancel
	t.inFlight = true
	t.view = View{Phase: PhaseLoading, Query: name}
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		start := time.Now()
		res, err := t.looker.Lookup(ctx, name)
		t.complete(token, name, res, err, time.Since(start))
	}()
	return done, nil
}

// Abandon drops the pending lookup, if any, and returns the widget to idle. A
// response arriving later is ignored. A result already shown is kept.
func (t *Tracker) Abandon() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.inFlight {
		return
	}
	t.token++
	t.inFlight = false
	t.cancel()
	t.view = View{Phase: PhaseIdle}
}

func (t *Tracker) complete(token uint64, name string, res Result, err error, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if token != t.token {
		t.log.Debug("discarding superseded rank lookup", zap.String("name", name))
		metrics.ObserveRankLookup(metrics.OutcomeDiscarded, elapsed)
		return
	}
	t.inFlight = false

	switch {
	case err != nil:
		t.log.Info("rank lookup failed", zap.String("name", name), zap.Error(err))
		metrics.ObserveRankLookup(metrics.OutcomeError, elapsed)
		t.view = View{Phase: PhaseError, Query: name, Message: transportErrorMessage}
	case res.Status == StatusFound:
		metrics.ObserveRankLookup(metrics.OutcomeFound, elapsed)
		t.view = View{
			Phase:    PhaseFound,
			Query:    name,
			Rank:     res.Rank,
			ItemName: res.ItemName,
			Message:  fmt.Sprintf("%s님의 %s 대기 순번은 %d번입니다.", name, res.ItemName, res.Rank),
		}
	default:
		metrics.ObserveRankLookup(metrics.OutcomeNotFound, elapsed)
		t.view = View{
			Phase:   PhaseNotFound,
			Query:   name,
			Message: fmt.Sprintf("'%s'님의 대기 정보를 찾을 수 없습니다.", name),
		}
	}
}
