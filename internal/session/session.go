// Package session holds the single current research state behind the UI.
//
// The state is a small finite-state machine with phases idle, loading,
// result and failed. It only moves on Submit, Complete and Reset. Every
// Submit and Reset bumps a generation counter; a completion carrying an older
// generation is dropped, so a response that arrives after a reset or a newer
// submit can never overwrite fresher state.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/hyperifyio/painresearch/internal/research"
)

// Phase is the externally visible state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseResult  Phase = "result"
	PhaseFailed  Phase = "failed"
)

// FailureMessage is the only error text shown to users.
const FailureMessage = "Не удалось провести исследование. Пожалуйста, попробуйте позже."

// Ticket identifies one submitted request.
type Ticket struct {
	Generation uint64
	Params     research.Params
}

// Snapshot is a read-only copy of the session for rendering.
type Snapshot struct {
	Phase      Phase            `json:"phase"`
	Generation uint64           `json:"generation"`
	Params     research.Params  `json:"params"`
	Result     *research.Result `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
	StartedAt  time.Time        `json:"startedAt,omitempty"`
	Exporting  bool             `json:"exporting"`
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	phase     Phase
	gen       uint64
	params    research.Params
	result    *research.Result
	errMsg    string
	startedAt time.Time
	exporting bool

	now func() time.Time
}

// New returns an idle session.
func New() *Session {
	return &Session{phase: PhaseIdle, now: time.Now}
}

// Submit moves to loading. It refuses a blank topic and a second submit while
// a request is outstanding; in both cases no ticket is issued.
func (s *Session) Submit(p research.Params) (Ticket, bool) {
	if strings.TrimSpace(p.Topic) == "" {
		return Ticket{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseLoading {
		return Ticket{}, false
	}
	s.gen++
	s.phase = PhaseLoading
	s.params = p
	s.errMsg = ""
	s.startedAt = s.now()
	return Ticket{Generation: s.gen, Params: p}, true
}

// Complete applies the outcome of the request identified by t. It reports
// false when the outcome is stale and was ignored.
//
// On success the result is replaced wholesale. On failure the previous result
// value is left untouched and the session shows the generic failure message
// over the form.
func (s *Session) Complete(t Ticket, res *research.Result, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Generation != s.gen || s.phase != PhaseLoading {
		return false
	}
	if err != nil || res == nil {
		s.phase = PhaseFailed
		s.errMsg = FailureMessage
		return true
	}
	s.result = res
	s.phase = PhaseResult
	return true
}

// Reset clears the result, the error and the parameters and returns to the
// form, whatever happened before. An outstanding request becomes stale.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.phase = PhaseIdle
	s.params = research.Params{}
	s.result = nil
	s.errMsg = ""
	s.startedAt = time.Time{}
}

// BeginExport claims the export slot. It fails while another export runs or
// when there is no result to export.
func (s *Session) BeginExport() (research.Params, *research.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting || s.phase != PhaseResult || s.result == nil {
		return research.Params{}, nil, false
	}
	s.exporting = true
	return s.params, s.result, true
}

// EndExport releases the export slot.
func (s *Session) EndExport() {
	s.mu.Lock()
	s.exporting = false
	s.mu.Unlock()
}

// Snapshot copies the current state. The Result pointer is shared; results
// are never mutated after parsing.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Phase:      s.phase,
		Generation: s.gen,
		Params:     s.params,
		Error:      s.errMsg,
		StartedAt:  s.startedAt,
		Exporting:  s.exporting,
	}
	if s.phase == PhaseResult {
		snap.Result = s.result
	}
	return snap
}
