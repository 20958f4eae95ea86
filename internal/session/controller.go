package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/painresearch/internal/research"
)

// Controller turns a submit event into one background research call and
// feeds the outcome back into the session.
type Controller struct {
	Session    *Session
	Researcher research.Researcher
	// OnComplete, when set, observes every outcome after it was applied or
	// dropped as stale.
	OnComplete func(t Ticket, applied bool)

	mu       sync.Mutex
	inFlight bool
	wg       sync.WaitGroup
}

// Start submits p and, when accepted, performs the request in the background.
// It returns false without calling the researcher when the topic is blank or
// a request is already outstanding.
//
// The call runs on a context detached from the caller. Reset does not cancel
// it, so Start keeps refusing until that call has returned and its stale
// answer was dropped.
func (c *Controller) Start(p research.Params) bool {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		log.Debug().Str("topic", p.Topic).Msg("previous research call still running")
		return false
	}
	t, ok := c.Session.Submit(p)
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.inFlight = true
	c.mu.Unlock()

	log.Info().Uint64("generation", t.Generation).Str("topic", p.Topic).Str("depth", string(p.Depth)).Msg("research submitted")
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		res, err := c.Researcher.Perform(context.Background(), t.Params)
		applied := c.Session.Complete(t, res, err)
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
		if !applied {
			log.Info().Uint64("generation", t.Generation).Msg("dropping stale research response")
		}
		if c.OnComplete != nil {
			c.OnComplete(t, applied)
		}
	}()
	return true
}

// Busy reports whether an outbound call is running, including one whose
// session was reset meanwhile.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Wait blocks until every started request has completed.
func (c *Controller) Wait() {
	c.wg.Wait()
}
