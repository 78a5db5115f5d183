// Package prompt delivers user responses to the workflow waiting for them.
//
// A workflow registers the custom IDs of the components it just sent with
// Expect and blocks in Pending.Wait. The platform adapter calls Resolve for
// every component or form interaction; the first matching response from the
// expected user resolves the prompt and unregisters all of its IDs, so each
// prompt resolves at most once.
package prompt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ytget/soundpack/internal/ui"
)

var (
	// ErrTimeout is returned by Wait when nobody answered in time
	ErrTimeout = errors.New("prompt timed out")
)

// Replier answers the platform interaction that produced a response
type Replier interface {
	// OpenForm answers by opening a form
	OpenForm(ctx context.Context, form ui.Form) error
	// Acknowledge answers without visible output
	Acknowledge(ctx context.Context) error
	// Notify answers with a short message only the user sees
	Notify(ctx context.Context, text string) error
}

// Response is one user interaction with a prompt
type Response struct {
	CustomID string
	UserID   string
	Values   []string          // dropdown selection
	Fields   map[string]string // form inputs by ID
	Reply    Replier
}

// Value returns the first selected value, or "" if nothing was selected
func (r Response) Value() string {
	if len(r.Values) == 0 {
		return ""
	}
	return r.Values[0]
}

// Broker routes responses to pending prompts by custom ID
type Broker struct {
	mu      sync.Mutex
	pending map[string]*Pending
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{pending: make(map[string]*Pending)}
}

// Expect registers a prompt answered by any of ids. An empty userID accepts
// responses from anyone.
func (b *Broker) Expect(userID string, ids ...string) *Pending {
	p := &Pending{
		broker: b,
		userID: userID,
		ids:    ids,
		ch:     make(chan Response, 1),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range ids {
		b.pending[id] = p
	}
	return p
}

// Resolve delivers r to the prompt waiting for r.CustomID. It returns false
// when no prompt matches, the prompt belongs to another user, or it was
// already resolved.
func (b *Broker) Resolve(r Response) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[r.CustomID]
	if !ok {
		return false
	}
	if p.userID != "" && p.userID != r.UserID {
		return false
	}

	b.unregisterLocked(p)
	p.ch <- r
	return true
}

// Len returns the number of registered IDs
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Broker) unregisterLocked(p *Pending) {
	for _, id := range p.ids {
		if b.pending[id] == p {
			delete(b.pending, id)
		}
	}
}

// Pending is a registered prompt
type Pending struct {
	broker *Broker
	userID string
	ids    []string
	ch     chan Response
}

// IDs returns the custom IDs answering the prompt
func (p *Pending) IDs() []string {
	return p.ids
}

// Wait blocks until the prompt is resolved, timeout elapses or ctx is done.
// A zero timeout waits for ctx only.
func (p *Pending) Wait(ctx context.Context, timeout time.Duration) (Response, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case r := <-p.ch:
		return r, nil
	case <-expired:
		return p.settle(ErrTimeout)
	case <-ctx.Done():
		return p.settle(ctx.Err())
	}
}

// Cancel unregisters the prompt. Later responses are not delivered.
func (p *Pending) Cancel() {
	p.broker.mu.Lock()
	defer p.broker.mu.Unlock()
	p.broker.unregisterLocked(p)
}

// settle unregisters the prompt, keeping a response that raced with the
// timeout.
func (p *Pending) settle(err error) (Response, error) {
	p.Cancel()
	select {
	case r := <-p.ch:
		return r, nil
	default:
		return Response{}, err
	}
}
