// Package deletion tracks media deletion requests through the consent flow.
//
// A request starts as Requested. When consent is required it moves to
// AwaitingConsent and stays there until the caller grants or denies it;
// otherwise it is granted immediately. Granted and Denied are terminal.
package deletion

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type State string

const (
	StateRequested       State = "requested"
	StateAwaitingConsent State = "awaiting_consent"
	StateGranted         State = "granted"
	StateDenied          State = "denied"
)

var (
	ErrUnknownRequest    = errors.New("unknown deletion request")
	ErrInvalidTransition = errors.New("invalid deletion state transition")
)

// finishedRetention is how long a granted or denied request stays readable.
const finishedRetention = time.Hour

var transitions = map[State][]State{
	StateRequested:       {StateAwaitingConsent, StateGranted},
	StateAwaitingConsent: {StateGranted, StateDenied},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Request struct {
	ID         string    `json:"id"`
	MediumID   string    `json:"medium_id"`
	MediumType string    `json:"medium_type"`
	State      State     `json:"state"`
	Deleted    bool      `json:"deleted"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Registry holds deletion requests in memory.
type Registry struct {
	requireConsent bool
	logger         zerolog.Logger
	requests       map[string]*Request
	mu             sync.Mutex
	now            func() time.Time
}

func NewRegistry(requireConsent bool, logger zerolog.Logger) *Registry {
	return &Registry{
		requireConsent: requireConsent,
		logger:         logger,
		requests:       make(map[string]*Request),
		now:            time.Now,
	}
}

// Open records a new request for a medium and advances it past Requested.
func (r *Registry) Open(mediumID, mediumType string) Request {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.prune(now)

	req := &Request{
		ID:         uuid.NewString(),
		MediumID:   mediumID,
		MediumType: mediumType,
		State:      StateRequested,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.requests[req.ID] = req

	req.State = StateGranted
	if r.requireConsent {
		req.State = StateAwaitingConsent
	}

	r.logger.Debug().
		Str("request", req.ID).
		Str("medium", mediumID).
		Str("state", string(req.State)).
		Msg("deletion requested")

	return *req
}

func (r *Registry) Grant(id string) (Request, error) {
	return r.move(id, StateGranted)
}

func (r *Registry) Deny(id string) (Request, error) {
	return r.move(id, StateDenied)
}

func (r *Registry) Get(id string) (Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return Request{}, ErrUnknownRequest
	}
	return *req, nil
}

// Complete records the outcome of carrying out a granted request.
func (r *Registry) Complete(id string, deleted bool, err error) (Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return Request{}, ErrUnknownRequest
	}
	if req.State != StateGranted {
		return *req, fmt.Errorf("%w: complete in state %s", ErrInvalidTransition, req.State)
	}

	req.Deleted = deleted
	if err != nil {
		req.Error = err.Error()
	}
	req.UpdatedAt = r.now()
	return *req, nil
}

func (r *Registry) move(id string, to State) (Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return Request{}, ErrUnknownRequest
	}
	if err := r.transition(req, to); err != nil {
		return *req, err
	}

	r.logger.Info().
		Str("request", id).
		Str("medium", req.MediumID).
		Str("state", string(to)).
		Msg("deletion request resolved")

	return *req, nil
}

// prune drops finished requests older than finishedRetention. Requests
// awaiting consent are kept until answered.
func (r *Registry) prune(now time.Time) {
	for id, req := range r.requests {
		if req.State != StateGranted && req.State != StateDenied {
			continue
		}
		if now.Sub(req.UpdatedAt) > finishedRetention {
			delete(r.requests, id)
		}
	}
}

// Len returns the number of tracked requests.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *Registry) transition(req *Request, to State) error {
	if !canTransition(req.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.State, to)
	}
	req.State = to
	req.UpdatedAt = r.now()
	return nil
}
