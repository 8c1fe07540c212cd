package auth

import (
	"github.com/rs/zerolog/log"
)

// AuthStatus is the request-scoped outcome of access-token verification.
// It is derived fresh on every request and never persisted.
type AuthStatus struct {
	IsAuthenticated bool
	UserID          string
}

// Envelope is the uniform result of a gated operation. Failures are carried
// inside it rather than returned as errors, so the transport edge alone
// decides how to surface them.
type Envelope struct {
	Data       interface{} `json:"data"`
	Errors     []string    `json:"errors,omitempty"`
	StatusCode int         `json:"-"`
}

// Operation is a business operation run behind the gate.
type Operation func() (interface{}, error)

func envelopeFor(err error, code int) Envelope {
	return Envelope{StatusCode: code, Errors: []string{err.Error()}}
}

// RunIfAuthenticated runs op only for authenticated callers. Operation
// failures and panics are recovered into a 500 envelope; the gate itself has
// no side effects beyond invoking op.
func RunIfAuthenticated(status AuthStatus, op Operation) Envelope {
	if !status.IsAuthenticated {
		return envelopeFor(ErrUnauthenticated, 401)
	}
	return run(op)
}

// RunIfAuthorized additionally requires the caller to own the target
// resource. An authenticated caller with the wrong identity is still denied
// and op never runs.
func RunIfAuthorized(status AuthStatus, targetUserID string, op Operation) Envelope {
	if !status.IsAuthenticated {
		return envelopeFor(ErrUnauthenticated, 401)
	}
	if status.UserID != targetUserID {
		return envelopeFor(ErrUnauthorized, 401)
	}
	return run(op)
}

func run(op Operation) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Gated operation panicked")
			env = Envelope{StatusCode: 500, Errors: []string{"internal error"}}
		}
	}()

	data, err := op()
	if err != nil {
		log.Error().Err(err).Msg("Gated operation failed")
		return Envelope{StatusCode: 500, Errors: []string{"internal error"}}
	}
	return Envelope{Data: data, StatusCode: 200}
}
