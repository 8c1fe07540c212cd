package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunIfAuthenticatedDeniesAnonymous(t *testing.T) {
	ran := false
	env := RunIfAuthenticated(AuthStatus{}, func() (interface{}, error) {
		ran = true
		return "data", nil
	})

	assert.False(t, ran, "operation must not run for anonymous callers")
	assert.Equal(t, 401, env.StatusCode)
	assert.Nil(t, env.Data)
	assert.Equal(t, []string{"unauthenticated"}, env.Errors)
}

func TestRunIfAuthenticatedForwardsResult(t *testing.T) {
	status := AuthStatus{IsAuthenticated: true, UserID: "user-1"}

	env := RunIfAuthenticated(status, func() (interface{}, error) {
		return "data", nil
	})

	assert.Equal(t, 200, env.StatusCode)
	assert.Equal(t, "data", env.Data)
	assert.Empty(t, env.Errors)
}

func TestRunIfAuthenticatedWrapsFailure(t *testing.T) {
	status := AuthStatus{IsAuthenticated: true, UserID: "user-1"}

	env := RunIfAuthenticated(status, func() (interface{}, error) {
		return nil, errors.New("db exploded")
	})

	assert.Equal(t, 500, env.StatusCode)
	assert.Nil(t, env.Data)
	// The concrete failure must not leak to the caller.
	assert.Equal(t, []string{"internal error"}, env.Errors)
}

func TestRunIfAuthenticatedWrapsPanic(t *testing.T) {
	status := AuthStatus{IsAuthenticated: true, UserID: "user-1"}

	var env Envelope
	assert.NotPanics(t, func() {
		env = RunIfAuthenticated(status, func() (interface{}, error) {
			panic("operation blew up")
		})
	})

	assert.Equal(t, 500, env.StatusCode)
	assert.Nil(t, env.Data)
	assert.Equal(t, []string{"internal error"}, env.Errors)
}

func TestRunIfAuthorizedDeniesMismatchedUser(t *testing.T) {
	status := AuthStatus{IsAuthenticated: true, UserID: "user-1"}

	ran := false
	env := RunIfAuthorized(status, "user-2", func() (interface{}, error) {
		ran = true
		return "data", nil
	})

	assert.False(t, ran, "operation must not run for mismatched owner")
	assert.Equal(t, 401, env.StatusCode)
	assert.Equal(t, []string{"unauthorized"}, env.Errors)
}

func TestRunIfAuthorizedDeniesAnonymous(t *testing.T) {
	env := RunIfAuthorized(AuthStatus{}, "user-1", func() (interface{}, error) {
		return "data", nil
	})

	assert.Equal(t, 401, env.StatusCode)
	assert.Equal(t, []string{"unauthenticated"}, env.Errors)
}

func TestRunIfAuthorizedAllowsOwner(t *testing.T) {
	status := AuthStatus{IsAuthenticated: true, UserID: "user-1"}

	env := RunIfAuthorized(status, "user-1", func() (interface{}, error) {
		return 42, nil
	})

	assert.Equal(t, 200, env.StatusCode)
	assert.Equal(t, 42, env.Data)
}
