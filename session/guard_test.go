package session

import (
	"testing"

	"github.com/M7HZ/bright-clinic/models"
	"github.com/stretchr/testify/assert"
)

func TestDecideWaitsWhileLoading(t *testing.T) {
	t.Parallel()

	// A loading state must never produce a redirect, whatever else it
	// contains.
	states := []State{
		{Loading: true},
		{Loading: true, User: &Identity{ID: "u1"}},
		{Loading: true, User: &Identity{ID: "u1"}, Role: models.RolePatient},
	}
	for _, st := range states {
		v := Decide(st, models.RoleDoctor)
		assert.Equal(t, DecisionWait, v.Decision)
		assert.Empty(t, v.RedirectTo)
	}
}

func TestDecideAnonymousRedirectsToLoginSurface(t *testing.T) {
	t.Parallel()

	st := State{Loading: false}

	v := Decide(st, models.RolePatient)
	assert.Equal(t, DecisionRedirect, v.Decision)
	assert.Equal(t, "/patient-login", v.RedirectTo)

	v = Decide(st, models.RoleDoctor)
	assert.Equal(t, DecisionRedirect, v.Decision)
	assert.Equal(t, "/staff-login", v.RedirectTo)

	v = Decide(st, models.RoleClerkAdmin)
	assert.Equal(t, DecisionRedirect, v.Decision)
	assert.Equal(t, "/staff-login", v.RedirectTo)
}

func TestDecideWrongRoleRedirects(t *testing.T) {
	t.Parallel()

	st := State{
		User: &Identity{ID: "u1"},
		Role: models.RolePatient,
	}

	v := Decide(st, models.RoleDoctor)
	assert.Equal(t, DecisionRedirect, v.Decision)
	assert.Equal(t, "/staff-login", v.RedirectTo)
}

func TestDecideMissingRoleRedirects(t *testing.T) {
	t.Parallel()

	// Signed in but no role row resolved: treated as unauthenticated.
	st := State{User: &Identity{ID: "u1"}}

	v := Decide(st, models.RolePatient)
	assert.Equal(t, DecisionRedirect, v.Decision)
	assert.Equal(t, "/patient-login", v.RedirectTo)
}

func TestDecideMatchingRoleAllows(t *testing.T) {
	t.Parallel()

	for _, role := range []models.AppRole{models.RolePatient, models.RoleDoctor, models.RoleClerkAdmin} {
		st := State{User: &Identity{ID: "u1"}, Role: role}
		v := Decide(st, role)
		assert.Equal(t, DecisionAllow, v.Decision)
		assert.Empty(t, v.RedirectTo)
	}
}
