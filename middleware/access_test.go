package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backend_minutas/services"
)

func TestIsRouteAllowed_FullAccessStates(t *testing.T) {
	for _, state := range []services.AccessState{services.AccessActive, services.AccessTrialing} {
		assert.True(t, IsRouteAllowed(state, "/api/minutes"), "%s", state)
		assert.True(t, IsRouteAllowed(state, "/api/projects/5"), "%s", state)
		assert.True(t, IsRouteAllowed(state, "/api/billing/subscription"), "%s", state)
	}
}

func TestIsRouteAllowed_BillingOnlyStates(t *testing.T) {
	states := []services.AccessState{
		services.AccessUnapproved,
		services.AccessPastDue,
		services.AccessTrialExpired,
	}
	for _, state := range states {
		assert.True(t, IsRouteAllowed(state, "/api/billing/payments"), "%s", state)
		assert.True(t, IsRouteAllowed(state, "/api/account/company"), "%s", state)
		assert.True(t, IsRouteAllowed(state, "/api/plans"), "%s", state)

		assert.False(t, IsRouteAllowed(state, "/api/minutes"), "%s", state)
		assert.False(t, IsRouteAllowed(state, "/api/projects"), "%s", state)
		assert.False(t, IsRouteAllowed(state, "/api/users"), "%s", state)
	}
}

func TestIsRouteAllowed_NoCompany(t *testing.T) {
	assert.True(t, IsRouteAllowed(services.AccessNoCompany, "/api/auth/login"))
	assert.False(t, IsRouteAllowed(services.AccessNoCompany, "/api/billing/subscription"))
	assert.False(t, IsRouteAllowed(services.AccessNoCompany, "/api/minutes"))
}

func TestIsRouteAllowed_UnknownStateDeniesEverything(t *testing.T) {
	assert.False(t, IsRouteAllowed(services.AccessState("bogus"), "/api/minutes"))
	assert.False(t, IsRouteAllowed(services.AccessState("bogus"), "/api/billing/payments"))
}
