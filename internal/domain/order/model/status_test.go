package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusPaid},
		{StatusPending, StatusCanceled},
		{StatusAwaitingPayment, StatusPaid},
		{StatusAwaitingPayment, StatusCanceled},
		{StatusAwaitingPayment, StatusExpired},
		{StatusPaid, StatusShipped},
		{StatusPaid, StatusCanceled},
		{StatusShipped, StatusCompleted},
	}
	for _, e := range allowed {
		assert.True(t, CanTransition(e.from, e.to), "%s -> %s should be allowed", e.from, e.to)
	}

	denied := []struct{ from, to string }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusExpired},
		{StatusPaid, StatusExpired},
		{StatusShipped, StatusCanceled},
		{StatusCanceled, StatusPending},
		{StatusCanceled, StatusCanceled}, // repeat cancel is not a transition
		{StatusCompleted, StatusShipped},
		{StatusExpired, StatusPaid},
	}
	for _, e := range denied {
		assert.False(t, CanTransition(e.from, e.to), "%s -> %s should be rejected", e.from, e.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []string{StatusCompleted, StatusCanceled, StatusExpired} {
		assert.True(t, IsTerminal(s), "%s should be terminal", s)
	}
	for _, s := range []string{StatusPending, StatusAwaitingPayment, StatusPaid, StatusShipped} {
		assert.False(t, IsTerminal(s), "%s should not be terminal", s)
	}
	assert.False(t, IsTerminal("BOGUS"))
}
