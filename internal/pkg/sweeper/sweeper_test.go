package sweeper

import (
	"errors"
	"testing"
	"time"

	"storefront_api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	m.Run()
}

// MockExpirer is a mock of Expirer
type MockExpirer struct {
	mock.Mock
}

func (m *MockExpirer) ExpireOverdue() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func TestSweep(t *testing.T) {
	t.Run("Runs one pass", func(t *testing.T) {
		expirer := new(MockExpirer)
		expirer.On("ExpireOverdue").Return(2, nil).Once()

		s := New(expirer, nil, time.Minute)
		s.Sweep()

		expirer.AssertExpectations(t)
	})

	t.Run("Skips while a pass is in flight", func(t *testing.T) {
		expirer := new(MockExpirer)

		s := New(expirer, nil, time.Minute)
		s.running.Store(true)
		s.Sweep()

		expirer.AssertNotCalled(t, "ExpireOverdue")
		assert.True(t, s.running.Load())
	})

	t.Run("Query failure is soft", func(t *testing.T) {
		expirer := new(MockExpirer)
		expirer.On("ExpireOverdue").Return(0, errors.New("db down")).Once()

		s := New(expirer, nil, time.Minute)
		s.Sweep()

		// The guard is released so the next tick can retry.
		assert.False(t, s.running.Load())
	})
}

func TestStartStop(t *testing.T) {
	expirer := new(MockExpirer)
	expirer.On("ExpireOverdue").Return(0, nil)

	s := New(expirer, nil, time.Hour)
	s.Start()
	s.Stop()

	// The startup pass ran before Stop returned.
	expirer.AssertCalled(t, "ExpireOverdue")
}
