package scheduler

import (
	"testing"

	"github.com/domharness/domharness/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerMicrotaskOrdering(t *testing.T) {
	s := New(1000)
	var log string
	s.SetTimeout(0, func(args []value.Value) error { log += "T"; return nil }, nil)
	s.QueueMicrotask(func() { log += "M" })

	require.NoError(t, s.DrainMicrotasks())
	assert.Equal(t, "M", log)

	require.NoError(t, s.AdvanceTime(0))
	assert.Equal(t, "MT", log)
}

func TestIntervalReschedulesUnlessCanceled(t *testing.T) {
	s := New(1000)
	count := 0
	var id uint64
	id = s.SetInterval(10, func(args []value.Value) error {
		count++
		if count == 2 {
			s.ClearInterval(id)
		}
		return nil
	}, nil)
	require.NoError(t, s.AdvanceTime(100))
	assert.Equal(t, 2, count)
}

func TestDueAtOrderingWithTieBreakOnInsertion(t *testing.T) {
	s := New(1000)
	var order []int
	s.SetTimeout(5, func(args []value.Value) error { order = append(order, 1); return nil }, nil)
	s.SetTimeout(5, func(args []value.Value) error { order = append(order, 2); return nil }, nil)
	require.NoError(t, s.AdvanceTime(5))
	assert.Equal(t, []int{1, 2}, order)
}

func TestStepLimitExceeded(t *testing.T) {
	s := New(2)
	s.SetInterval(1, func(args []value.Value) error { return nil }, nil)
	err := s.AdvanceTime(100)
	require.Error(t, err)
	var sle *StepLimitError
	require.ErrorAs(t, err, &sle)
}

func TestClearTimeoutRemovesPendingTask(t *testing.T) {
	s := New(1000)
	ran := false
	id := s.SetTimeout(10, func(args []value.Value) error { ran = true; return nil }, nil)
	s.ClearTimeout(id)
	require.NoError(t, s.AdvanceTime(100))
	assert.False(t, ran)
}
