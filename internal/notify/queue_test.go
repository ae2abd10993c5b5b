// ABOUTME: Tests for the notification FIFO, auto-dismiss timers, and callbacks
// ABOUTME: Timer tests use short real durations and polling assertions

package notify

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := NewQueue()

	first := q.ShowConfirm("first", nil)
	q.ShowConfirm("second", nil)

	active := q.Active()
	require.NotNil(t, active)
	assert.Equal(t, first, active.ID)
	assert.Equal(t, 2, q.Pending())

	q.Dismiss(first)
	active = q.Active()
	require.NotNil(t, active)
	assert.Equal(t, "second", active.Message)
}

func TestQueue_ShowKinds(t *testing.T) {
	q := NewQueue()

	q.ShowSuccess("yay")
	q.ShowError("oops")
	q.ShowInfo("fyi")
	q.ShowWarning("careful")

	assert.Equal(t, 4, q.Pending())
	assert.Equal(t, KindSuccess, q.Active().Kind)
	q.ClearAll()
}

func TestQueue_AutoDismiss(t *testing.T) {
	q := NewQueue()

	q.Show(KindInfo, "short lived", 20*time.Millisecond)
	require.Equal(t, 1, q.Pending())

	assert.Eventually(t, func() bool {
		return q.Pending() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestQueue_ConfirmNeverAutoDismisses(t *testing.T) {
	q := NewQueue()

	id := q.ShowConfirm("sure?", []Action{{Label: "Yes", Primary: true}})
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, q.Pending())

	q.Dismiss(id)
	assert.Zero(t, q.Pending())
}

func TestQueue_DismissRunsCallbackOnce(t *testing.T) {
	q := NewQueue()

	var calls atomic.Int32
	id := q.Push(Notification{
		Kind:      KindInfo,
		Message:   "with callback",
		Duration:  10 * time.Millisecond,
		OnDismiss: func() { calls.Add(1) },
	})

	// Manual dismissal races the timer; the callback must fire exactly once
	q.Dismiss(id)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQueue_DismissUnknownIDIsNoOp(t *testing.T) {
	q := NewQueue()
	q.Dismiss("no-such-id")
	assert.Zero(t, q.Pending())
}

func TestQueue_ClearAllCancelsTimers(t *testing.T) {
	q := NewQueue()

	var calls atomic.Int32
	q.Push(Notification{
		Kind:      KindInfo,
		Message:   "pending",
		Duration:  10 * time.Millisecond,
		OnDismiss: func() { calls.Add(1) },
	})
	q.ShowConfirm("also pending", nil)

	q.ClearAll()
	assert.Zero(t, q.Pending())
	assert.Nil(t, q.Active())

	// Cancelled timers never fire their callbacks
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
