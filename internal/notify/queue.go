// ABOUTME: Timer-driven FIFO notification queue with per-entry dismissal timers
// ABOUTME: Thread-safe; timers fire on their own goroutines and funnel into Dismiss

package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for the UI.
type Kind string

// Notification kinds.
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindConfirm Kind = "confirm"
)

// DefaultDuration is how long auto-dismissed notifications stay up.
const DefaultDuration = 3 * time.Second

// Action is a labeled button on a confirm notification.
type Action struct {
	Label   string
	Primary bool
	Handler func()
}

// Notification is one queue entry. A zero Duration means manual dismiss
// only.
type Notification struct {
	ID        string
	Kind      Kind
	Message   string
	Duration  time.Duration
	Actions   []Action
	OnDismiss func()
}

// Queue is a FIFO of notifications with auto-dismiss timers. Safe for
// concurrent use; timer callbacks run on their own goroutines.
type Queue struct {
	mu     sync.Mutex
	queue  []Notification
	timers map[string]*time.Timer
}

// NewQueue creates an empty notification queue.
func NewQueue() *Queue {
	return &Queue{
		timers: make(map[string]*time.Timer),
	}
}

// Push enqueues a notification and arms its dismissal timer when the
// duration is positive. Returns the assigned id.
func (q *Queue) Push(n Notification) string {
	n.ID = uuid.New().String()

	q.mu.Lock()
	defer q.mu.Unlock()

	q.queue = append(q.queue, n)
	if n.Duration > 0 {
		id := n.ID
		q.timers[id] = time.AfterFunc(n.Duration, func() {
			q.Dismiss(id)
		})
	}
	return n.ID
}

// Show enqueues a notification of the given kind.
func (q *Queue) Show(kind Kind, message string, duration time.Duration) string {
	return q.Push(Notification{Kind: kind, Message: message, Duration: duration})
}

// ShowSuccess enqueues a success notification with the default duration.
func (q *Queue) ShowSuccess(message string) string {
	return q.Show(KindSuccess, message, DefaultDuration)
}

// ShowError enqueues an error notification with the default duration.
func (q *Queue) ShowError(message string) string {
	return q.Show(KindError, message, DefaultDuration)
}

// ShowInfo enqueues an info notification with the default duration.
func (q *Queue) ShowInfo(message string) string {
	return q.Show(KindInfo, message, DefaultDuration)
}

// ShowWarning enqueues a warning notification with the default duration.
func (q *Queue) ShowWarning(message string) string {
	return q.Show(KindWarning, message, DefaultDuration)
}

// ShowConfirm enqueues a manual-dismiss-only confirm notification with zero
// or more labeled actions.
func (q *Queue) ShowConfirm(message string, actions []Action) string {
	return q.Push(Notification{Kind: KindConfirm, Message: message, Actions: actions})
}

// Active returns the front of the FIFO, or nil when the queue is empty.
func (q *Queue) Active() *Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queue) == 0 {
		return nil
	}
	n := q.queue[0]
	return &n
}

// Pending returns how many notifications are queued.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// Dismiss removes the notification, cancels its pending timer, and runs its
// dismissal callback. Dismissing an unknown id is a no-op, so the callback
// runs at most once even when a timer races a manual dismissal.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()

	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}

	var onDismiss func()
	for i, n := range q.queue {
		if n.ID == id {
			onDismiss = n.OnDismiss
			q.queue = append(q.queue[:i], q.queue[i+1:]...)
			break
		}
	}
	q.mu.Unlock()

	// Run outside the lock so a callback can enqueue or dismiss
	if onDismiss != nil {
		onDismiss()
	}
}

// ClearAll cancels every pending timer and empties the queue. Dismissal
// callbacks are not run.
func (q *Queue) ClearAll() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.queue = nil
}
