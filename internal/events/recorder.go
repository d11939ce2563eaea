package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tmplsync/pkg/logging"
)

// defaultHistorySize bounds the in-memory event history.
const defaultHistorySize = 512

// Recorder renders and records sync events.
//
// Events are kept in a bounded in-memory history (oldest dropped first) and
// mirrored to the log. Recording never fails: the recorder is an observer of
// the sync flow, not a participant in it.
type Recorder struct {
	mu        sync.RWMutex
	templates *MessageTemplateEngine
	history   []Event
	maxSize   int
}

// NewRecorder creates a recorder with the default history bound.
func NewRecorder() *Recorder {
	return NewRecorderWithSize(defaultHistorySize)
}

// NewRecorderWithSize creates a recorder keeping at most maxSize events.
func NewRecorderWithSize(maxSize int) *Recorder {
	if maxSize <= 0 {
		maxSize = defaultHistorySize
	}
	return &Recorder{
		templates: NewMessageTemplateEngine(),
		maxSize:   maxSize,
	}
}

// Record renders and stores an event, returning the stored event.
func (r *Recorder) Record(reason EventReason, data EventData) Event {
	event := Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Type:      getEventType(reason),
		Reason:    reason,
		Project:   data.Name,
		Message:   r.templates.Render(reason, data),
	}

	r.mu.Lock()
	r.history = append(r.history, event)
	if len(r.history) > r.maxSize {
		r.history = r.history[len(r.history)-r.maxSize:]
	}
	r.mu.Unlock()

	logging.Debug("Events", "%s: %s", event.Reason, event.Message)
	return event
}

// History returns a copy of the recorded events, oldest first.
func (r *Recorder) History() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, len(r.history))
	copy(out, r.history)
	return out
}

// Recent returns up to n most recent events, oldest first.
func (r *Recorder) Recent(n int) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n <= 0 || n > len(r.history) {
		n = len(r.history)
	}
	out := make([]Event, n)
	copy(out, r.history[len(r.history)-n:])
	return out
}

// SetTemplate customizes the message template for an event reason.
func (r *Recorder) SetTemplate(reason EventReason, template string) {
	r.templates.SetTemplate(reason, template)
}
