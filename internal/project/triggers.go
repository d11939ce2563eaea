package project

import "sync"

// Trigger is a single build trigger declaration.
type Trigger struct {
	// Kind names the trigger type, e.g. "cron" or "scm-poll".
	Kind string

	// Spec is the trigger's schedule expression.
	Spec string
}

// TriggerSet is a project's live trigger collection.
//
// The set is read concurrently by scheduling machinery, so all access goes
// through the set's own mutex. Consumers hold a reference to the set itself;
// mutations replace the contents, never the set object.
type TriggerSet struct {
	mu       sync.Mutex
	triggers []Trigger
}

// NewTriggerSet creates a trigger set with the given initial contents.
func NewTriggerSet(triggers ...Trigger) *TriggerSet {
	s := &TriggerSet{}
	if len(triggers) > 0 {
		s.triggers = append(s.triggers, triggers...)
	}
	return s
}

// Snapshot returns a copy of the current contents.
func (s *TriggerSet) Snapshot() []Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.triggers) == 0 {
		return nil
	}
	out := make([]Trigger, len(s.triggers))
	copy(out, s.triggers)
	return out
}

// Replace swaps the contents for the given triggers, in place, under the
// set's lock. The previous contents are discarded.
func (s *TriggerSet) Replace(triggers []Trigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers = s.triggers[:0]
	s.triggers = append(s.triggers, triggers...)
}

// Len returns the number of triggers in the set.
func (s *TriggerSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}

// Empty reports whether the set has no triggers.
func (s *TriggerSet) Empty() bool {
	return s.Len() == 0
}
