package sync

import "tmplsync/internal/project"

// RestoreTriggers puts the pre-sync triggers back into the implementation's
// live trigger collection, in place. The collection object is never replaced:
// scheduling machinery holds a reference to it and must observe the update,
// which happens under the collection's own lock.
//
// When both the live collection and the old set are empty the replace is
// skipped entirely. No observable difference, just no lock traffic.
func RestoreTriggers(live *project.TriggerSet, old []project.Trigger) {
	if live.Empty() && len(old) == 0 {
		return
	}
	live.Replace(old)
}
