package events

import "time"

// EventType represents the severity of an event.
type EventType string

const (
	// EventTypeNormal indicates normal, non-problematic events.
	EventTypeNormal EventType = "Normal"

	// EventTypeWarning indicates events that may require attention.
	EventTypeWarning EventType = "Warning"
)

// EventReason represents the reason code for an event.
type EventReason string

// Template lifecycle event reasons
const (
	// ReasonTemplateSynced indicates a template save was propagated to its implementations.
	ReasonTemplateSynced EventReason = "TemplateSynced"

	// ReasonTemplateDeleted indicates a template was deleted and its implementations detached.
	ReasonTemplateDeleted EventReason = "TemplateDeleted"

	// ReasonTemplateReferenceUpdated indicates an implementation's template reference followed a rename.
	ReasonTemplateReferenceUpdated EventReason = "TemplateReferenceUpdated"
)

// Implementation sync event reasons
const (
	// ReasonImplementationSynced indicates an implementation was synchronized with its template.
	ReasonImplementationSynced EventReason = "ImplementationSynced"

	// ReasonImplementationSyncFailed indicates an implementation's sync failed.
	ReasonImplementationSyncFailed EventReason = "ImplementationSyncFailed"

	// ReasonImplementationDetached indicates a project stopped being an implementation.
	ReasonImplementationDetached EventReason = "ImplementationDetached"

	// ReasonParameterAdded indicates a template-declared parameter arrived on an implementation.
	ReasonParameterAdded EventReason = "ParameterAdded"

	// ReasonParameterRemoved indicates a parameter the template no longer declares was dropped.
	ReasonParameterRemoved EventReason = "ParameterRemoved"
)

// EventData holds contextual information for event message templating.
type EventData struct {
	// Name is the name of the project involved in the event.
	Name string

	// Template is the template name involved, if any.
	Template string

	// Parameter is the parameter name for parameter events.
	Parameter string

	// Error contains error information for failure events.
	Error string

	// Count is a generic count, e.g. number of implementations synced.
	Count int
}

// Event is a recorded sync event.
type Event struct {
	// ID uniquely identifies the event.
	ID string

	// Timestamp is when the event was recorded.
	Timestamp time.Time

	// Type is the event severity.
	Type EventType

	// Reason is the event's reason code.
	Reason EventReason

	// Project is the project the event concerns.
	Project string

	// Message is the rendered human-readable message.
	Message string
}

// getEventType returns the appropriate EventType for a given EventReason.
func getEventType(reason EventReason) EventType {
	switch reason {
	case ReasonImplementationSyncFailed:
		return EventTypeWarning
	default:
		return EventTypeNormal
	}
}
