package events

import (
	"fmt"
	"strings"
)

// MessageTemplateEngine provides dynamic message generation for events.
type MessageTemplateEngine struct {
	templates map[EventReason]string
}

// NewMessageTemplateEngine creates a new message template engine with default templates.
func NewMessageTemplateEngine() *MessageTemplateEngine {
	engine := &MessageTemplateEngine{
		templates: make(map[EventReason]string),
	}
	engine.loadDefaultTemplates()
	return engine
}

// loadDefaultTemplates initializes the default message templates for all event reasons.
func (e *MessageTemplateEngine) loadDefaultTemplates() {
	e.templates[ReasonTemplateSynced] = "Template {{.Name}} synced{{if .Count}} to {{.Count}} implementations{{end}}"
	e.templates[ReasonTemplateDeleted] = "Template {{.Name}} deleted{{if .Count}}, {{.Count}} implementations detached{{end}}"
	e.templates[ReasonTemplateReferenceUpdated] = "Implementation {{.Name}} now references template {{.Template}}"

	e.templates[ReasonImplementationSynced] = "Implementation {{.Name}} synced with template {{.Template}}"
	e.templates[ReasonImplementationSyncFailed] = "Implementation {{.Name}} sync failed{{if .Error}}: {{.Error}}{{end}}"
	e.templates[ReasonImplementationDetached] = "Implementation {{.Name}} detached from template {{.Template}}"

	e.templates[ReasonParameterAdded] = "Parameter {{.Parameter}} added to {{.Name}} from template {{.Template}}"
	e.templates[ReasonParameterRemoved] = "Parameter {{.Parameter}} removed from {{.Name}}: no longer declared by template {{.Template}}"
}

// SetTemplate allows customizing the message template for a specific event reason.
func (e *MessageTemplateEngine) SetTemplate(reason EventReason, template string) {
	e.templates[reason] = template
}

// GetTemplate returns the template for a specific event reason.
func (e *MessageTemplateEngine) GetTemplate(reason EventReason) (string, bool) {
	template, exists := e.templates[reason]
	return template, exists
}

// Render generates a message for the given event reason and data.
func (e *MessageTemplateEngine) Render(reason EventReason, data EventData) string {
	template, exists := e.templates[reason]
	if !exists {
		// Fallback for unknown event reasons
		return fmt.Sprintf("Event: %s for %s", string(reason), data.Name)
	}
	return e.renderTemplate(template, data)
}

// renderTemplate performs simple template rendering with EventData.
// This is a simplified template system that supports basic variable substitution.
func (e *MessageTemplateEngine) renderTemplate(template string, data EventData) string {
	result := template

	// Conditional blocks first, so their contents still get substituted.
	result = e.renderConditional(result, "{{if .Error}}", "{{end}}", data.Error != "")
	result = e.renderConditional(result, "{{if .Count}}", "{{end}}", data.Count > 0)

	result = strings.ReplaceAll(result, "{{.Name}}", data.Name)
	result = strings.ReplaceAll(result, "{{.Template}}", data.Template)
	result = strings.ReplaceAll(result, "{{.Parameter}}", data.Parameter)
	result = strings.ReplaceAll(result, "{{.Error}}", data.Error)

	if strings.Contains(result, "{{.Count}}") {
		if data.Count > 0 {
			result = strings.ReplaceAll(result, "{{.Count}}", fmt.Sprintf("%d", data.Count))
		} else {
			result = strings.ReplaceAll(result, "{{.Count}}", "")
		}
	}

	return result
}

// renderConditional handles a single {{if .Field}}...{{end}} block.
func (e *MessageTemplateEngine) renderConditional(template, startMarker, endMarker string, condition bool) string {
	startIndex := strings.Index(template, startMarker)
	if startIndex == -1 {
		return template
	}

	endIndex := strings.Index(template[startIndex:], endMarker)
	if endIndex == -1 {
		return template
	}
	endIndex += startIndex

	if condition {
		before := template[:startIndex]
		content := template[startIndex+len(startMarker) : endIndex]
		after := template[endIndex+len(endMarker):]
		return before + content + after
	}
	return template[:startIndex] + template[endIndex+len(endMarker):]
}
