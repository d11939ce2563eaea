package project

import (
	"encoding/xml"
	"fmt"
	"io"
)

// The on-disk document format. The project name is deliberately absent:
// identity is the registry's concern, the document only declares structure.

type xmlDocument struct {
	XMLName        xml.Name           `xml:"project"`
	Kind           string             `xml:"kind,attr,omitempty"`
	Description    string             `xml:"description,omitempty"`
	Disabled       bool               `xml:"disabled"`
	Template       *xmlTemplateMark   `xml:"templateMarker"`
	Implementation *xmlImplementation `xml:"implementationOf"`
	Parameters     *xmlParameters     `xml:"parameters"`
	Steps          []xmlStep          `xml:"steps>step"`
	Triggers       []xmlTrigger       `xml:"triggers>trigger"`
	Axes           []xmlAxis          `xml:"axes>axis"`
}

type xmlTemplateMark struct{}

type xmlImplementation struct {
	Template          string `xml:"template,attr"`
	SyncBuildTriggers bool   `xml:"syncBuildTriggers"`
	SyncDisabled      bool   `xml:"syncDisabled"`
	SyncDescription   bool   `xml:"syncDescription"`
	SyncMatrixAxes    bool   `xml:"syncMatrixAxes"`
}

type xmlParameters struct {
	Definitions []xmlParameter `xml:"parameter"`
}

type xmlParameter struct {
	Name        string `xml:"name,attr"`
	Description string `xml:"description,omitempty"`
	Default     string `xml:"default,omitempty"`
}

type xmlStep struct {
	Kind    string `xml:"kind,attr"`
	Command string `xml:",chardata"`
}

type xmlTrigger struct {
	Kind string `xml:"kind,attr"`
	Spec string `xml:"spec,attr"`
}

type xmlAxis struct {
	Name   string   `xml:"name,attr"`
	Values []string `xml:"value"`
}

// MarshalDocument serializes the project's declared structure as an XML
// document. Runtime-only state (derived matrix configurations) and the
// project's name are not part of the document.
func MarshalDocument(p *Project) ([]byte, error) {
	doc := xmlDocument{
		Kind:        string(p.Kind),
		Description: p.Description,
		Disabled:    p.Disabled,
	}

	if p.Template != nil {
		doc.Template = &xmlTemplateMark{}
	}
	if p.Implementation != nil {
		doc.Implementation = &xmlImplementation{
			Template:          p.Implementation.TemplateName,
			SyncBuildTriggers: p.Implementation.SyncBuildTriggers,
			SyncDisabled:      p.Implementation.SyncDisabled,
			SyncDescription:   p.Implementation.SyncDescription,
			SyncMatrixAxes:    p.Implementation.SyncMatrixAxes,
		}
	}
	if p.Parameters != nil {
		params := &xmlParameters{}
		for _, def := range p.Parameters.Definitions {
			params.Definitions = append(params.Definitions, xmlParameter{
				Name:        def.Name,
				Description: def.Description,
				Default:     def.Default,
			})
		}
		doc.Parameters = params
	}
	for _, step := range p.Steps {
		doc.Steps = append(doc.Steps, xmlStep{Kind: step.Kind, Command: step.Command})
	}
	if p.Triggers != nil {
		for _, trigger := range p.Triggers.Snapshot() {
			doc.Triggers = append(doc.Triggers, xmlTrigger{Kind: trigger.Kind, Spec: trigger.Spec})
		}
	}
	for _, axis := range p.Axes {
		doc.Axes = append(doc.Axes, xmlAxis{Name: axis.Name, Values: axis.Values})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

// LoadInto applies a serialized document onto an existing project record.
//
// The project's identity (name) is preserved, and the live trigger collection
// object is kept: only its contents are replaced. Everything else is replaced
// wholesale by the document's declarations.
//
// The document is fully read and decoded before any field of p is touched, so
// a read or decode failure leaves p exactly as it was.
//
// Derived matrix configurations are NOT rebuilt here: callers that change the
// axis list are responsible for triggering the rebuild.
func LoadInto(p *Project, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	kind := Kind(doc.Kind)
	if kind == "" {
		kind = KindFreestyle
	}

	p.Kind = kind
	p.Description = doc.Description
	p.Disabled = doc.Disabled

	if doc.Template != nil {
		p.Template = &TemplateMarker{}
	} else {
		p.Template = nil
	}

	if doc.Implementation != nil {
		p.Implementation = &ImplementationSettings{
			TemplateName: doc.Implementation.Template,
			SyncPolicy: SyncPolicy{
				SyncBuildTriggers: doc.Implementation.SyncBuildTriggers,
				SyncDisabled:      doc.Implementation.SyncDisabled,
				SyncDescription:   doc.Implementation.SyncDescription,
				SyncMatrixAxes:    doc.Implementation.SyncMatrixAxes,
			},
		}
	} else {
		p.Implementation = nil
	}

	if doc.Parameters != nil {
		definitions := make([]*ParameterDefinition, 0, len(doc.Parameters.Definitions))
		for _, param := range doc.Parameters.Definitions {
			definitions = append(definitions, &ParameterDefinition{
				Name:        param.Name,
				Description: param.Description,
				Default:     param.Default,
			})
		}
		p.Parameters = NewParameterBlock(definitions)
	} else {
		p.Parameters = nil
	}

	p.Steps = nil
	for _, step := range doc.Steps {
		p.Steps = append(p.Steps, Step{Kind: step.Kind, Command: step.Command})
	}

	triggers := make([]Trigger, 0, len(doc.Triggers))
	for _, trigger := range doc.Triggers {
		triggers = append(triggers, Trigger{Kind: trigger.Kind, Spec: trigger.Spec})
	}
	if p.Triggers == nil {
		p.Triggers = NewTriggerSet()
	}
	p.Triggers.Replace(triggers)

	p.Axes = nil
	for _, axis := range doc.Axes {
		p.Axes = append(p.Axes, Axis{Name: axis.Name, Values: axis.Values})
	}

	return nil
}
