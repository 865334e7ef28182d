package view

import (
	"encoding/json"
	"time"

	"github.com/fatih/color"
)

type InspectView interface {
	Render(result InspectResult)
}

// InspectResult describes the resolved types of a single document.
type InspectResult struct {
	File  string
	Types []InspectedType
}

// InspectedType is one named entry of a document's type registry.
type InspectedType struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// Human view implementation.

type inspectHumanView struct {
	*HumanView
}

func (v *inspectHumanView) Render(result InspectResult) {
	v.Println(color.RGB(50, 108, 229).Sprintf("%s", result.File))
	for _, t := range result.Types {
		if t.Detail != "" {
			v.Printf("  %-24s %-10s %s\n", t.Name, t.Kind, t.Detail)
		} else {
			v.Printf("  %-24s %s\n", t.Name, t.Kind)
		}
	}
}

// JSON view implementation.

type inspectJSONView struct {
	*JSONView
}

type inspectJSONResult struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	File      string          `json:"file"`
	Types     []InspectedType `json:"types"`
}

func (v *inspectJSONView) Render(result InspectResult) {
	out := inspectJSONResult{
		Type:      "inspect",
		Timestamp: time.Now(),
		File:      result.File,
		Types:     result.Types,
	}

	if data, err := json.Marshal(out); err == nil {
		v.Println(string(data))
	}
}
