// Package plan splits assistant text into renderable parts, decoding embedded
// <PROJECT_PLAN> JSON blocks into structured project plans.
package plan

import "encoding/json"

// Delimiters of an embedded project plan block.
const (
	OpenTag  = "<PROJECT_PLAN>"
	CloseTag = "</PROJECT_PLAN>"
)

// Deliverable is a single output of a workstream.
type Deliverable struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Workstream is one lettered track of a project plan.
type Workstream struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Deliverables []Deliverable `json:"deliverables"`
}

// ProjectPlan is the decoded body of a <PROJECT_PLAN> block.
type ProjectPlan struct {
	Workstreams []Workstream `json:"workstreams"`
}

// PartKind discriminates MessagePart variants.
type PartKind string

const (
	KindText        PartKind = "text"
	KindProjectPlan PartKind = "project-plan"
)

// MessagePart is either a text segment or a decoded project plan.
// Source holds the region of the input the part came from.
type MessagePart struct {
	Kind   PartKind
	Text   string
	Plan   *ProjectPlan
	Source string
}

// Raw returns the input text the part was produced from.
func (p MessagePart) Raw() string {
	if p.Source != "" {
		return p.Source
	}
	return p.Text
}

// MarshalJSON encodes the part as {"type": kind, "content": body}.
func (p MessagePart) MarshalJSON() ([]byte, error) {
	out := struct {
		Type    PartKind `json:"type"`
		Content any      `json:"content"`
	}{Type: p.Kind}

	if p.Kind == KindProjectPlan {
		out.Content = p.Plan
	} else {
		out.Content = p.Text
	}
	return json.Marshal(out)
}
