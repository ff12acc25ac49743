package plan

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	errNoWorkstreams = errors.New("plan: workstreams missing or not an array")
	errNullEntry     = errors.New("plan: null workstream or deliverable")
)

// Parse splits text into ordered parts. Complete <PROJECT_PLAN> regions become
// project-plan parts; prose around them becomes trimmed text parts. A region
// whose body does not decode is kept verbatim as text. An opening tag with no
// closing tag is ordinary text. Input with no complete region is returned as a
// single text part, unmodified. Parse never fails.
func Parse(text string) []MessagePart {
	var parts []MessagePart
	regions := 0
	pos := 0

	for pos < len(text) {
		start := strings.Index(text[pos:], OpenTag)
		if start < 0 {
			break
		}
		start += pos
		bodyStart := start + len(OpenTag)

		end := strings.Index(text[bodyStart:], CloseTag)
		if end < 0 {
			break
		}
		end += bodyStart
		regionEnd := end + len(CloseTag)
		regions++

		parts = appendText(parts, text[pos:start])

		region := text[start:regionEnd]
		if p, err := decode(text[bodyStart:end]); err == nil {
			parts = append(parts, MessagePart{Kind: KindProjectPlan, Plan: p, Source: region})
		} else {
			parts = append(parts, MessagePart{Kind: KindText, Text: region, Source: region})
		}

		pos = regionEnd
	}

	if regions == 0 {
		return []MessagePart{{Kind: KindText, Text: text, Source: text}}
	}

	return appendText(parts, text[pos:])
}

// appendText adds a trimmed text part when segment is not blank.
func appendText(parts []MessagePart, segment string) []MessagePart {
	trimmed := strings.TrimSpace(segment)
	if trimmed == "" {
		return parts
	}
	return append(parts, MessagePart{Kind: KindText, Text: trimmed, Source: trimmed})
}

// workstreamDoc mirrors Workstream with pointer elements so null entries
// can be told apart from empty objects.
type workstreamDoc struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Deliverables []*Deliverable `json:"deliverables"`
}

// decode parses a block body into a ProjectPlan and fills in default ids.
func decode(body string) (*ProjectPlan, error) {
	var doc struct {
		Workstreams *[]*workstreamDoc `json:"workstreams"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &doc); err != nil {
		return nil, err
	}
	if doc.Workstreams == nil {
		return nil, errNoWorkstreams
	}

	workstreams := make([]Workstream, 0, len(*doc.Workstreams))
	for i, ws := range *doc.Workstreams {
		if ws == nil {
			return nil, errNullEntry
		}
		deliverables := make([]Deliverable, 0, len(ws.Deliverables))
		for _, d := range ws.Deliverables {
			if d == nil {
				return nil, errNullEntry
			}
			deliverables = append(deliverables, *d)
		}
		id := ws.ID
		if id == "" {
			id = Label(i)
		}
		workstreams = append(workstreams, Workstream{
			ID:           id,
			Title:        ws.Title,
			Description:  ws.Description,
			Deliverables: deliverables,
		})
	}
	return &ProjectPlan{Workstreams: workstreams}, nil
}
