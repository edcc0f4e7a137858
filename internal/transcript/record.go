package transcript

import (
	"bytes"
	"encoding/json"
)

// Record types that the renderer knows about. Anything else is ignored.
const (
	TypeUser      = "user"
	TypeAssistant = "assistant"
	TypeSnapshot  = "file-history-snapshot"
)

// Content item kinds.
const (
	ItemText       = "text"
	ItemToolUse    = "tool_use"
	ItemToolResult = "tool_result"
	ItemThinking   = "thinking"
)

// Record is one decoded line of a session transcript.
type Record struct {
	Type    string  `json:"type"`
	IsMeta  bool    `json:"isMeta"`
	Message Message `json:"message"`
}

// Message is the nested message of a Record.
type Message struct {
	Content Content `json:"content"`
}

// ContentKind tells which shape message.content had on the wire.
type ContentKind int

const (
	// ContentString is a plain string. It is also the zero value, so a record
	// without message.content behaves like one holding "".
	ContentString ContentKind = iota
	// ContentItems is an array of typed items.
	ContentItems
	// ContentOther is anything else (null, number, object). It renders nothing.
	ContentOther
)

// Content is message.content: either a string or a list of items.
type Content struct {
	Kind  ContentKind
	Text  string // set when Kind == ContentString
	Items []Item // set when Kind == ContentItems
}

// UnmarshalJSON accepts a string, an array of items, or anything else.
// Array elements that do not decode as an item are dropped.
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		*c = Content{Kind: ContentOther}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = Content{Kind: ContentString, Text: s}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		items := make([]Item, 0, len(raw))
		for _, r := range raw {
			var item Item
			if err := json.Unmarshal(r, &item); err != nil {
				continue
			}
			items = append(items, item)
		}
		*c = Content{Kind: ContentItems, Items: items}
	default:
		*c = Content{Kind: ContentOther}
	}
	return nil
}

// Item is one typed element of an array content. Which fields are set
// depends on Type.
type Item struct {
	Type string `json:"type"`

	// text
	Text string `json:"text"`

	// tool_use
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`

	// tool_result; Content is a string or structured JSON
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
}
