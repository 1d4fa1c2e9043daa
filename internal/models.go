package internal

import (
	"bytes"
	"encoding/json"
	"time"
)

// Message types as they appear in the "type" field of a record
const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "assistant"
	MessageTypeSystem    = "system"
)

// BlockType is the tag of a content item
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockThinking   BlockType = "thinking"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
	BlockStepStart  BlockType = "step-start"
)

// Message is a single captured record of a conversation log
type Message struct {
	Type                      string          `json:"type"`
	UUID                      string          `json:"uuid,omitempty"`
	ParentUUID                string          `json:"parentUuid,omitempty"`
	SessionID                 string          `json:"sessionId,omitempty"`
	Timestamp                 string          `json:"timestamp,omitempty"`
	IsMeta                    bool            `json:"isMeta,omitempty"`
	IsSidechain               bool            `json:"isSidechain,omitempty"`
	IsVisibleInTranscriptOnly bool            `json:"isVisibleInTranscriptOnly,omitempty"`
	UserType                  string          `json:"userType,omitempty"`
	CWD                       string          `json:"cwd,omitempty"`
	GitBranch                 string          `json:"gitBranch,omitempty"`
	Version                   string          `json:"version,omitempty"`
	RequestID                 string          `json:"requestId,omitempty"`
	Level                     string          `json:"level,omitempty"`
	ToolUseID                 string          `json:"toolUseID,omitempty"`
	ToolUseResult             json.RawMessage `json:"toolUseResult,omitempty"`
	Message                   *Payload        `json:"message,omitempty"`

	// Raw holds the record exactly as it was read, when decoded from input
	Raw json.RawMessage `json:"-"`
}

// Payload is the inner "message" object of a record
type Payload struct {
	ID         string  `json:"id,omitempty"`
	Type       string  `json:"type,omitempty"`
	Role       string  `json:"role,omitempty"`
	Model      string  `json:"model,omitempty"`
	Content    Content `json:"content"`
	StopReason *string `json:"stop_reason,omitempty"`
	Usage      *Usage  `json:"usage,omitempty"`
}

// Usage is the token accounting attached to assistant payloads
type Usage struct {
	InputTokens              int    `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens             int    `json:"output_tokens" yaml:"output_tokens"`
	CacheCreationInputTokens int    `json:"cache_creation_input_tokens,omitempty" yaml:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int    `json:"cache_read_input_tokens,omitempty" yaml:"cache_read_input_tokens,omitempty"`
	ServiceTier              string `json:"service_tier,omitempty" yaml:"service_tier,omitempty"`
}

// ContentKind discriminates the three shapes message content can take
type ContentKind int

const (
	ContentAbsent ContentKind = iota
	ContentText
	ContentBlocks
)

// Content is either absent, a plain string, or an ordered list of blocks.
// Any other JSON shape decodes as absent.
type Content struct {
	Kind   ContentKind
	Text   string
	Blocks []ContentBlock
}

// ContentBlock is one item of a block list. Which fields are set depends on Type.
type ContentBlock struct {
	Type      BlockType       `json:"type"`
	Text      string          `json:"text,omitempty"`
	Thinking  string          `json:"thinking,omitempty"`
	Signature string          `json:"signature,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

// TextContent builds string content
func TextContent(s string) Content {
	return Content{Kind: ContentText, Text: s}
}

// BlockContent builds block-list content
func BlockContent(blocks ...ContentBlock) Content {
	if blocks == nil {
		blocks = []ContentBlock{}
	}
	return Content{Kind: ContentBlocks, Blocks: blocks}
}

// UnmarshalJSON decodes string, array and null content. Other shapes are
// tolerated and leave the content absent.
func (c *Content) UnmarshalJSON(data []byte) error {
	*c = Content{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = TextContent(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		blocks := make([]ContentBlock, 0, len(items))
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) == 0 || item[0] != '{' {
				continue
			}
			var block ContentBlock
			if err := json.Unmarshal(item, &block); err != nil {
				// a block with mistyped fields is dropped, not the whole record
				continue
			}
			blocks = append(blocks, block)
		}
		*c = BlockContent(blocks...)
	}
	return nil
}

// MarshalJSON writes the content back in its original shape
func (c Content) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ContentText:
		return json.Marshal(c.Text)
	case ContentBlocks:
		if c.Blocks == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Blocks)
	default:
		return []byte("null"), nil
	}
}

// Content returns the payload content, or absent content when there is no payload
func (m *Message) Content() Content {
	if m == nil || m.Message == nil {
		return Content{}
	}
	return m.Message.Content
}

// Role returns message.role, or "" when the record has no payload
func (m *Message) Role() string {
	if m == nil || m.Message == nil {
		return ""
	}
	return m.Message.Role
}

// Time parses the record timestamp. ok is false when it is missing or invalid.
func (m *Message) Time() (time.Time, bool) {
	if m == nil {
		return time.Time{}, false
	}
	return ParseTimestamp(m.Timestamp)
}

// ParseTimestamp parses an ISO-8601 timestamp
func ParseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
