package internal

import "strings"

// Flag marks a property of a classified message
type Flag string

const (
	FlagMeta           Flag = "meta"
	FlagSidechain      Flag = "sidechain"
	FlagTranscriptOnly Flag = "transcript-only"
	FlagThinking       Flag = "thinking"
	FlagToolUse        Flag = "tool-use"
	FlagToolResult     Flag = "tool-result"
	FlagText           Flag = "text"
	FlagCommand        Flag = "command"
)

// SubType is the single label picked for a message by fixed precedence
type SubType string

const (
	SubTypeDefault          SubType = "default"
	SubTypeThinkingAndTools SubType = "assistant-with-thinking-and-tools"
	SubTypeTools            SubType = "assistant-with-tools"
	SubTypeThinking         SubType = "assistant-with-thinking"
	SubTypeToolResult       SubType = "user-tool-result"
	SubTypeCommandOutput    SubType = "command-output"
)

const (
	unknownBaseType       = "unknown"
	componentKindSubagent = "subagent-message"
	componentKindMeta     = "meta-message"
	componentKindUnknown  = "unknown-message"
	contentTypeUnknown    = "unknown-content"
)

// commandMarkers identify local command transcripts embedded in string content
var commandMarkers = []string{
	"<command-name>",
	"<local-command-stdout>",
	"<local-command-stderr>",
}

// Classification is the derived view of a message used for dispatch
type Classification struct {
	BaseType string  `json:"baseType"`
	SubType  SubType `json:"subType"`
	Flags    []Flag  `json:"flags"`
	Content  Content `json:"content"`
}

// Has reports whether the flag is set
func (c Classification) Has(flag Flag) bool {
	for _, f := range c.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Classify derives base type, sub type and flags from a message.
// It never mutates the message and returns the same result for the same input.
func Classify(msg *Message) Classification {
	result := Classification{
		BaseType: unknownBaseType,
		SubType:  SubTypeDefault,
		Flags:    []Flag{},
	}
	if msg == nil {
		return result
	}
	if msg.Type != "" {
		result.BaseType = msg.Type
	}

	if msg.IsMeta {
		result.Flags = append(result.Flags, FlagMeta)
	}
	if msg.IsSidechain {
		result.Flags = append(result.Flags, FlagSidechain)
	}
	if msg.IsVisibleInTranscriptOnly {
		result.Flags = append(result.Flags, FlagTranscriptOnly)
	}

	content := msg.Content()
	result.Content = content

	switch content.Kind {
	case ContentBlocks:
		var hasThinking, hasToolUse, hasToolResult, hasText bool
		for _, block := range content.Blocks {
			switch block.Type {
			case BlockThinking:
				hasThinking = true
			case BlockToolUse:
				hasToolUse = true
			case BlockToolResult:
				hasToolResult = true
			case BlockText:
				hasText = true
			}
		}

		if hasThinking {
			result.Flags = append(result.Flags, FlagThinking)
		}
		if hasToolUse {
			result.Flags = append(result.Flags, FlagToolUse)
		}
		if hasToolResult {
			result.Flags = append(result.Flags, FlagToolResult)
		}
		if hasText {
			result.Flags = append(result.Flags, FlagText)
		}

		switch {
		case hasToolUse && hasThinking:
			result.SubType = SubTypeThinkingAndTools
		case hasToolUse:
			result.SubType = SubTypeTools
		case hasThinking:
			result.SubType = SubTypeThinking
		case hasToolResult:
			result.SubType = SubTypeToolResult
		}
	case ContentText:
		if isCommandContent(content.Text) {
			result.Flags = append(result.Flags, FlagCommand)
			result.SubType = SubTypeCommandOutput
		}
	case ContentAbsent:
	}

	return result
}

func isCommandContent(s string) bool {
	for _, marker := range commandMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// Kind names the coarse component kind of a message: sidechain and meta
// records win over the message type.
func Kind(msg *Message) string {
	if msg == nil {
		return componentKindUnknown
	}
	if msg.IsSidechain {
		return componentKindSubagent
	}
	if msg.IsMeta {
		return componentKindMeta
	}
	switch msg.Type {
	case MessageTypeUser, MessageTypeAssistant, MessageTypeSystem:
		return msg.Type + "-message"
	default:
		return componentKindUnknown
	}
}

// ContentTypes labels each block of the content in order
func ContentTypes(content Content) []string {
	if content.Kind != ContentBlocks {
		return nil
	}
	labels := make([]string, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		switch block.Type {
		case BlockText:
			labels = append(labels, "text-content")
		case BlockThinking:
			labels = append(labels, "thinking-content")
		case BlockToolUse:
			labels = append(labels, "tool-use")
		case BlockToolResult:
			labels = append(labels, "tool-result")
		default:
			labels = append(labels, contentTypeUnknown)
		}
	}
	return labels
}
