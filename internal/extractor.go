package internal

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ToolState is the lifecycle state of a tool invocation
type ToolState string

const (
	ToolStateCall   ToolState = "call"
	ToolStateResult ToolState = "result"
)

// ToolInvocation is a tool call extracted from a tool_use block
type ToolInvocation struct {
	ToolCallID string          `json:"toolCallId" yaml:"tool_call_id"`
	ToolName   string          `json:"toolName" yaml:"tool_name"`
	State      ToolState       `json:"state" yaml:"state"`
	Args       json.RawMessage `json:"args,omitempty" yaml:"-"`
	Result     *ToolResult     `json:"result,omitempty" yaml:"result,omitempty"`
}

// ToolResult is the output of a tool extracted from a tool_result block
type ToolResult struct {
	ToolUseID string `json:"toolUseId" yaml:"tool_use_id"`
	Content   string `json:"content" yaml:"content"`
	IsError   bool   `json:"isError,omitempty" yaml:"is_error,omitempty"`
}

const blockSeparator = "\n\n"

// TextOf joins the text blocks of the content with a blank line.
// String content and content without text blocks yield "".
func TextOf(content Content) string {
	if content.Kind != ContentBlocks {
		return ""
	}
	var parts []string
	for _, block := range content.Blocks {
		if block.Type == BlockText {
			parts = append(parts, block.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, blockSeparator))
}

// ThinkingOf joins the thinking blocks of the content. ok is false when the
// content has no thinking block at all, which is distinct from empty thinking.
func ThinkingOf(content Content) (thinking string, ok bool) {
	if content.Kind != ContentBlocks {
		return "", false
	}
	var parts []string
	for _, block := range content.Blocks {
		if block.Type == BlockThinking {
			parts = append(parts, block.Thinking)
			ok = true
		}
	}
	if !ok {
		return "", false
	}
	return strings.TrimSpace(strings.Join(parts, blockSeparator)), true
}

// ToolInvocationsOf maps every tool_use block, in order, to a call invocation
func ToolInvocationsOf(content Content) []ToolInvocation {
	if content.Kind != ContentBlocks {
		return []ToolInvocation{}
	}
	invocations := make([]ToolInvocation, 0)
	for _, block := range content.Blocks {
		if block.Type != BlockToolUse {
			continue
		}
		invocations = append(invocations, ToolInvocation{
			ToolCallID: block.ID,
			ToolName:   block.Name,
			State:      ToolStateCall,
			Args:       block.Input,
		})
	}
	return invocations
}

// ToolResultsOf maps every tool_result block, in order, to a result
func ToolResultsOf(content Content) []ToolResult {
	if content.Kind != ContentBlocks {
		return []ToolResult{}
	}
	results := make([]ToolResult, 0)
	for _, block := range content.Blocks {
		if block.Type != BlockToolResult {
			continue
		}
		results = append(results, ToolResult{
			ToolUseID: block.ToolUseID,
			Content:   toolResultText(block.Content),
			IsError:   block.IsError,
		})
	}
	return results
}

// FlattenText returns string content unchanged and the joined text blocks otherwise
func FlattenText(content Content) string {
	switch content.Kind {
	case ContentText:
		return content.Text
	case ContentBlocks:
		return TextOf(content)
	default:
		return ""
	}
}

// toolResultText flattens tool_result content, which is either a string or a
// list of blocks carrying text
func toolResultText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var nested Content
	if err := json.Unmarshal(raw, &nested); err != nil || nested.Kind != ContentBlocks {
		return ""
	}
	var parts []string
	for _, block := range nested.Blocks {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
