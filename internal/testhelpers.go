package internal

import (
	"encoding/json"
	"time"
)

// CreateTestMessage creates a record with the given type and content
func CreateTestMessage(msgType string, content Content) *Message {
	return &Message{
		Type:      msgType,
		UUID:      "uuid-" + msgType,
		Timestamp: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
		Message: &Payload{
			Role:    msgType,
			Content: content,
		},
	}
}

// CreateTestTextBlock creates a text content item
func CreateTestTextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// CreateTestThinkingBlock creates a thinking content item
func CreateTestThinkingBlock(thinking string) ContentBlock {
	return ContentBlock{Type: BlockThinking, Thinking: thinking}
}

// CreateTestToolUseBlock creates a tool_use content item
func CreateTestToolUseBlock(id, name string, input any) ContentBlock {
	data, _ := json.Marshal(input)
	return ContentBlock{Type: BlockToolUse, ID: id, Name: name, Input: data}
}

// CreateTestToolResultBlock creates a tool_result content item with string content
func CreateTestToolResultBlock(toolUseID, result string) ContentBlock {
	data, _ := json.Marshal(result)
	return ContentBlock{Type: BlockToolResult, ToolUseID: toolUseID, Content: data}
}

// CreateTestSession creates a test session with sample data
func CreateTestSession(id string) *Session {
	return &Session{
		ID:     id,
		Source: "testdata/" + id + ".json",
		Messages: []ParsedMessage{
			{
				ID:        "m1",
				Role:      "user",
				Content:   "Hello, how are you?",
				Timestamp: "2025-01-01T12:00:00Z",
			},
			{
				ID:        "m2",
				Role:      "assistant",
				Content:   "I'm doing well, thank you!",
				Timestamp: "2025-01-01T12:00:05Z",
				Model:     "claude-sonnet-4",
			},
		},
		Metadata: Metadata{
			MessageCount:   2,
			FirstTimestamp: "2025-01-01T12:00:00Z",
			LastTimestamp:  "2025-01-01T12:00:05Z",
			CWD:            "/work/project",
			GitBranch:      "main",
		},
	}
}

// CreateTestSessionWithMessages creates a test session with custom messages
func CreateTestSessionWithMessages(id string, messages []ParsedMessage) *Session {
	return &Session{
		ID:       id,
		Source:   "testdata/" + id + ".json",
		Messages: messages,
		Metadata: Metadata{
			MessageCount: len(messages),
		},
	}
}
