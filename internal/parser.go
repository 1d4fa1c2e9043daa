package internal

import (
	"sort"
	"time"
)

// Parse filters, projects and orders raw records for presentation.
//
// Meta records and records without a message role are dropped. The result is
// sorted ascending by timestamp; equal timestamps keep input order and records
// whose timestamp does not parse go after all others.
func Parse(raw []Message) []ParsedMessage {
	type entry struct {
		msg   ParsedMessage
		at    time.Time
		valid bool
	}

	entries := make([]entry, 0, len(raw))
	for i := range raw {
		src := &raw[i]
		if src.IsMeta || src.Role() == "" {
			continue
		}
		at, valid := src.Time()
		entries = append(entries, entry{msg: project(src), at: at, valid: valid})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.valid != b.valid {
			return a.valid
		}
		return a.valid && a.at.Before(b.at)
	})

	parsed := make([]ParsedMessage, len(entries))
	for i, e := range entries {
		parsed[i] = e.msg
	}
	return parsed
}

func project(src *Message) ParsedMessage {
	content := src.Content()
	parsed := ParsedMessage{
		ID:          src.UUID,
		Role:        src.Message.Role,
		Content:     FlattenText(content),
		Timestamp:   src.Timestamp,
		Model:       src.Message.Model,
		Usage:       src.Message.Usage,
		IsSidechain: src.IsSidechain,
		ParentID:    src.ParentUUID,
		Hash:        src.Fingerprint(),
		Source:      src,
	}

	if thinking, ok := ThinkingOf(content); ok && thinking != "" {
		parsed.Thinking = thinking
	}
	if invocations := ToolInvocationsOf(content); len(invocations) > 0 {
		parsed.ToolInvocations = invocations
	}
	if results := ToolResultsOf(content); len(results) > 0 {
		parsed.ToolResults = results
	}
	return parsed
}

// GroupByConversation splits messages into the main conversation and sidechains
func GroupByConversation(messages []ParsedMessage) (main, sidechain []ParsedMessage) {
	main = make([]ParsedMessage, 0, len(messages))
	sidechain = make([]ParsedMessage, 0)
	for _, msg := range messages {
		if msg.IsSidechain {
			sidechain = append(sidechain, msg)
		} else {
			main = append(main, msg)
		}
	}
	return main, sidechain
}

// LinkToolResults returns a copy of messages where every invocation answered
// by a later tool_result carries that result and the "result" state.
func LinkToolResults(messages []ParsedMessage) []ParsedMessage {
	type position struct{ msg, call int }

	linked := make([]ParsedMessage, len(messages))
	calls := make(map[string]position)
	for i, msg := range messages {
		linked[i] = msg
		if len(msg.ToolInvocations) > 0 {
			linked[i].ToolInvocations = append([]ToolInvocation(nil), msg.ToolInvocations...)
		}

		for _, result := range msg.ToolResults {
			pos, ok := calls[result.ToolUseID]
			if !ok {
				continue
			}
			res := result
			inv := &linked[pos.msg].ToolInvocations[pos.call]
			inv.State = ToolStateResult
			inv.Result = &res
		}

		for j, inv := range linked[i].ToolInvocations {
			if inv.ToolCallID != "" {
				calls[inv.ToolCallID] = position{msg: i, call: j}
			}
		}
	}
	return linked
}
