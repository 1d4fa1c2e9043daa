// Package render draws classified messages on a terminal. Each renderer is
// registered in an internal.Registry and picked per message by FindMatch.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/session-viewer/internal"
)

const (
	maxToolLines   = 20
	maxResultLines = 12
	maxMetaLines   = 6
)

var commandTagRe = regexp.MustCompile(`(?s)<(command-name|command-message|command-args|local-command-stdout|local-command-stderr)>(.*?)</(?:command-name|command-message|command-args|local-command-stdout|local-command-stderr)>`)

// Terminal holds what every renderer shares
type Terminal struct {
	markdown *Markdown
	showHash bool
}

// NewTerminal creates renderers that format text through md, which may be
// nil for plain output. showHash adds the record fingerprint to headers.
func NewTerminal(md *Markdown, showHash bool) *Terminal {
	return &Terminal{markdown: md, showHash: showHash}
}

// User renders a user prompt
func (t *Terminal) User() internal.Renderer {
	return internal.RendererFunc(func(w io.Writer, msg *internal.Message) error {
		t.header(w, userStyle, "👤 User", msg)
		return t.body(w, internal.FlattenText(msg.Content()))
	})
}

// Assistant renders a plain assistant reply
func (t *Terminal) Assistant() internal.Renderer {
	return internal.RendererFunc(func(w io.Writer, msg *internal.Message) error {
		t.header(w, assistantStyle, t.assistantLabel("🤖 Assistant", msg), msg)
		return t.body(w, internal.FlattenText(msg.Content()))
	})
}

// System renders a system record
func (t *Terminal) System() internal.Renderer {
	return internal.RendererFunc(func(w io.Writer, msg *internal.Message) error {
		label := "⚙ System"
		if msg.Level != "" {
			label += " (" + msg.Level + ")"
		}
		t.header(w, systemStyle, label, msg)
		return t.body(w, internal.FlattenText(msg.Content()))
	})
}

// Thinking renders an assistant reply that carries reasoning
func (t *Terminal) Thinking() internal.Renderer {
	return internal.RendererFunc(func(w io.Writer, msg *internal.Message) error {
		t.header(w, assistantStyle, t.assistantLabel("🤖 Assistant", msg), msg)
		content := msg.Content()
		if thinking, ok := internal.ThinkingOf(content); ok {
			if thinking == "" {
				thinking = "(empty)"
			}
			fmt.Fprintln(w, bodyStyle.Render(thinkingStyle.Render("💭 "+thinking)))
		}
		return t.body(w, internal.TextOf(content))
	})
}

// ToolUse renders an assistant reply that calls tools
func (t *Terminal) ToolUse() internal.Renderer {
	return internal.RendererFunc(func(w io.Writer, msg *internal.Message) error {
		t.header(w, assistantStyle, t.assistantLabel("🤖 Assistant", msg), msg)
		content := msg.Content()
		if thinking, ok := internal.ThinkingOf(content); ok && thinking != "" {
			fmt.Fprintln(w, bodyStyle.Render(thinkingStyle.Render("💭 "+thinking)))
		}
		if text := internal.TextOf(content); text != "" {
			if err := t.body(w, text); err != nil {
				return err
			}
		}
		for _, inv := range internal.ToolInvocationsOf(content) {
			fmt.Fprintln(w, bodyStyle.Render(toolStyle.Render("🔧 "+inv.ToolName)+" "+badgeStyle.Render(inv.ToolCallID)))
			if args := prettyJSON(inv.Args); args != "" {
				fmt.Fprintln(w, mutedStyle.Render(truncateLines(args, maxToolLines)))
			}
		}
		fmt.Fprintln(w)
		return nil
	})
}

// ToolResult renders a user record that returns tool output
func (t *Terminal) ToolResult() internal.Renderer {
	return internal.RendererFunc(func(w io.Writer, msg *internal.Message) error {
		t.header(w, toolStyle, "📎 Tool result", msg)
		for _, res := range internal.ToolResultsOf(msg.Content()) {
			mark, style := "✓", mutedStyle
			if res.IsError {
				mark, style = "✗", errorStyle
			}
			fmt.Fprintln(w, bodyStyle.Render(mark+" "+badgeStyle.Render(res.ToolUseID)))
			if res.Content != "" {
				fmt.Fprintln(w, style.Render(truncateLines(res.Content, maxResultLines)))
			}
		}
		fmt.Fprintln(w)
		return nil
	})
}

// CommandOutput renders local command transcripts embedded in string content
func (t *Terminal) CommandOutput() internal.Renderer {
	return internal.RendererFunc(func(w io.Writer, msg *internal.Message) error {
		t.header(w, systemStyle, "⌘ Command", msg)
		content := msg.Content()
		matches := commandTagRe.FindAllStringSubmatch(content.Text, -1)
		if len(matches) == 0 {
			return t.body(w, content.Text)
		}
		for _, m := range matches {
			tag, value := m[1], strings.TrimSpace(m[2])
			if value == "" {
				continue
			}
			switch tag {
			case "command-name":
				fmt.Fprintln(w, bodyStyle.Render(toolStyle.Render("$ "+value)))
			case "command-args":
				fmt.Fprintln(w, mutedStyle.Render(value))
			case "local-command-stderr":
				fmt.Fprintln(w, errorStyle.Render(truncateLines(value, maxResultLines)))
			case "local-command-stdout":
				fmt.Fprintln(w, mutedStyle.Render(truncateLines(value, maxResultLines)))
			}
		}
		fmt.Fprintln(w)
		return nil
	})
}

// Sidechain renders a message exchanged with a subagent
func (t *Terminal) Sidechain() internal.Renderer {
	return internal.RendererFunc(func(w io.Writer, msg *internal.Message) error {
		t.header(w, sidechainStyle, "🔀 Subagent "+msg.Role(), msg)
		content := msg.Content()
		text := internal.FlattenText(content)
		for _, inv := range internal.ToolInvocationsOf(content) {
			text += fmt.Sprintf("\n\n🔧 %s", inv.ToolName)
		}
		return t.body(w, strings.TrimSpace(text))
	})
}

// Meta renders a bookkeeping record in muted form
func (t *Terminal) Meta() internal.Renderer {
	return internal.RendererFunc(func(w io.Writer, msg *internal.Message) error {
		t.header(w, metaStyle, "ℹ Meta", msg)
		if text := internal.FlattenText(msg.Content()); text != "" {
			fmt.Fprintln(w, mutedStyle.Render(truncateLines(text, maxMetaLines)))
		}
		fmt.Fprintln(w)
		return nil
	})
}

// DefaultJSON dumps a record no other renderer claimed
func (t *Terminal) DefaultJSON() internal.Renderer {
	return internal.RendererFunc(func(w io.Writer, msg *internal.Message) error {
		t.header(w, fallbackStyle, "⚠ Default JSON", msg)
		raw := []byte(msg.Raw)
		if len(raw) == 0 {
			var err error
			if raw, err = json.Marshal(msg); err != nil {
				return fmt.Errorf("failed to marshal record: %w", err)
			}
		}
		fmt.Fprintln(w, mutedStyle.Render(prettyJSON(raw)))
		fmt.Fprintln(w)
		return nil
	})
}

func (t *Terminal) assistantLabel(label string, msg *internal.Message) string {
	if msg.Message != nil && msg.Message.Model != "" {
		return label + " " + badgeStyle.Render(msg.Message.Model)
	}
	return label
}

func (t *Terminal) header(w io.Writer, style lipgloss.Style, label string, msg *internal.Message) {
	parts := []string{style.Render(label)}

	class := internal.Classify(msg)
	for _, flag := range class.Flags {
		switch flag {
		case internal.FlagMeta, internal.FlagSidechain, internal.FlagTranscriptOnly:
			parts = append(parts, badgeStyle.Render("["+string(flag)+"]"))
		}
	}
	if ts, ok := msg.Time(); ok {
		parts = append(parts, timestampStyle.Render(ts.Format("2006-01-02 15:04:05")))
	} else if msg.Timestamp != "" {
		parts = append(parts, timestampStyle.Render(msg.Timestamp))
	}
	if t.showHash {
		parts = append(parts, hashStyle.Render("#"+msg.Fingerprint()))
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

func (t *Terminal) body(w io.Writer, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		_, err := fmt.Fprintln(w, mutedStyle.Render("(empty message)")+"\n")
		return err
	}
	if t.markdown != nil {
		text = t.markdown.Render(text)
	}
	_, err := fmt.Fprintln(w, bodyStyle.Render(text)+"\n")
	return err
}

func prettyJSON(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func truncateLines(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n") + fmt.Sprintf("\n… (%d more lines)", len(lines)-limit)
}
