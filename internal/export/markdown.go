package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/session-viewer/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", session.ID)

	_, _ = fmt.Fprintf(w, "**Source:** %s  \n", session.Source)
	if session.Metadata.CWD != "" {
		_, _ = fmt.Fprintf(w, "**Directory:** %s  \n", session.Metadata.CWD)
	}
	if session.Metadata.GitBranch != "" {
		_, _ = fmt.Fprintf(w, "**Branch:** %s  \n", session.Metadata.GitBranch)
	}
	if session.Metadata.FirstTimestamp != "" {
		_, _ = fmt.Fprintf(w, "**Started:** %s  \n", session.Metadata.FirstTimestamp)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range session.Messages {
		writeMessage(w, msg)

		// Add horizontal rule after each message (except the last one)
		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func writeMessage(w io.Writer, msg internal.ParsedMessage) {
	label := msg.Role
	if msg.IsSidechain {
		label += " (subagent)"
	}
	timestamp := ""
	if msg.Timestamp != "" {
		timestamp = fmt.Sprintf(" (%s)", msg.Timestamp)
	}
	_, _ = fmt.Fprintf(w, "**%s:**%s\n\n", label, timestamp)

	if msg.Thinking != "" {
		_, _ = fmt.Fprintf(w, "<details>\n<summary>Thinking</summary>\n\n%s\n\n</details>\n\n", msg.Thinking)
	}

	if content := escapeMarkdown(msg.Content); content != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", content)
	}

	for _, inv := range msg.ToolInvocations {
		_, _ = fmt.Fprintf(w, "> 🔧 **%s** `%s` (%s)\n\n", inv.ToolName, inv.ToolCallID, inv.State)
		if args := indentJSON(inv.Args); args != "" {
			_, _ = fmt.Fprintf(w, "```json\n%s\n```\n\n", args)
		}
		if inv.Result != nil && inv.Result.Content != "" {
			_, _ = fmt.Fprintf(w, "```\n%s\n```\n\n", inv.Result.Content)
		}
	}
}

func indentJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			// Escape markdown syntax outside code blocks
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
