package render

import "github.com/iksnae/session-viewer/internal"

// Registry entry types
const (
	TypeToolUse       = "tool-use-message"
	TypeToolResult    = "tool-result-message"
	TypeThinking      = "thinking-message"
	TypeCommandOutput = "command-output-message"
	TypeSidechain     = "sidechain-message"
	TypeMeta          = "meta-message"
	TypeUser          = "user-message"
	TypeAssistant     = "assistant-message"
	TypeSystem        = "system-message"
)

// NewTerminalRegistry registers every terminal renderer. Messages no entry
// accepts fall back to the raw JSON dump.
func NewTerminalRegistry(t *Terminal) *internal.Registry {
	r := internal.NewRegistry(t.DefaultJSON())

	r.Register(internal.RegistryEntry{
		Type:        TypeToolUse,
		Renderer:    t.ToolUse(),
		Priority:    200,
		Match:       internal.MatchAll(internal.MatchFlag(internal.FlagToolUse), internal.MatchBaseType(internal.MessageTypeAssistant)),
		Description: "assistant reply calling tools",
	})
	r.Register(internal.RegistryEntry{
		Type:        TypeToolResult,
		Renderer:    t.ToolResult(),
		Priority:    200,
		Match:       internal.MatchAll(internal.MatchFlag(internal.FlagToolResult), internal.MatchBaseType(internal.MessageTypeUser)),
		Description: "tool output returned to the assistant",
	})
	r.Register(internal.RegistryEntry{
		Type:        TypeThinking,
		Renderer:    t.Thinking(),
		Priority:    180,
		Match:       internal.MatchFlag(internal.FlagThinking),
		Description: "assistant reply with reasoning",
	})
	r.Register(internal.RegistryEntry{
		Type:        TypeCommandOutput,
		Renderer:    t.CommandOutput(),
		Priority:    150,
		Match:       internal.MatchFlag(internal.FlagCommand),
		Description: "local command transcript",
	})
	r.Register(internal.RegistryEntry{
		Type:        TypeSidechain,
		Renderer:    t.Sidechain(),
		Priority:    120,
		Match:       internal.MatchFlag(internal.FlagSidechain),
		Description: "subagent conversation",
	})
	r.Register(internal.RegistryEntry{
		Type:        TypeMeta,
		Renderer:    t.Meta(),
		Priority:    110,
		Match:       internal.MatchFlag(internal.FlagMeta),
		Description: "bookkeeping record",
	})
	r.Register(internal.RegistryEntry{
		Type:        TypeUser,
		Renderer:    t.User(),
		Priority:    100,
		Match:       internal.MatchBaseType(internal.MessageTypeUser),
		Description: "user prompt",
	})
	r.Register(internal.RegistryEntry{
		Type:        TypeAssistant,
		Renderer:    t.Assistant(),
		Priority:    100,
		Match:       internal.MatchBaseType(internal.MessageTypeAssistant),
		Description: "assistant reply",
	})
	r.Register(internal.RegistryEntry{
		Type:        TypeSystem,
		Renderer:    t.System(),
		Priority:    100,
		Match:       internal.MatchBaseType(internal.MessageTypeSystem),
		Description: "system record",
	})

	return r
}
