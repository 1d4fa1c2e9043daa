package internal

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// DefaultJSONType is the matched type reported when no entry claims a message
const DefaultJSONType = "default-json"

// Renderer draws a message. Implementations live outside this package.
type Renderer interface {
	Render(w io.Writer, msg *Message) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(w io.Writer, msg *Message) error

// Render calls f(w, msg)
func (f RendererFunc) Render(w io.Writer, msg *Message) error {
	return f(w, msg)
}

// Matcher decides whether an entry handles a message
type Matcher func(msg *Message) (bool, error)

// RegistryEntry binds a matcher to a renderer at a priority
type RegistryEntry struct {
	Type        string
	Renderer    Renderer
	Priority    int
	Match       Matcher
	Description string
}

// MatchResult is the outcome of a registry lookup
type MatchResult struct {
	Success     bool
	Renderer    Renderer
	MatchedType string
	Priority    int
}

// RegistryStats summarizes registered entries
type RegistryStats struct {
	TotalComponents  int            `json:"totalComponents"`
	ComponentsByType map[string]int `json:"componentsByType"`
}

// Registry dispatches messages to renderers, highest priority first.
// Entries are expected to be registered at startup; Register must not run
// concurrently with FindMatch.
type Registry struct {
	entries  []RegistryEntry
	fallback Renderer
}

// NewRegistry creates an empty registry that falls back to the given renderer
func NewRegistry(fallback Renderer) *Registry {
	return &Registry{fallback: fallback}
}

// Register adds an entry and keeps entries ordered by descending priority.
// Entries of equal priority keep their registration order.
func (r *Registry) Register(entry RegistryEntry) {
	r.entries = append(r.entries, entry)
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].Priority > r.entries[j].Priority
	})
}

// FindMatch returns the first entry whose matcher accepts the message. A
// matcher that errors or panics is logged and skipped.
func (r *Registry) FindMatch(msg *Message) MatchResult {
	for _, entry := range r.entries {
		ok, err := safeMatch(entry, msg)
		if err != nil {
			LogWarn("%v", err)
			continue
		}
		if ok {
			return MatchResult{
				Success:     true,
				Renderer:    entry.Renderer,
				MatchedType: entry.Type,
				Priority:    entry.Priority,
			}
		}
	}

	return MatchResult{
		Success:     false,
		Renderer:    r.fallback,
		MatchedType: DefaultJSONType,
		Priority:    0,
	}
}

// Entries returns a copy of the entries in dispatch order
func (r *Registry) Entries() []RegistryEntry {
	out := make([]RegistryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Stats counts entries by the prefix of their type before the first dash
func (r *Registry) Stats() RegistryStats {
	stats := RegistryStats{
		TotalComponents:  len(r.entries),
		ComponentsByType: make(map[string]int),
	}
	for _, entry := range r.entries {
		category, _, _ := strings.Cut(entry.Type, "-")
		stats.ComponentsByType[category]++
	}
	return stats
}

func safeMatch(entry RegistryEntry, msg *Message) (ok bool, err error) {
	if entry.Match == nil {
		return false, &MatchError{Type: entry.Type, Err: fmt.Errorf("no matcher")}
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			err = &MatchError{Type: entry.Type, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	ok, err = entry.Match(msg)
	if err != nil {
		return false, &MatchError{Type: entry.Type, Err: err}
	}
	return ok, nil
}

// MatchBaseType accepts messages whose classified base type equals baseType
func MatchBaseType(baseType string) Matcher {
	return func(msg *Message) (bool, error) {
		return Classify(msg).BaseType == baseType, nil
	}
}

// MatchFlag accepts messages whose classification carries the flag
func MatchFlag(flag Flag) Matcher {
	return func(msg *Message) (bool, error) {
		return Classify(msg).Has(flag), nil
	}
}

// MatchAll accepts messages accepted by every matcher
func MatchAll(matchers ...Matcher) Matcher {
	return func(msg *Message) (bool, error) {
		for _, m := range matchers {
			ok, err := m(msg)
			if err != nil || !ok {
				return false, err
			}
		}
		return len(matchers) > 0, nil
	}
}
