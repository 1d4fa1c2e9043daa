package internal

// SourceFile records where a session document was extracted from
type SourceFile struct {
	FilePath   string `json:"file_path" yaml:"file_path"`
	LineNumber int    `json:"line_number" yaml:"line_number"`
	FoundAt    string `json:"found_at" yaml:"found_at"`
}

// SessionDocument is an input document as decoded by the loader
type SessionDocument struct {
	SessionID      string       `json:"session_id"`
	ExtractionTime string       `json:"extraction_time"`
	SourceFiles    []SourceFile `json:"source_files"`
	Messages       []Message    `json:"messages"`

	// Source is the file path or URL the document came from
	Source string `json:"-"`
	// Skipped counts records that could not be decoded
	Skipped int `json:"-"`
}

// ParsedMessage is the normalized presentation form of a message
type ParsedMessage struct {
	ID              string           `json:"id" yaml:"id"`
	Role            string           `json:"role" yaml:"role"`
	Content         string           `json:"content" yaml:"content"`
	Timestamp       string           `json:"timestamp" yaml:"timestamp"`
	Model           string           `json:"model,omitempty" yaml:"model,omitempty"`
	Usage           *Usage           `json:"usage,omitempty" yaml:"usage,omitempty"`
	Thinking        string           `json:"thinking,omitempty" yaml:"thinking,omitempty"`
	ToolInvocations []ToolInvocation `json:"toolInvocations,omitempty" yaml:"tool_invocations,omitempty"`
	ToolResults     []ToolResult     `json:"toolResults,omitempty" yaml:"tool_results,omitempty"`
	IsSidechain     bool             `json:"isSidechain,omitempty" yaml:"is_sidechain,omitempty"`
	ParentID        string           `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	Hash            string           `json:"hash" yaml:"hash"`

	// Source points at the record this message was projected from
	Source *Message `json:"-" yaml:"-"`
}

// Session represents a normalized chat session
type Session struct {
	ID             string          `json:"id" yaml:"id"`
	Source         string          `json:"source" yaml:"source"`
	ExtractionTime string          `json:"extraction_time,omitempty" yaml:"extraction_time,omitempty"`
	SourceFiles    []SourceFile    `json:"source_files,omitempty" yaml:"source_files,omitempty"`
	Messages       []ParsedMessage `json:"messages" yaml:"messages"`
	Metadata       Metadata        `json:"metadata" yaml:"metadata"`
}

// Metadata contains additional session information
type Metadata struct {
	MessageCount   int    `json:"message_count" yaml:"message_count"`
	SidechainCount int    `json:"sidechain_count" yaml:"sidechain_count"`
	SkippedCount   int    `json:"skipped_count" yaml:"skipped_count"`
	FirstTimestamp string `json:"first_timestamp,omitempty" yaml:"first_timestamp,omitempty"`
	LastTimestamp  string `json:"last_timestamp,omitempty" yaml:"last_timestamp,omitempty"`
	CWD            string `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	GitBranch      string `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`
	Version        string `json:"version,omitempty" yaml:"version,omitempty"`
	Hash           string `json:"hash,omitempty" yaml:"hash,omitempty"`
}
