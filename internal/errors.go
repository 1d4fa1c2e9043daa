package internal

import "fmt"

// LoadError represents errors reading a session source
type LoadError struct {
	Path string
	Op   string // "open", "read", "stat"
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DecodeError represents a record or document that could not be decoded
type DecodeError struct {
	Source string // file path or URL
	Index  int    // record index, -1 for the whole document
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("decode error [%s]: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("decode error [%s] record %d: %v", e.Source, e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MatchError represents a registry predicate that failed while matching
type MatchError struct {
	Type string
	Err  error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("match error [%s]: %v", e.Type, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

// FetchError represents a failed one-shot fetch of a session document
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch error %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch error %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
