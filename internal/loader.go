package internal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const maxTranscriptLine = 64 * 1024 * 1024

var transcriptFileRe = regexp.MustCompile(`([0-9a-fA-F-]{36})\.jsonl$`)

// transcript record types that never carry conversation content
var skippedRecordTypes = map[string]bool{
	"progress":              true,
	"file-history-snapshot": true,
}

// DecodeSession decodes a session document. Records that fail to decode are
// counted in Skipped and logged; only an unreadable document is an error.
func DecodeSession(data []byte, source string) (*SessionDocument, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DecodeError{Source: source, Index: -1, Err: errors.New("invalid JSON")}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &DecodeError{Source: source, Index: -1, Err: errors.New("document is not an object")}
	}

	doc := &SessionDocument{
		SessionID:      root.Get("session_id").String(),
		ExtractionTime: root.Get("extraction_time").String(),
		SourceFiles:    []SourceFile{},
		Messages:       []Message{},
		Source:         source,
	}

	if files := root.Get("source_files"); files.IsArray() {
		if err := json.Unmarshal([]byte(files.Raw), &doc.SourceFiles); err != nil {
			LogWarn("Ignoring source_files in %s: %v", source, err)
			doc.SourceFiles = []SourceFile{}
		}
	}

	if messages := root.Get("messages"); messages.IsArray() {
		index := 0
		messages.ForEach(func(_, value gjson.Result) bool {
			msg, err := decodeMessage([]byte(value.Raw))
			if err != nil {
				doc.Skipped++
				LogWarn("%v", &DecodeError{Source: source, Index: index, Err: err})
			} else {
				doc.Messages = append(doc.Messages, msg)
			}
			index++
			return true
		})
	} else if messages.Exists() {
		LogWarn("Ignoring messages in %s: not an array", source)
	}

	if doc.SessionID == "" {
		doc.SessionID = fallbackSessionID(source, data)
	}
	return doc, nil
}

// DecodeTranscript decodes a JSONL transcript with one record per line.
// Blank lines, bookkeeping records and undecodable lines are skipped.
func DecodeTranscript(r io.Reader, source string) (*SessionDocument, error) {
	doc := &SessionDocument{
		SourceFiles: []SourceFile{},
		Messages:    []Message{},
		Source:      source,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxTranscriptLine)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if skippedRecordTypes[gjson.GetBytes(line, "type").String()] {
			continue
		}
		msg, err := decodeMessage(line)
		if err != nil {
			doc.Skipped++
			LogWarn("%v", &DecodeError{Source: source, Index: lineNumber, Err: err})
			continue
		}
		if doc.SessionID == "" && msg.SessionID != "" {
			doc.SessionID = msg.SessionID
		}
		doc.Messages = append(doc.Messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Path: source, Op: "read", Err: err}
	}

	if source != "" {
		doc.SourceFiles = append(doc.SourceFiles, SourceFile{FilePath: source, LineNumber: lineNumber})
	}
	if doc.SessionID == "" {
		if m := transcriptFileRe.FindStringSubmatch(filepath.Base(source)); len(m) == 2 {
			doc.SessionID = m[1]
		} else {
			doc.SessionID = fallbackSessionID(source, nil)
		}
	}
	return doc, nil
}

// LoadSessionFile reads a session document or, for .jsonl files, a transcript
func LoadSessionFile(path string) (*SessionDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open", Err: err}
	}
	defer func() { _ = f.Close() }()

	if IsTranscriptPath(path) {
		return DecodeTranscript(f, path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "read", Err: err}
	}
	return DecodeSession(data, path)
}

// FetchSession retrieves a session document with a single GET. There is no
// retry; any transport error or non-2xx status is returned as a FetchError.
func FetchSession(ctx context.Context, client *http.Client, url string) (*SessionDocument, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Status: resp.StatusCode, Err: err}
	}
	return DecodeSession(data, url)
}

// IsTranscriptPath reports whether the path names a JSONL transcript
func IsTranscriptPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".jsonl")
}

// IsRemoteSource reports whether the source is an http(s) URL
func IsRemoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func decodeMessage(raw []byte) (Message, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Message{}, fmt.Errorf("record is not an object")
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, err
	}
	msg.Raw = append(json.RawMessage(nil), raw...)
	return msg, nil
}

func fallbackSessionID(source string, data []byte) string {
	name := source
	if name == "" {
		name = FingerprintString(string(data))
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
