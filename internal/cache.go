package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

const cacheVersion = "2.0"

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// CacheManager caches normalized sessions keyed by their source file
type CacheManager struct {
	cacheDir string
}

// CacheMetadata stores metadata about the cache
type CacheMetadata struct {
	CacheVersion string    `json:"cache_version" yaml:"cache_version"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// SessionIndexEntry represents a session entry in the index
type SessionIndexEntry struct {
	ID             string    `yaml:"id"`
	Source         string    `yaml:"source"`
	SourceModTime  time.Time `yaml:"source_mod_time"`
	MessageCount   int       `yaml:"message_count"`
	SidechainCount int       `yaml:"sidechain_count,omitempty"`
	FirstTimestamp string    `yaml:"first_timestamp,omitempty"`
	LastTimestamp  string    `yaml:"last_timestamp,omitempty"`
	CWD            string    `yaml:"cwd,omitempty"`
	GitBranch      string    `yaml:"git_branch,omitempty"`
	Hash           string    `yaml:"hash,omitempty"`
}

// SessionIndex represents the YAML index of all cached sessions
type SessionIndex struct {
	Sessions []SessionIndexEntry `yaml:"sessions"`
	Metadata CacheMetadata       `yaml:"metadata"`
}

// NewCacheManager creates a new cache manager
func NewCacheManager(cacheDir string) *CacheManager {
	return &CacheManager{
		cacheDir: cacheDir,
	}
}

// EnsureCacheDir ensures the cache directory exists
func (cm *CacheManager) EnsureCacheDir() error {
	return os.MkdirAll(cm.cacheDir, 0755)
}

// GetCacheDir returns the cache directory path
func (cm *CacheManager) GetCacheDir() string {
	return cm.cacheDir
}

// GetIndexPath returns the path to the session index YAML file
func (cm *CacheManager) GetIndexPath() string {
	return filepath.Join(cm.cacheDir, "sessions.yaml")
}

// GetSessionPath returns the path to a session's cache file. Different
// sources may carry the same session id, so the source is part of the name.
func (cm *CacheManager) GetSessionPath(sessionID, source string) string {
	return filepath.Join(cm.cacheDir, fmt.Sprintf("session_%s_%s.json", unsafeIDChars.ReplaceAllString(sessionID, "_"), FingerprintString(source)))
}

// LoadIndex loads the session index
func (cm *CacheManager) LoadIndex() (*SessionIndex, error) {
	data, err := os.ReadFile(cm.GetIndexPath())
	if err != nil {
		return nil, err
	}

	var index SessionIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}
	if index.Metadata.CacheVersion != cacheVersion {
		return nil, fmt.Errorf("cache version %q is not %q", index.Metadata.CacheVersion, cacheVersion)
	}

	return &index, nil
}

// SaveIndex saves the session index
func (cm *CacheManager) SaveIndex(index *SessionIndex) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	return os.WriteFile(cm.GetIndexPath(), data, 0644)
}

// SaveSession saves a single session to its cache file
func (cm *CacheManager) SaveSession(session *Session) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return os.WriteFile(cm.GetSessionPath(session.ID, session.Source), data, 0644)
}

// LoadSession loads the cached copy of a session read from source
func (cm *CacheManager) LoadSession(sessionID, source string) (*Session, error) {
	data, err := os.ReadFile(cm.GetSessionPath(sessionID, source))
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// LookupEntry returns the index entry for a source file when the file has
// not changed since it was cached
func (cm *CacheManager) LookupEntry(sourcePath string) (SessionIndexEntry, bool) {
	index, err := cm.LoadIndex()
	if err != nil {
		return SessionIndexEntry{}, false
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		return SessionIndexEntry{}, false
	}

	for _, entry := range index.Sessions {
		if entry.Source == sourcePath && entry.SourceModTime.Equal(info.ModTime()) {
			return entry, true
		}
	}
	return SessionIndexEntry{}, false
}

// Lookup returns the cached session for an unchanged source file
func (cm *CacheManager) Lookup(sourcePath string) (*Session, bool) {
	entry, ok := cm.LookupEntry(sourcePath)
	if !ok {
		return nil, false
	}
	session, err := cm.LoadSession(entry.ID, entry.Source)
	if err != nil {
		LogDebug("Cached session %s unreadable: %v", entry.ID, err)
		return nil, false
	}
	if session.Source != sourcePath {
		LogDebug("Cached session %s belongs to %s, not %s", entry.ID, session.Source, sourcePath)
		return nil, false
	}
	return session, true
}

// Store saves a session read from a local file and records it in the index
func (cm *CacheManager) Store(session *Session) error {
	info, err := os.Stat(session.Source)
	if err != nil {
		return err
	}

	index, err := cm.LoadIndex()
	if err != nil {
		now := time.Now()
		index = &SessionIndex{
			Sessions: make([]SessionIndexEntry, 0),
			Metadata: CacheMetadata{
				CacheVersion: cacheVersion,
				CreatedAt:    now,
			},
		}
	}
	index.Metadata.UpdatedAt = time.Now()

	if err := cm.SaveSession(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	entry := SessionIndexEntry{
		ID:             session.ID,
		Source:         session.Source,
		SourceModTime:  info.ModTime(),
		MessageCount:   session.Metadata.MessageCount,
		SidechainCount: session.Metadata.SidechainCount,
		FirstTimestamp: session.Metadata.FirstTimestamp,
		LastTimestamp:  session.Metadata.LastTimestamp,
		CWD:            session.Metadata.CWD,
		GitBranch:      session.Metadata.GitBranch,
		Hash:           session.Metadata.Hash,
	}

	found := false
	for i, existing := range index.Sessions {
		if existing.Source == session.Source {
			index.Sessions[i] = entry
			found = true
			break
		}
	}
	if !found {
		index.Sessions = append(index.Sessions, entry)
	}

	return cm.SaveIndex(index)
}

// ClearCache removes every cached session and the index
func (cm *CacheManager) ClearCache() error {
	index, err := cm.LoadIndex()
	if err == nil {
		for _, entry := range index.Sessions {
			_ = os.Remove(cm.GetSessionPath(entry.ID, entry.Source))
		}
	}

	if err := os.Remove(cm.GetIndexPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadSessionCached loads a local session file through the cache. A nil
// cache manager disables caching.
func LoadSessionCached(cm *CacheManager, path string) (*Session, error) {
	if cm != nil {
		if session, ok := cm.Lookup(path); ok {
			LogDebug("Loaded %s from cache", path)
			return session, nil
		}
	}

	doc, err := LoadSessionFile(path)
	if err != nil {
		return nil, err
	}
	session, err := NewNormalizer().NormalizeDocument(doc)
	if err != nil {
		return nil, err
	}

	if cm != nil {
		if err := cm.Store(session); err != nil {
			LogWarn("Failed to cache session %s: %v", session.ID, err)
		}
	}
	return session, nil
}
