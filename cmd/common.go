package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/iksnae/session-viewer/internal"
	"github.com/iksnae/session-viewer/internal/render"
)

const fetchTimeout = 30 * time.Second

// loadDocument reads a session from a local file or an http(s) URL
func loadDocument(ctx context.Context, source string) (*internal.SessionDocument, error) {
	if internal.IsRemoteSource(source) {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		return internal.FetchSession(ctx, &http.Client{}, source)
	}
	return internal.LoadSessionFile(source)
}

// loadSession loads and normalizes a session, going through the cache for
// local files unless --no-cache is set
func loadSession(ctx context.Context, source string) (*internal.Session, error) {
	if !internal.IsRemoteSource(source) {
		return internal.LoadSessionCached(cacheManager(), source)
	}
	doc, err := loadDocument(ctx, source)
	if err != nil {
		return nil, err
	}
	return internal.NewNormalizer().NormalizeDocument(doc)
}

// cacheManager returns the configured cache, or nil when caching is off
func cacheManager() *internal.CacheManager {
	if noCache || cfg.CacheDir == "" {
		return nil
	}
	return internal.NewCacheManager(cfg.CacheDir)
}

// newTerminalRegistry builds the registry used for terminal output. plain
// skips markdown rendering.
func newTerminalRegistry(plain, showHash bool) *internal.Registry {
	var md *render.Markdown
	if !plain {
		var err error
		md, err = render.NewMarkdown(cfg.Style, cfg.Width)
		if err != nil {
			internal.LogWarn("Markdown rendering disabled: %v", err)
			md = nil
		}
	}
	return render.NewTerminalRegistry(render.NewTerminal(md, showHash))
}
