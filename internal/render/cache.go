package render

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

// cachedRenderer serializes use of a glamour.TermRenderer, which is not safe
// for concurrent Render calls
type cachedRenderer struct {
	mu sync.Mutex
	r  *glamour.TermRenderer
}

func (c *cachedRenderer) render(content string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r.Render(content)
}

// rendererCache keeps one renderer per distinct Options value
type rendererCache struct {
	mu        sync.Mutex
	renderers map[Options]*cachedRenderer
}

var globalCache = &rendererCache{renderers: make(map[Options]*cachedRenderer)}

// get returns the renderer for opts, creating it on first use
func (c *rendererCache) get(opts Options) (*cachedRenderer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.renderers[opts]; ok {
		return r, nil
	}

	r, err := createRenderer(opts)
	if err != nil {
		return nil, err
	}

	cr := &cachedRenderer{r: r}
	c.renderers[opts] = cr
	return cr, nil
}

// createRenderer creates a new TermRenderer with the specified options.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
	}

	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}

	r, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r, nil
}

// ClearCache drops all cached renderers.
func ClearCache() {
	globalCache.mu.Lock()
	globalCache.renderers = make(map[Options]*cachedRenderer)
	globalCache.mu.Unlock()
}

// CacheSize returns the number of cached renderers.
func CacheSize() int {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	return len(globalCache.renderers)
}
