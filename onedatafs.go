package onedatafs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mwantia/onedatafs/cache"
	"github.com/mwantia/onedatafs/client"
	"github.com/mwantia/onedatafs/cmd"
	"github.com/mwantia/onedatafs/data"
	"github.com/mwantia/onedatafs/log"
)

// FileSystem exposes a Onedata virtual filesystem through standard
// filesystem verbs, translating each call into REST requests against the
// Onezone and the Oneprovider serving the addressed space.
//
// When a space is configured all paths are relative to that space. Without
// one, the first path segment names the space and the root directory lists
// all accessible spaces.
type FileSystem struct {
	mu       sync.RWMutex
	client   *client.Client
	options  *Options
	log      *log.Logger
	attrs    cache.AttributeCache
	commands map[string]cmd.Command
}

// New creates a FileSystem for the given Onezone host and access token.
func New(zoneHost, token string, opts ...Option) (*FileSystem, error) {
	options := newDefaultOptions()
	options.ZoneHost = zoneHost
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	logger := options.Logger
	if logger == nil {
		if options.LogFile != "" || !options.NoTerminalLog {
			logger = log.NewLogger("onedatafs", options.LogLevel, options.LogFile, options.NoTerminalLog)
		} else {
			logger = log.Discard()
		}
	}

	clientOpts := []client.Option{
		client.WithTimeout(options.Timeout),
		client.WithRetries(options.Retries),
		client.WithCacheTTL(options.CacheTTL),
		client.WithLogger(logger.Named("client")),
	}
	if options.Insecure {
		clientOpts = append(clientOpts, client.WithInsecure())
	}
	if options.HTTPClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(options.HTTPClient))
	}

	restClient, err := client.New(zoneHost, token, clientOpts...)
	if err != nil {
		return nil, err
	}

	attrs := options.AttributeCache
	if attrs == nil {
		attrs = cache.Noop()
	}

	f := &FileSystem{
		client:   restClient,
		options:  options,
		log:      logger,
		attrs:    attrs,
		commands: make(map[string]cmd.Command),
	}

	if err := f.registerBuiltins(); err != nil {
		return nil, err
	}

	return f, nil
}

// String returns a unique representation of the FileSystem instance.
func (f *FileSystem) String() string {
	return fmt.Sprintf("<onedatafs '%s/%s'>", f.options.ZoneHost, f.options.Space)
}

// Space returns the configured space name, or an empty string in global mode.
func (f *FileSystem) Space() string {
	return f.options.Space
}

// ReadOnly reports whether the filesystem rejects mutating operations.
func (f *FileSystem) ReadOnly() bool {
	return f.options.ReadOnly
}

// Close releases resources held by the filesystem, such as the attribute
// cache. The underlying HTTP connection pool is reclaimed by the runtime.
func (f *FileSystem) Close() error {
	return f.attrs.Close()
}

// isSpaceRelative reports whether paths are resolved within a fixed space.
func (f *FileSystem) isSpaceRelative() bool {
	return f.options.Space != ""
}

// resolve splits a path into a space name and a space-relative path.
func (f *FileSystem) resolve(path string) (string, string, error) {
	path = data.CleanPath(path)

	if f.isSpaceRelative() {
		rel := strings.TrimPrefix(path, "/")
		return f.options.Space, rel, nil
	}

	return data.SplitSpacePath(path)
}

// invalidate drops cached attributes for a path, everything below it and its
// parent directory listing entry.
func (f *FileSystem) invalidate(space, rel string) {
	f.attrs.InvalidatePrefix(cache.Key(space, rel))

	if rel != "" {
		parent := ""
		if idx := strings.LastIndex(rel, "/"); idx >= 0 {
			parent = rel[:idx]
		}
		f.attrs.Invalidate(cache.Key(space, parent))
	}
}
