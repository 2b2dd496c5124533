package onedatafs

import (
	"net/http"
	"time"

	"github.com/mwantia/onedatafs/cache"
	"github.com/mwantia/onedatafs/data"
	"github.com/mwantia/onedatafs/log"
)

type Options struct {
	ZoneHost string
	Space    string
	Timeout  time.Duration
	Insecure bool
	ReadOnly bool
	Retries  int
	CacheTTL time.Duration

	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool
	Logger        *log.Logger

	AttributeCache cache.AttributeCache
	HTTPClient     *http.Client
	CommandOutput  *CommandIO
}

type Option func(*Options) error

func newDefaultOptions() *Options {
	return &Options{
		Timeout:  30 * time.Second,
		Retries:  3,
		CacheTTL: 5 * time.Minute,
		LogLevel: log.Info,
		// Library embedders usually bring their own logging; terminal
		// output stays opt-in through WithLogLevel/WithLogFile.
		NoTerminalLog: true,
	}
}

// WithSpace fixes the filesystem to a single space; all paths become
// relative to it. Without it the first path segment selects the space.
func WithSpace(space string) Option {
	return func(opts *Options) error {
		opts.Space = space
		return nil
	}
}

// WithTimeout sets the per-request timeout against the REST API.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) error {
		if timeout <= 0 {
			return data.ErrInvalid
		}
		opts.Timeout = timeout
		return nil
	}
}

// WithInsecure disables TLS certificate verification.
func WithInsecure() Option {
	return func(opts *Options) error {
		opts.Insecure = true
		return nil
	}
}

// WithReadOnly makes every mutating operation fail with ErrReadOnly.
func WithReadOnly() Option {
	return func(opts *Options) error {
		opts.ReadOnly = true
		return nil
	}
}

// WithRetries sets how often transient REST failures are retried.
func WithRetries(retries int) Option {
	return func(opts *Options) error {
		if retries < 0 {
			return data.ErrInvalid
		}
		opts.Retries = retries
		return nil
	}
}

// WithCacheTTL bounds how long resolved ids and attributes are reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(opts *Options) error {
		opts.CacheTTL = ttl
		return nil
	}
}

// WithAttributeCache installs a metadata cache consulted by Stat and ReadDir.
func WithAttributeCache(attrs cache.AttributeCache) Option {
	return func(opts *Options) error {
		opts.AttributeCache = attrs
		return nil
	}
}

func WithLogLevel(logLevel log.LogLevel) Option {
	return func(opts *Options) error {
		opts.LogLevel = logLevel
		opts.NoTerminalLog = false
		return nil
	}
}

func WithLogFile(logFile string) Option {
	return func(opts *Options) error {
		opts.LogFile = logFile
		return nil
	}
}

// WithLogger replaces the logger built from the log options.
func WithLogger(logger *log.Logger) Option {
	return func(opts *Options) error {
		opts.Logger = logger
		return nil
	}
}

// WithHTTPClient replaces the pooled HTTP client, mainly for testing.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *Options) error {
		opts.HTTPClient = httpClient
		return nil
	}
}

// WithCommandIO redirects input and output of executed commands.
func WithCommandIO(io *CommandIO) Option {
	return func(opts *Options) error {
		opts.CommandOutput = io
		return nil
	}
}
