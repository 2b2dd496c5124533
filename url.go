package onedatafs

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mwantia/onedatafs/data"
)

// URLScheme is the scheme used to address a Onedata filesystem by URL.
const URLScheme = "onedatarestfs"

// URLParams holds the connection parameters parsed from a filesystem URL of
// the form onedatarestfs://HOST?token=...&space=...&insecure=true&timeout=60.
type URLParams struct {
	ZoneHost string
	Token    string
	Space    string
	Insecure bool
	Timeout  time.Duration
}

// ParseURL parses a onedatarestfs:// URL into connection parameters.
func ParseURL(rawURL string) (*URLParams, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", data.ErrInvalid, err)
	}

	if parsed.Scheme != URLScheme {
		return nil, fmt.Errorf("%w: unexpected scheme %q", data.ErrInvalid, parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%w: missing zone host", data.ErrInvalid)
	}

	query := parsed.Query()
	params := &URLParams{
		ZoneHost: parsed.Host,
		Token:    query.Get("token"),
		Space:    query.Get("space"),
	}

	if params.Token == "" {
		return nil, fmt.Errorf("%w: missing token parameter", data.ErrInvalid)
	}

	switch query.Get("insecure") {
	case "true", "1", "yes":
		params.Insecure = true
	}

	if timeout := query.Get("timeout"); timeout != "" {
		seconds, err := strconv.Atoi(timeout)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("%w: invalid timeout %q", data.ErrInvalid, timeout)
		}
		params.Timeout = time.Duration(seconds) * time.Second
	}

	return params, nil
}

// NewFromURL creates a FileSystem from a onedatarestfs:// URL.
// Explicit options take precedence over URL parameters.
func NewFromURL(rawURL string, opts ...Option) (*FileSystem, error) {
	params, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	urlOpts := make([]Option, 0, 3+len(opts))
	if params.Space != "" {
		urlOpts = append(urlOpts, WithSpace(params.Space))
	}
	if params.Insecure {
		urlOpts = append(urlOpts, WithInsecure())
	}
	if params.Timeout > 0 {
		urlOpts = append(urlOpts, WithTimeout(params.Timeout))
	}
	urlOpts = append(urlOpts, opts...)

	return New(params.ZoneHost, params.Token, urlOpts...)
}
