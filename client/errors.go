package client

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/mwantia/onedatafs/data"
)

// RESTError describes a non-2xx response from the Onezone or Oneprovider API.
// The body format is {"error": {"id", "details", "description"}}.
type RESTError struct {
	StatusCode  int
	Category    string
	Errno       string
	Description string
}

type restErrorBody struct {
	Error struct {
		ID      string `json:"id"`
		Details struct {
			Errno string `json:"errno"`
		} `json:"details"`
		Description string `json:"description"`
	} `json:"error"`
}

// newRESTError consumes and closes the response body.
func newRESTError(resp *http.Response) *RESTError {
	defer resp.Body.Close()

	e := &RESTError{
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return e
	}

	var parsed restErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Category = parsed.Error.ID
		e.Errno = parsed.Error.Details.Errno
		e.Description = parsed.Error.Description
	}

	return e
}

func (e *RESTError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("onedatafs: rest error %d %s: %s", e.StatusCode, e.Category, e.Description)
	}

	return fmt.Sprintf("onedatafs: rest error %d", e.StatusCode)
}

// Is maps REST status codes and POSIX errno categories onto the shared
// filesystem sentinels, so callers can use errors.Is without inspecting
// wire details.
func (e *RESTError) Is(target error) bool {
	switch target {
	case data.ErrNotExist, fs.ErrNotExist:
		return e.StatusCode == http.StatusNotFound || e.Errno == "enoent"
	case data.ErrExist, fs.ErrExist:
		return e.Errno == "eexist"
	case data.ErrPermission, fs.ErrPermission:
		return e.StatusCode == http.StatusUnauthorized ||
			e.StatusCode == http.StatusForbidden ||
			e.Errno == "eacces" || e.Errno == "eperm"
	case data.ErrNoAttribute:
		return e.Errno == "enodata"
	case data.ErrDirectoryNotEmpty:
		return e.Errno == "enotempty"
	case data.ErrNotDirectory:
		return e.Errno == "enotdir"
	case data.ErrIsDirectory:
		return e.Errno == "eisdir"
	}

	return false
}

// retryable reports whether the response status indicates a transient
// condition worth retrying.
func retryable(status int) bool {
	return status >= http.StatusInternalServerError ||
		status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests
}
