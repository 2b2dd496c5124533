package cmd

import (
	"context"
	"io"

	"github.com/mwantia/onedatafs/data"
)

// API is the filesystem surface available to commands.
// It is implemented by onedatafs.FileSystem.
type API interface {
	Stat(ctx context.Context, path string) (*data.FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
	ReadDir(ctx context.Context, path string) ([]*data.FileInfo, error)
	Spaces(ctx context.Context) ([]string, error)

	Mkdir(ctx context.Context, path string) error
	MkdirAll(ctx context.Context, path string) error
	Remove(ctx context.Context, path string) error
	RemoveDir(ctx context.Context, path string) error
	RemoveAll(ctx context.Context, path string) error
	Rename(ctx context.Context, oldPath, newPath string) error

	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error

	GetXattr(ctx context.Context, path, name string) (string, error)
	SetXattr(ctx context.Context, path, name, value string) error
	ListXattrs(ctx context.Context, path string) ([]string, error)
	RemoveXattr(ctx context.Context, path, name string) error
}

// Command represents an executable command against the filesystem.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "ls -l [path]")
	Usage() string

	// Execute runs the command with parsed arguments
	// Returns exit code (0 = success) and error message
	Execute(ctx context.Context, api API, args *CommandArgs) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}

// CommandArgs contains parsed command arguments
type CommandArgs struct {
	// Positional arguments (command-specific)
	Args []string

	// Parsed flags
	Flags map[string]any

	// Raw unparsed arguments (for custom parsing)
	Raw []string

	// Stdout receives command output
	Stdout io.Writer

	// Stdin provides command input
	Stdin io.Reader
}

// Bool returns a boolean flag value.
func (a *CommandArgs) Bool(name string) bool {
	value, ok := a.Flags[name].(bool)
	return ok && value
}

// String returns a string flag value.
func (a *CommandArgs) String(name string) string {
	value, _ := a.Flags[name].(string)
	return value
}

// CommandFlagSet defines the expected flags for a command
type CommandFlagSet struct {
	Flags map[string]*CommandFlag
}

// CommandFlag represents a single command-line flag
type CommandFlag struct {
	Name        string `json:"name"`              // e.g., "long" or "l"
	Short       string `json:"short"`             // Single-char shorthand (e.g., "l")
	Type        string `json:"type"`              // "string", "bool", "int"
	Default     any    `json:"default,omitempty"` // Default value
	Required    bool   `json:"required"`          // Must be provided
	Description string `json:"description"`       // Help text
}
