package onedatafs

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mwantia/onedatafs/cmd"
	"github.com/mwantia/onedatafs/cmd/builtin"
)

// CommandIO bundles the streams used by executed commands.
type CommandIO struct {
	Stdout io.Writer
	Stdin  io.Reader
}

// RegisterCommand registers a custom command.
func (f *FileSystem) RegisterCommand(command cmd.Command) error {
	if command == nil {
		return fmt.Errorf("command cannot be nil")
	}

	name := command.Name()
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.commands[name]; exists {
		return fmt.Errorf("command already registered: %s", name)
	}

	f.commands[name] = command
	return nil
}

// UnregisterCommand removes a registered command.
func (f *FileSystem) UnregisterCommand(name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.commands[name]; !exists {
		return false, nil
	}

	delete(f.commands, name)
	return true, nil
}

// Commands returns all registered commands.
func (f *FileSystem) Commands() []cmd.Command {
	f.mu.RLock()
	defer f.mu.RUnlock()

	commands := make([]cmd.Command, 0, len(f.commands))
	for _, command := range f.commands {
		commands = append(commands, command)
	}

	return commands
}

// Execute parses and executes a command against the filesystem.
func (f *FileSystem) Execute(ctx context.Context, args ...string) (int, error) {
	if len(args) == 0 {
		return 1, fmt.Errorf("no command specified")
	}

	f.mu.RLock()
	command, exists := f.commands[args[0]]
	f.mu.RUnlock()

	if !exists {
		return 1, fmt.Errorf("command not found: %s", args[0])
	}

	parser := cmd.NewParser(command.GetFlags())
	parsed, err := parser.Parse(args[1:])
	if err != nil {
		return 1, fmt.Errorf("parse error: %w", err)
	}

	parsed.Stdout = os.Stdout
	parsed.Stdin = os.Stdin
	if cio := f.options.CommandOutput; cio != nil {
		if cio.Stdout != nil {
			parsed.Stdout = cio.Stdout
		}
		if cio.Stdin != nil {
			parsed.Stdin = cio.Stdin
		}
	}

	return command.Execute(ctx, f, parsed)
}

func (f *FileSystem) registerBuiltins() error {
	commands := []cmd.Command{
		&builtin.LsCommand{},
		&builtin.StatCommand{},
		&builtin.SpacesCommand{},
		&builtin.CatCommand{},
		&builtin.PutCommand{},
		&builtin.MkdirCommand{},
		&builtin.RmCommand{},
		&builtin.MvCommand{},
		&builtin.XattrCommand{},
	}

	for _, command := range commands {
		if err := f.RegisterCommand(command); err != nil {
			return err
		}
	}

	return nil
}
