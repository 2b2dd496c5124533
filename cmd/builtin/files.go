package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/onedatafs/cmd"
	"github.com/mwantia/onedatafs/data"
)

type CatCommand struct {
}

func (c *CatCommand) Name() string {
	return "cat"
}

func (c *CatCommand) Description() string {
	return "Print file contents"
}

func (c *CatCommand) Usage() string {
	return "cat <path>..."
}

func (c *CatCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs) (int, error) {
	if len(args.Args) == 0 {
		return 1, fmt.Errorf("usage: %s", c.Usage())
	}

	for _, path := range args.Args {
		content, err := api.ReadFile(ctx, path)
		if err != nil {
			return 1, err
		}
		if _, err := args.Stdout.Write(content); err != nil {
			return 1, err
		}
	}

	return 0, nil
}

func (c *CatCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type PutCommand struct {
}

func (p *PutCommand) Name() string {
	return "put"
}

func (p *PutCommand) Description() string {
	return "Write stdin to a file"
}

func (p *PutCommand) Usage() string {
	return "put <path>"
}

func (p *PutCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs) (int, error) {
	if len(args.Args) != 1 {
		return 1, fmt.Errorf("usage: %s", p.Usage())
	}

	content, err := io.ReadAll(args.Stdin)
	if err != nil {
		return 1, err
	}

	if err := api.WriteFile(ctx, args.Args[0], content); err != nil {
		return 1, err
	}

	return 0, nil
}

func (p *PutCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type MkdirCommand struct {
}

func (m *MkdirCommand) Name() string {
	return "mkdir"
}

func (m *MkdirCommand) Description() string {
	return "Create a directory"
}

func (m *MkdirCommand) Usage() string {
	return "mkdir [-p] <path>"
}

func (m *MkdirCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs) (int, error) {
	if len(args.Args) != 1 {
		return 1, fmt.Errorf("usage: %s", m.Usage())
	}

	mkdir := api.Mkdir
	if args.Bool("parents") {
		mkdir = api.MkdirAll
	}

	if err := mkdir(ctx, args.Args[0]); err != nil {
		return 1, err
	}

	return 0, nil
}

func (m *MkdirCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"parents": {
				Name:        "parents",
				Short:       "p",
				Type:        "bool",
				Description: "Create missing parent directories",
			},
		},
	}
}

type RmCommand struct {
}

func (r *RmCommand) Name() string {
	return "rm"
}

func (r *RmCommand) Description() string {
	return "Remove a file or directory tree"
}

func (r *RmCommand) Usage() string {
	return "rm [-r] <path>..."
}

func (r *RmCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs) (int, error) {
	if len(args.Args) == 0 {
		return 1, fmt.Errorf("usage: %s", r.Usage())
	}

	remove := api.Remove
	if args.Bool("recursive") {
		remove = api.RemoveAll
	}

	// A failed path does not stop the remaining ones from being removed.
	failures := &data.Errors{}
	for _, path := range args.Args {
		if err := remove(ctx, path); err != nil {
			failures.Add(fmt.Errorf("%s: %w", path, err))
		}
	}

	if err := failures.Errors(); err != nil {
		return 1, err
	}

	return 0, nil
}

func (r *RmCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"recursive": {
				Name:        "recursive",
				Short:       "r",
				Type:        "bool",
				Description: "Remove directories and their contents",
			},
		},
	}
}

type MvCommand struct {
}

func (m *MvCommand) Name() string {
	return "mv"
}

func (m *MvCommand) Description() string {
	return "Move or rename a file or directory"
}

func (m *MvCommand) Usage() string {
	return "mv <source> <target>"
}

func (m *MvCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs) (int, error) {
	if len(args.Args) != 2 {
		return 1, fmt.Errorf("usage: %s", m.Usage())
	}

	if err := api.Rename(ctx, args.Args[0], args.Args[1]); err != nil {
		return 1, err
	}

	return 0, nil
}

func (m *MvCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
