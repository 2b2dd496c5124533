package builtin

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/mwantia/onedatafs/cmd"
)

type LsCommand struct {
}

func (ls *LsCommand) Name() string {
	return "ls"
}

func (ls *LsCommand) Description() string {
	return "List directory contents"
}

func (ls *LsCommand) Usage() string {
	return "ls [-l] [path]"
}

func (ls *LsCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs) (int, error) {
	path := "/"
	if len(args.Args) > 0 {
		path = args.Args[0]
	}

	entries, err := api.ReadDir(ctx, path)
	if err != nil {
		return 1, err
	}

	long := args.Bool("long")
	for _, entry := range entries {
		if long {
			size := humanize.IBytes(uint64(entry.Size()))
			fmt.Fprintf(args.Stdout, "%s %8s %s %s\n",
				entry.Mode(), size,
				entry.ModTime().Format("2006-01-02 15:04"),
				entry.Name())
		} else {
			fmt.Fprintln(args.Stdout, entry.Name())
		}
	}

	return 0, nil
}

func (ls *LsCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"long": {
				Name:        "long",
				Short:       "l",
				Type:        "bool",
				Description: "Use long listing format",
			},
		},
	}
}
