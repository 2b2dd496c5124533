package builtin

import (
	"context"
	"fmt"

	"github.com/mwantia/onedatafs/cmd"
)

type XattrCommand struct {
}

func (x *XattrCommand) Name() string {
	return "xattr"
}

func (x *XattrCommand) Description() string {
	return "Manage extended attributes"
}

func (x *XattrCommand) Usage() string {
	return "xattr <get|set|list|remove> <path> [name] [value]"
}

func (x *XattrCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs) (int, error) {
	if len(args.Args) < 2 {
		return 1, fmt.Errorf("usage: %s", x.Usage())
	}

	action := args.Args[0]
	path := args.Args[1]

	switch action {
	case "list":
		names, err := api.ListXattrs(ctx, path)
		if err != nil {
			return 1, err
		}
		for _, name := range names {
			fmt.Fprintln(args.Stdout, name)
		}

	case "get":
		if len(args.Args) != 3 {
			return 1, fmt.Errorf("usage: xattr get <path> <name>")
		}
		value, err := api.GetXattr(ctx, path, args.Args[2])
		if err != nil {
			return 1, err
		}
		fmt.Fprintln(args.Stdout, value)

	case "set":
		if len(args.Args) != 4 {
			return 1, fmt.Errorf("usage: xattr set <path> <name> <value>")
		}
		if err := api.SetXattr(ctx, path, args.Args[2], args.Args[3]); err != nil {
			return 1, err
		}

	case "remove":
		if len(args.Args) != 3 {
			return 1, fmt.Errorf("usage: xattr remove <path> <name>")
		}
		if err := api.RemoveXattr(ctx, path, args.Args[2]); err != nil {
			return 1, err
		}

	default:
		return 1, fmt.Errorf("unknown action: %s", action)
	}

	return 0, nil
}

func (x *XattrCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
