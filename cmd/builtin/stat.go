package builtin

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/mwantia/onedatafs/cmd"
)

type StatCommand struct {
}

func (st *StatCommand) Name() string {
	return "stat"
}

func (st *StatCommand) Description() string {
	return "Show file or directory information"
}

func (st *StatCommand) Usage() string {
	return "stat <path>"
}

func (st *StatCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs) (int, error) {
	if len(args.Args) != 1 {
		return 1, fmt.Errorf("usage: %s", st.Usage())
	}

	info, err := api.Stat(ctx, args.Args[0])
	if err != nil {
		return 1, err
	}

	fmt.Fprintf(args.Stdout, "Name:     %s\n", info.Name())
	fmt.Fprintf(args.Stdout, "Space:    %s\n", info.Space)
	fmt.Fprintf(args.Stdout, "FileID:   %s\n", info.FileID)
	fmt.Fprintf(args.Stdout, "Type:     %s\n", info.Type)
	fmt.Fprintf(args.Stdout, "Mode:     %s\n", info.Mode())
	fmt.Fprintf(args.Stdout, "Size:     %s (%d bytes)\n", humanize.IBytes(uint64(info.Size())), info.Size())
	fmt.Fprintf(args.Stdout, "Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(args.Stdout, "Owner:    %d:%d\n", info.UID, info.GID)

	return 0, nil
}

func (st *StatCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
