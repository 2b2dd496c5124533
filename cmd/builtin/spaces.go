package builtin

import (
	"context"
	"fmt"

	"github.com/mwantia/onedatafs/cmd"
)

type SpacesCommand struct {
}

func (sp *SpacesCommand) Name() string {
	return "spaces"
}

func (sp *SpacesCommand) Description() string {
	return "List accessible spaces"
}

func (sp *SpacesCommand) Usage() string {
	return "spaces"
}

func (sp *SpacesCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs) (int, error) {
	spaces, err := api.Spaces(ctx)
	if err != nil {
		return 1, err
	}

	for _, space := range spaces {
		fmt.Fprintln(args.Stdout, space)
	}

	return 0, nil
}

func (sp *SpacesCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
