package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/mdimages/cmd/mdimages/commands"
	derrors "git.home.luguber.info/inful/mdimages/internal/errors"
	"git.home.luguber.info/inful/mdimages/internal/version"
	"github.com/alecthomas/kong"
)

func main() {
	var cli commands.CLI
	kong.Parse(&cli,
		kong.Name("mdimages"),
		kong.Description("Download remote images referenced by a markdown document and point every image reference at a local folder."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Info()},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Run(ctx)
	cancel()

	if err != nil {
		os.Exit(derrors.NewCLIErrorAdapter(cli.Verbose, nil).Report(err))
	}
}
