package main

import (
	"context"
	"os"

	"charm.land/fang/v2"
	"github.com/pfrederiksen/vax-slots/internal/cli"
)

var version = "dev"

func main() {
	rootCmd := cli.NewRootCmd()
	rootCmd.Version = version

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(cli.ExitError)
	}
}
