package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/dendrascience/sortdir/internal/cmd"
	"github.com/dendrascience/sortdir/version"
)

func main() {
	err := fang.Execute(context.Background(), cmd.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithCommit(version.GetCommit()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}
