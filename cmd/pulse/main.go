package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/YoshitsuguKoike/pulse/internal/interface/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), cli.ShutdownSignals()...)
	err := cli.NewRoot().ExecuteContext(ctx)
	stop()

	if err != nil {
		cli.ReportError(err)
		os.Exit(cli.ExitCode(err))
	}
}
