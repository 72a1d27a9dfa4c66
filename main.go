package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"revisor/internal/cli"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	code := cli.ExitCode(ctx, err)
	stop()

	if code == cli.ExitInterrupted {
		logrus.Info("Interrupted by user (SIGINT).")
	}
	os.Exit(code)
}
