package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/arsla/cli"
	"github.com/ardnew/arsla/cli/cmd"
	"github.com/ardnew/arsla/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		cmd.Report(os.Stderr, err)
		log.Debug(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
		os.Exit(1)
	}
}
