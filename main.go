package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/minilisp/cli"
	"github.com/ardnew/minilisp/cli/cmd"
	"github.com/ardnew/minilisp/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// The program's own error line has already been printed.
		if !errors.Is(err, cmd.ErrProgramFailed) {
			log.Error(
				"run failed",
				slog.Any("error", err),
			) // slog automatically uses LogValue()
		}

		os.Exit(1)
	}
}
