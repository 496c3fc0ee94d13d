// Command quebratigela is the terminal client of the Quebra-Tigela
// marketplace.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/quebra-tigela/internal/cli"
	"github.com/example/quebra-tigela/internal/config"
	"github.com/example/quebra-tigela/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitError)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitError)
	}
	logger := logging.NewJSON(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	app := cli.New(cfg, cli.WithLogger(logger))
	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
