// Command server runs the dispatcher against the reference game
// collaborator, the way the teacher's cmd/server wires its MCP server
// against RTM: parse flags on top of file/env configuration, build the
// collaborator and registry, then Serve until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cardrpc/dispatcher/internal/config"
	"github.com/cardrpc/dispatcher/internal/dispatch"
	"github.com/cardrpc/dispatcher/internal/logging"
	"github.com/cardrpc/dispatcher/internal/refgame"
	"github.com/cardrpc/dispatcher/internal/registry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dispatcher:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	verbose := flag.Bool("verbose", false, "enable debug-level logging")
	host, port := config.BindFlags(flag.CommandLine, config.New())
	flag.Parse()

	settings := config.New()
	var err error
	settings, err = config.LoadFile(settings, *configPath)
	if err != nil {
		return err
	}
	settings, err = config.LoadEnv(settings)
	if err != nil {
		return err
	}
	settings = config.ApplyFlags(settings, host, port)

	level := logging.LevelInfo
	if *verbose {
		level = logging.LevelDebug
	}
	logging.InitLogging(level, os.Stderr)
	logger := logging.GetLogger("cmd.server")

	game := refgame.NewGame(logger)
	reg, err := registry.New(refgame.Endpoints(game)...)
	if err != nil {
		return err
	}
	dispatcher := dispatch.New(reg, game, logger)

	srv, err := dispatch.NewServer(settings.Addr(), dispatcher, logger)
	if err != nil {
		return err
	}
	logger.Info("listening", "addr", srv.Addr().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}
