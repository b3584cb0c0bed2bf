package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/habedi/findstream/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const debugEnvVar = "DEBUG_FINDSTREAM"

func main() {
	configureLogLevelFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	stopChan := setupInterruptListener()
	go handleInterrupt(stopChan, cancel, func(msg string) { log.Warn().Msg(msg) }, os.Exit)

	code := cmd.Execute(ctx)
	cancel()
	os.Exit(code)
}

// configureLogLevelFromEnv enables debug logging when DEBUG_FINDSTREAM is set
// to anything but "", "0" or "false"; otherwise the server logs at info level.
func configureLogLevelFromEnv() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(debugEnvVar))) {
	case "", "0", "false":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func setupInterruptListener() chan os.Signal {
	stopChan := make(chan os.Signal, 2)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	return stopChan
}

// handleInterrupt cancels the running command on the first signal so the
// server can drain, and exits on the second.
func handleInterrupt(stopChan chan os.Signal, cancel context.CancelFunc, logMsg func(string), exit func(int)) {
	<-stopChan
	logMsg("Interrupt signal received. Shutting down...")
	cancel()

	<-stopChan
	logMsg("Interrupt signal received again. Exiting...")
	exit(1)
}
