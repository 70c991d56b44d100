// mockhost serves the Parameter, Result and Log services locally so the task can be
// run outside the platform. Everything the task sends is printed through the logger.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cafe_task/internal/host"
	"cafe_task/internal/shared/logger"
	"cafe_task/internal/shared/types"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:20086", "Listen address")
	input := flag.String("input", `{"url": "https://example.com"}`, "Input parameters handed to the task")
	inputFile := flag.String("input-file", "", "Read the input parameters from a file instead of -input")
	pkg := flag.String("package", "sdk", "Proto package of the served services")
	level := flag.String("log-level", "debug", "Log level")
	flag.Parse()

	_ = godotenv.Load()

	if err := logger.Init(types.LogConf{Level: *level}); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	doc := *input
	if *inputFile != "" {
		b, err := os.ReadFile(*inputFile)
		if err != nil {
			logger.Fatal().Err(err).Msgf("Failed to read input file '%s'", *inputFile)
		}
		doc = string(b)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := host.New(doc)
	err := srv.Serve(ctx, *addr, *pkg, func(a net.Addr) {
		logger.Info().Str("address", a.String()).Msg("Point CAFE_RPC_ADDRESS at this host")
	})
	if err != nil {
		stop()
		logger.Fatal().Err(err).Msg("Mock host stopped")
	}
	logger.Info().Msgf("Mock host shut down, %d calls served", len(srv.Calls()))
}
