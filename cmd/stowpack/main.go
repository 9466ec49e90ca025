// StowPack — warehouse box placement with guaranteed retrieval paths.
//
// Build:
//
//	go build -o stowpack ./cmd/stowpack
//
// Usage:
//
//	stowpack pack --boxes manifest.csv --pdf layout.pdf
//	stowpack compare --seed 42
//	stowpack serve --addr :8080
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/StowPack/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(cli.Run(ctx))
}
