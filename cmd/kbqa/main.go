package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/cli"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	// API keys may come from a .env file in the working directory.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := fang.Execute(context.Background(), cli.Root()); err != nil {
		os.Exit(1)
	}
}
