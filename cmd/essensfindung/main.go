package main

import (
	"context"
	"os"

	"github.com/essensfindung/essensfindung/internal/cli"
)

var version = "dev"

func main() {
	deps := cli.Dependencies{
		Version: version,
	}
	exitCode := cli.Execute(context.Background(), os.Args[1:], deps, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}
