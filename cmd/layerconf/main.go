package main

import (
	"os"

	"github.com/ygrebnov/layerconf/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}
