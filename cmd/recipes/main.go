package main

import (
	"os"

	"github.com/Makepad-fr/recipes/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
