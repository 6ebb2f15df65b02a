package main

import (
	"os"

	"github.com/stepsql/stepsql/internal/commands"
)

func main() {
	os.Exit(commands.New().Execute())
}
