package main

import (
	"os"

	"github.com/fantazia-finance/terminal/cmd/fantazia/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
