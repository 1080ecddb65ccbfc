package main

import (
	"os"

	"github.com/rustybadge/after-sales-quiz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
