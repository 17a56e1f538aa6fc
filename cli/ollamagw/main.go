package main

import (
	"os"

	ollamagwcmder "github.com/papercomputeco/ollamagw/cmd/ollamagw"
)

func main() {
	cmd := ollamagwcmder.NewOllamagwCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
