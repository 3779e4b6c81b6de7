package main

import (
	"fmt"
	"os"

	"github.com/trebuchet-org/catapult/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := cli.Execute(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
