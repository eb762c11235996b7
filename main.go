package main

import (
	"fmt"
	"os"

	"github.com/bnema/eglpi/cmd"
	"github.com/bnema/eglpi/internal/logger"
)

func main() {
	err := cmd.Execute()
	if cerr := logger.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Error: closing log file: %v\n", cerr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
