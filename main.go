package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/aghaapesar/match-url-ai/cmd"
)

func main() {
	// A .env file is optional; env: references in the config resolve from
	// whatever environment is present.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
