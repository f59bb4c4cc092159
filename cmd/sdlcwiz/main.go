// Package main provides the entry point for the sdlcwiz CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
