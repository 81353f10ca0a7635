// RaiLROAD: lesson authoring service and terminal lesson app.
//
// Usage:
//
//	railroad serve [--addr :5000]
//	railroad app [--offline] [--server http://localhost:5000]
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
