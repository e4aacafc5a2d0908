package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/hollowoak/cback/cmd"
)

func main() {
	// Optional .env for CBACK_CONFIG / CBACK_LOG_LEVEL overrides.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
