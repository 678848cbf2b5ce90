package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vectorops/dbdock/cmd/cli/commands"
)

func main() {
	// Load .env file if present so env-based flags pick it up
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
