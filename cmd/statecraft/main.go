package main

import (
	"github.com/joho/godotenv"

	"github.com/playbypost/statecraft/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
