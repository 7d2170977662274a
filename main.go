package main

import (
	_ "github.com/joho/godotenv/autoload"

	"cmore/cmd"
)

func main() {
	cmd.Execute()
}
