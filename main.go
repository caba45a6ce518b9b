package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/toreleon/portfolio/cmd"
)

func main() {
	cmd.Execute()
}
