package main

import "github.com/rpupo63/portfolio-backend/commands"

func main() {
	commands.Execute()
}
