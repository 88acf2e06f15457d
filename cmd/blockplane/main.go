package main

import "github.com/blockplane/blockplane/cmd/blockplane/commands"

func main() {
	commands.Execute()
}
