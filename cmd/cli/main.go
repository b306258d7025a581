package main

import "foodfinder/cmd/cli/command"

func main() {
	command.Execute()
}
