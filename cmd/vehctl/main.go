package main

import "github.com/momeni/vehweb/cmd/vehctl/command"

func main() {
	command.Execute()
}
