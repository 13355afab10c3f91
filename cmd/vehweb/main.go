package main

import "github.com/momeni/vehweb/cmd/vehweb/command"

func main() {
	command.Execute()
}
