package main

import "github.com/homies-events/server/cmd/homies/cmd"

func main() {
	cmd.Execute()
}
