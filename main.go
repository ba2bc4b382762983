package main

import "github.com/tonimelisma/confluence-client/cmd"

func main() {
	cmd.Execute()
}
