package main

import "github.com/autodeviq/autodev/cmd"

func main() {
	cmd.Execute()
}
