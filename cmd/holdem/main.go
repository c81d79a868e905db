package main

import "github.com/mcoot/holdem/internal/cli"

func main() {
	cli.Execute()
}
