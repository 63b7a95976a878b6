package main

import "potgen/internal/cli"

func main() {
	cli.Execute()
}
