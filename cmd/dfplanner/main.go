package main

import "fleet-reliability/internal/cli"

func main() {
	cli.Execute()
}
