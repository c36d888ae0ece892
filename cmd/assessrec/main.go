package main

import "assessrec/internal/cli"

func main() {
	cli.Execute()
}
